package orders

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"verbena/globals"
	"verbena/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// QRPayload returns a signed pickup payload: orderID|transactionID|signature.
// The shop scans it at handover to verify the order wasn't tampered with.
func QRPayload(o models.Order) string {
	data := fmt.Sprintf("%s|%s", o.OrderID, o.TransactionID)
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// RenderInvoicePDF builds a one-page invoice for an order with the pickup
// QR code embedded.
func RenderInvoicePDF(o models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(QRPayload(o), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", o.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Transaction ID: %s", o.TransactionID))
	pdf.Ln(8)
	if o.CustomerName != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Customer: %s", o.CustomerName))
		pdf.Ln(8)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Placed: %s", o.CreatedAt.Format("02 Jan 2006 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Price")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, it := range o.Items {
		pdf.Cell(90, 8, it.Name)
		pdf.Cell(25, 8, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(35, 8, fmt.Sprintf("%.2f", it.Price*float64(it.Quantity)))
		pdf.Ln(8)
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f %s", o.TotalAmount, o.Currency))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
