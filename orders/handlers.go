package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"verbena/cart"
	"verbena/rdx"
	"verbena/utils"

	"github.com/julienschmidt/httprouter"
)

// Orders never change after creation, so cached copies can live long.
const orderCacheTTL = time.Hour

// Handlers exposes checkout and order lookup over HTTP.
type Handlers struct {
	Ledger *Ledger
}

func NewHandlers(ledger *Ledger) *Handlers {
	return &Handlers{Ledger: ledger}
}

// Checkout converts the user's cart into an order.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		CustomerName  string `json:"customerName"`
		CustomerPhone string `json:"customerPhone"`
	}
	if r.Body != nil {
		// Payload is optional; a malformed one is still rejected.
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.Ledger.Checkout(ctx, userID, payload.CustomerName, payload.CustomerPhone)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyCart):
		utils.RespondWithError(w, http.StatusConflict, "Cart is empty")
		return
	case errors.Is(err, cart.ErrInvalidInput):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid checkout request")
		return
	default:
		log.Println("Checkout error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
		return
	}

	if body, err := json.Marshal(order); err == nil {
		rdx.CacheSet("order:"+order.OrderID, body, orderCacheTTL)
	}
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrderStatus is a pure lookup; unknown ids report not-found.
func (h *Handlers) GetOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderId")
	if cached := rdx.CacheGet("order:" + orderID); cached != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	order, err := h.Ledger.Status(ctx, orderID)
	switch {
	case err == nil:
	case errors.Is(err, ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	default:
		log.Println("GetOrderStatus error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not look up order")
		return
	}

	if body, err := json.Marshal(order); err == nil {
		rdx.CacheSet("order:"+order.OrderID, body, orderCacheTTL)
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// PrintInvoice streams the PDF invoice for an order the caller owns.
func (h *Handlers) PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.Ledger.Status(ctx, ps.ByName("orderId"))
	if errors.Is(err, ErrOrderNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Println("PrintInvoice lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not look up order")
		return
	}
	if order.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}

	pdfBytes, err := RenderInvoicePDF(order)
	if err != nil {
		log.Println("PrintInvoice render error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
