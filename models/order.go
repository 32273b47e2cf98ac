package models

import "time"

// Order statuses. Orders in this core are created confirmed and never move.
const (
	OrderStatusConfirmed = "confirmed"
)

// Order is an immutable record of a completed checkout. Items is a deep
// copy of the cart at checkout time and TotalAmount is computed exactly
// once at creation.
type Order struct {
	OrderID       string     `json:"orderId" bson:"_id"`
	TransactionID string     `json:"transactionId" bson:"transactionId"`
	UserID        string     `json:"userId" bson:"userId"`
	Items         []CartItem `json:"items" bson:"items"`
	TotalAmount   float64    `json:"totalAmount" bson:"totalAmount"`
	Currency      string     `json:"currency" bson:"currency"`
	CustomerName  string     `json:"customerName,omitempty" bson:"customerName,omitempty"`
	CustomerPhone string     `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`
	Status        string     `json:"status" bson:"status"`
	PaymentMethod string     `json:"paymentMethod" bson:"paymentMethod"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
}

// IdempotencyRecord is a stored Idempotency-Key record for the checkout
// endpoint, expired by a Mongo TTL index.
type IdempotencyRecord struct {
	Key         string          `bson:"key" json:"key"`
	Method      string          `bson:"method" json:"method"`
	Path        string          `bson:"path" json:"path"`
	UserID      string          `bson:"userid" json:"userid"`
	RequestHash string          `bson:"request_hash" json:"request_hash"`
	Response    *StoredResponse `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time       `bson:"expires_at" json:"expires_at"`
}

// StoredResponse is the recorded outcome of the first call under an
// idempotency key, replayed verbatim for duplicates. Status is typed so
// it survives the BSON round trip as a usable HTTP code.
type StoredResponse struct {
	Status int         `bson:"status" json:"status"`
	Body   interface{} `bson:"body,omitempty" json:"body,omitempty"`
}
