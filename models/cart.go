package models

import "time"

// CartItem is a single line in a user's cart. Price and name are snapshots
// taken at add time; later catalog changes do not touch existing lines.
// Lines merge by case-insensitive name, so one cart never holds two lines
// with the same name.
type CartItem struct {
	ProductID string    `json:"productId,omitempty" bson:"productId,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Price     float64   `json:"price" bson:"price"` // unit price
	Quantity  int       `json:"quantity" bson:"quantity"`
	URL       string    `json:"url,omitempty" bson:"url,omitempty"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// Cart is the per-user collection of cart items, one document per user.
// Item order is insertion order.
type Cart struct {
	UserID    string     `json:"userId" bson:"_id"`
	Items     []CartItem `json:"items" bson:"items"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Total returns the running cart total (Σ price × quantity).
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// CartSummary is the view-cart response payload.
type CartSummary struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
	Total  float64    `json:"total"`
	Empty  bool       `json:"empty"`
}
