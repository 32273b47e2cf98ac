package models

// Product is one sellable catalog entry. Products are loaded wholesale from
// the catalog source and are read-only afterwards; nothing outside the
// catalog package may mutate one.
type Product struct {
	ProductID   string            `json:"productId" bson:"productId"`
	Name        string            `json:"name" bson:"name"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64           `json:"price" bson:"price"` // 0 means unknown, not free
	Category    string            `json:"category" bson:"category"`
	URL         string            `json:"url,omitempty" bson:"url,omitempty"`
	FlowerTypes []string          `json:"flowerTypes,omitempty" bson:"flowerTypes,omitempty"`
	Available   bool              `json:"available" bson:"available"`
	Verified    bool              `json:"verified" bson:"verified"`
	Meta        map[string]string `json:"meta,omitempty" bson:"meta,omitempty"` // unrecognized source columns
}
