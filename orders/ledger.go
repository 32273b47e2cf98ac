package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"verbena/cart"
	"verbena/globals"
	"verbena/models"
	"verbena/utils"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// Repo persists immutable order records keyed by order id.
type Repo interface {
	Insert(ctx context.Context, o models.Order) error
	FindByID(ctx context.Context, orderID string) (models.Order, error)
}

// Ledger turns non-empty carts into orders. Orders are written once and
// never updated.
type Ledger struct {
	repo  Repo
	carts *cart.Store
}

func NewLedger(repo Repo, carts *cart.Store) *Ledger {
	return &Ledger{repo: repo, carts: carts}
}

// Checkout snapshots the user's cart, persists an order for it and clears
// the cart, all under the user's cart lock. If the order cannot be
// persisted the cart is left untouched, so a retry sees the same items.
func (l *Ledger) Checkout(ctx context.Context, userID, customerName, customerPhone string) (models.Order, error) {
	if userID == "" {
		return models.Order{}, cart.ErrInvalidInput
	}

	unlock := l.carts.LockUser(userID)
	defer unlock()

	items, err := l.carts.SnapshotLocked(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}

	order := models.Order{
		OrderID:       newOrderID(),
		TransactionID: newTransactionID(),
		UserID:        userID,
		Items:         items,
		TotalAmount:   total,
		Currency:      globals.Currency,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Status:        models.OrderStatusConfirmed,
		PaymentMethod: "cod",
		CreatedAt:     time.Now(),
	}

	if err := l.repo.Insert(ctx, order); err != nil {
		return models.Order{}, err
	}

	// The order is durable at this point; a failed cart clear leaves stale
	// items but never a second order.
	if err := l.carts.ClearLocked(ctx, userID); err != nil {
		log.Printf("orders: cart cleanup failed for user %s after order %s: %v", userID, order.OrderID, err)
	}

	return order, nil
}

// Status looks up an order by id. Unknown ids report ErrOrderNotFound.
func (l *Ledger) Status(ctx context.Context, orderID string) (models.Order, error) {
	if orderID == "" {
		return models.Order{}, ErrOrderNotFound
	}
	return l.repo.FindByID(ctx, orderID)
}

// newOrderID yields humanly sortable yet unique ids: a timestamp component
// plus a random suffix.
func newOrderID() string {
	return "ORD" + time.Now().Format("20060102150405") + utils.GenerateRandomDigitString(6)
}

func newTransactionID() string {
	return "TXN" + utils.GetUUID()
}
