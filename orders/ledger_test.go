package orders

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"verbena/cart"
	"verbena/models"

	"github.com/stretchr/testify/require"
)

type mockCartRepo struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]models.Cart)}
}

func (m *mockCartRepo) Get(_ context.Context, userID string) (models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return models.Cart{UserID: userID}, nil
	}
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c, nil
}

func (m *mockCartRepo) Save(_ context.Context, c models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.UserID] = c
	return nil
}

type mockOrderRepo struct {
	mu         sync.Mutex
	orders     map[string]models.Order
	failInsert error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]models.Order)}
}

func (m *mockOrderRepo) Insert(_ context.Context, o models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return m.failInsert
	}
	m.orders[o.OrderID] = o
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func newTestLedger() (*Ledger, *cart.Store, *mockOrderRepo) {
	carts := cart.NewStore(newMockCartRepo())
	repo := newMockOrderRepo()
	return NewLedger(repo, carts), carts, repo
}

func fillCart(t *testing.T, carts *cart.Store, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := carts.Add(ctx, userID, models.CartItem{Name: "A", Price: 100, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.Add(ctx, userID, models.CartItem{Name: "B", Price: 50})
	require.NoError(t, err)
}

func TestCheckout(t *testing.T) {
	ledger, carts, _ := newTestLedger()
	ctx := context.Background()
	fillCart(t, carts, "u1")

	order, err := ledger.Checkout(ctx, "u1", "Asha", "9999999999")
	require.NoError(t, err)

	require.Equal(t, 250.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	require.Equal(t, models.OrderStatusConfirmed, order.Status)
	require.Equal(t, "u1", order.UserID)
	require.Equal(t, "Asha", order.CustomerName)
	require.True(t, strings.HasPrefix(order.OrderID, "ORD"))
	require.True(t, strings.HasPrefix(order.TransactionID, "TXN"))
	require.False(t, order.CreatedAt.IsZero())

	// checkout clears the originating cart
	summary, err := carts.View(ctx, "u1")
	require.NoError(t, err)
	require.True(t, summary.Empty)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ledger, _, repo := newTestLedger()

	_, err := ledger.Checkout(context.Background(), "u1", "", "")
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Empty(t, repo.orders, "no order may exist for an empty cart")
}

func TestCheckoutPersistenceFailureKeepsCart(t *testing.T) {
	ledger, carts, repo := newTestLedger()
	ctx := context.Background()
	fillCart(t, carts, "u1")

	repo.failInsert = errors.New("store unwritable")
	_, err := ledger.Checkout(ctx, "u1", "", "")
	require.Error(t, err)

	summary, err := carts.View(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summary.Items, 2, "failed checkout must not clear the cart")
	require.Equal(t, 250.0, summary.Total)

	// a retry after the store recovers succeeds
	repo.failInsert = nil
	order, err := ledger.Checkout(ctx, "u1", "", "")
	require.NoError(t, err)
	require.Equal(t, 250.0, order.TotalAmount)
}

func TestOrderSnapshotIsIndependent(t *testing.T) {
	ledger, carts, _ := newTestLedger()
	ctx := context.Background()
	fillCart(t, carts, "u1")

	order, err := ledger.Checkout(ctx, "u1", "", "")
	require.NoError(t, err)

	// later cart activity must not leak into the stored order
	_, err = carts.Add(ctx, "u1", models.CartItem{Name: "C", Price: 999})
	require.NoError(t, err)

	stored, err := ledger.Status(ctx, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, 250.0, stored.TotalAmount)
	require.Len(t, stored.Items, 2)
}

func TestCheckoutDoesNotTouchOtherUsers(t *testing.T) {
	ledger, carts, _ := newTestLedger()
	ctx := context.Background()
	fillCart(t, carts, "u1")
	fillCart(t, carts, "u2")

	_, err := ledger.Checkout(ctx, "u1", "", "")
	require.NoError(t, err)

	summary, err := carts.View(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
}

func TestStatusNotFound(t *testing.T) {
	ledger, _, _ := newTestLedger()

	_, err := ledger.Status(context.Background(), "UNKNOWN_ID")
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = ledger.Status(context.Background(), "")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderIDsAreUnique(t *testing.T) {
	ledger, carts, _ := newTestLedger()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		fillCart(t, carts, "u1")
		order, err := ledger.Checkout(ctx, "u1", "", "")
		require.NoError(t, err)
		require.False(t, seen[order.OrderID], "order id %s repeated", order.OrderID)
		seen[order.OrderID] = true
	}
}

func TestQRPayloadIsSigned(t *testing.T) {
	ledger, carts, _ := newTestLedger()
	ctx := context.Background()
	fillCart(t, carts, "u1")

	order, err := ledger.Checkout(ctx, "u1", "", "")
	require.NoError(t, err)

	payload := QRPayload(order)
	parts := strings.Split(payload, "|")
	require.Len(t, parts, 3)
	require.Equal(t, order.OrderID, parts[0])
	require.Equal(t, order.TransactionID, parts[1])
	require.NotEmpty(t, parts[2])
}

func TestRenderInvoicePDF(t *testing.T) {
	ledger, carts, _ := newTestLedger()
	ctx := context.Background()
	fillCart(t, carts, "u1")

	order, err := ledger.Checkout(ctx, "u1", "Asha", "")
	require.NoError(t, err)

	pdfBytes, err := RenderInvoicePDF(order)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"))
}
