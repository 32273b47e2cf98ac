package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"verbena/models"
)

var (
	ErrItemNotFound = errors.New("item not in cart")
	ErrInvalidInput = errors.New("invalid cart input")
)

// Repo persists one cart document per user. Get on an unknown user returns
// an empty cart, not an error; Save rewrites the whole document so readers
// never observe a half-written cart.
type Repo interface {
	Get(ctx context.Context, userID string) (models.Cart, error)
	Save(ctx context.Context, c models.Cart) error
}

// Store is the cart service. Operations for the same user are serialized
// through a per-user lock; distinct users never contend.
type Store struct {
	repo  Repo
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(repo Repo) *Store {
	return &Store{repo: repo, locks: make(map[string]*sync.Mutex)}
}

// LockUser takes the per-user cart lock and returns its release func. The
// order ledger uses the same lock during checkout so a concurrent add can
// not slip between snapshot and clear.
func (s *Store) LockUser(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Add merges item into the user's cart: an existing line with the same
// name (case-insensitive) gets its quantity incremented, anything else is
// appended. The cart is persisted before Add returns.
func (s *Store) Add(ctx context.Context, userID string, item models.CartItem) (models.Cart, error) {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if userID == "" || item.Name == "" || item.Price < 0 || item.Quantity < 0 {
		return models.Cart{}, ErrInvalidInput
	}

	unlock := s.LockUser(userID)
	defer unlock()

	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	c.UserID = userID

	merged := false
	for i := range c.Items {
		if strings.EqualFold(c.Items[i].Name, item.Name) {
			c.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		item.AddedAt = time.Now()
		c.Items = append(c.Items, item)
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, c); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

// View returns the cart summary. A user with no cart and a user with an
// emptied cart both read as empty.
func (s *Store) View(ctx context.Context, userID string) (models.CartSummary, error) {
	if userID == "" {
		return models.CartSummary{}, ErrInvalidInput
	}
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.CartSummary{}, err
	}
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return models.CartSummary{
		UserID: userID,
		Items:  items,
		Total:  c.Total(),
		Empty:  len(items) == 0,
	}, nil
}

// Remove drops the first line whose name matches, case-insensitively.
func (s *Store) Remove(ctx context.Context, userID, name string) error {
	if userID == "" || name == "" {
		return ErrInvalidInput
	}

	unlock := s.LockUser(userID)
	defer unlock()

	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	for i := range c.Items {
		if strings.EqualFold(c.Items[i].Name, name) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UserID = userID
			c.UpdatedAt = time.Now()
			return s.repo.Save(ctx, c)
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart. Clearing an already-empty cart succeeds.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidInput
	}

	unlock := s.LockUser(userID)
	defer unlock()

	return s.clearLocked(ctx, userID)
}

// ClearLocked empties the cart for a caller that already holds the user's
// lock (the checkout path).
func (s *Store) ClearLocked(ctx context.Context, userID string) error {
	return s.clearLocked(ctx, userID)
}

func (s *Store) clearLocked(ctx context.Context, userID string) error {
	return s.repo.Save(ctx, models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		UpdatedAt: time.Now(),
	})
}

// SnapshotLocked deep-copies the cart items for a caller holding the
// user's lock.
func (s *Store) SnapshotLocked(ctx context.Context, userID string) ([]models.CartItem, error) {
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)
	return items, nil
}
