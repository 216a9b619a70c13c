package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/storage"
)

// Store owns the authoritative client-side cart for one user. Every mutation
// synchronously re-persists the whole cart under the fixed cart key; reads
// are pure derivations over the in-memory aggregate. A storage failure is
// logged and never touches in-memory state.
type Store struct {
	mu      sync.Mutex
	key     string
	storage storage.Store
	log     *logrus.Logger
	cart    domain.Cart
}

// CartKey is the storage key for a user's cart entry.
func CartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// NewStore hydrates the cart from durable storage. A missing entry means an
// empty cart; an unreadable entry is logged and replaced by an empty cart
// rather than failing session start.
func NewStore(ctx context.Context, st storage.Store, key string, log *logrus.Logger) *Store {
	s := &Store{key: key, storage: st, log: log}

	data, err := st.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return s
	}
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("cart hydration failed, starting empty")
		return s
	}
	if errUnmarshal := json.Unmarshal(data, &s.cart); errUnmarshal != nil {
		log.WithError(errUnmarshal).WithField("key", key).Warn("cart entry unreadable, starting empty")
		s.cart = domain.Cart{}
	}
	return s
}

// AddItem appends a new line item. It always creates a new entry: adding the
// same product with the same options twice yields two independent line
// items, never a merged quantity.
func (s *Store) AddItem(ctx context.Context, productID string, product domain.ProductSnapshot, opts []domain.SelectedOption, quantity int) domain.CartLineItem {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.CartLineItem{
		ID:              uuid.NewString(),
		ProductID:       productID,
		Product:         product,
		SelectedOptions: append([]domain.SelectedOption(nil), opts...),
		Quantity:        quantity,
	}
	item.Recalc()

	s.cart.Items = append(s.cart.Items, item)
	s.persist(ctx)
	return item
}

// UpdateQuantity sets a line item's quantity and refreshes its total. A
// quantity of zero or below removes the item. An unknown id is a silent
// no-op, not an error.
func (s *Store) UpdateQuantity(ctx context.Context, lineItemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, lineItemID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ID == lineItemID {
			s.cart.Items[i].Quantity = quantity
			s.cart.Items[i].Recalc()
			s.persist(ctx)
			return
		}
	}
}

// RemoveItem deletes the line item if present; no-op otherwise.
func (s *Store) RemoveItem(ctx context.Context, lineItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.cart.Items {
		if item.ID == lineItemID {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = nil
	s.persist(ctx)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLineItem(nil), s.cart.Items...)
}

// ItemCount is the number of distinct line items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart.Items)
}

// TotalItemCount is the sum of quantities across line items.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItemCount()
}

// TotalPrice is the sum of line totals.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

// ContainsVariant reports whether any line item holds exactly this product
// and option configuration. Used to flag duplicate configurations in the UI.
func (s *Store) ContainsVariant(productID string, opts []domain.SelectedOption) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == productID && s.cart.Items[i].SameOptions(opts) {
			return true
		}
	}
	return false
}

// persist writes the full cart to durable storage. Callers hold s.mu.
// Persistence failure is an environment problem, not a domain one: it is
// logged and the in-memory cart stays intact.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(&s.cart)
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Error("cart marshal failed")
		return
	}
	if errSet := s.storage.Set(ctx, s.key, data); errSet != nil {
		s.log.WithError(errSet).WithField("key", s.key).Error("cart persist failed")
	}
}
