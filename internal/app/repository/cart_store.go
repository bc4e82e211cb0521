package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hyejin-dev/bakerly-cart/internal/app/model"
	"github.com/hyejin-dev/bakerly-cart/pkg/logger"
)

// CartStore holds the canonical client-side cart for each storefront session
// and keeps Total consistent with Items on every mutation. Snapshots are
// written through the CartStorage adapter best-effort: a failing snapshot
// never fails the operation, the in-memory state stays usable for the session.
type CartStore interface {
	Get(sessionID string) model.CartState
	SetMode(sessionID string, mode model.CartMode)
	Hydrate(sessionID string, cartID uint, items []model.CartLineItem, total *int64)
	AddItem(sessionID string, item model.CartLineItem)
	UpdateQuantity(sessionID string, productID uint, quantity int)
	RemoveItem(sessionID string, productID uint)
	Reset(sessionID string)
	ClearPersisted(sessionID string)
	EvictIdle(olderThan time.Duration) int
}

type cartStore struct {
	mu      sync.Mutex
	carts   map[string]*model.CartState
	storage CartStorage
}

func NewCartStore(storage CartStorage) CartStore {
	return &cartStore{
		carts:   make(map[string]*model.CartState),
		storage: storage,
	}
}

// state returns the in-memory cart for the session, loading the persisted
// snapshot on first access. Callers must hold the lock.
func (s *cartStore) state(sessionID string) *model.CartState {
	if st, ok := s.carts[sessionID]; ok {
		return st
	}

	ctx, cancel := storageContext()
	defer cancel()
	st, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			logger.Warn("Failed to load cart snapshot, starting empty", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
		st = model.NewCartState()
	}

	s.carts[sessionID] = st
	return st
}

// persist saves a snapshot best-effort. Callers must hold the lock.
func (s *cartStore) persist(sessionID string, st *model.CartState) {
	st.UpdatedAt = time.Now().UTC()

	ctx, cancel := storageContext()
	defer cancel()
	if err := s.storage.Save(ctx, sessionID, st); err != nil {
		logger.Warn("Failed to persist cart snapshot", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (s *cartStore) Get(sessionID string) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state(sessionID))
}

func (s *cartStore) SetMode(sessionID string, mode model.CartMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(sessionID)
	st.Mode = mode
	s.persist(sessionID, st)
}

// Hydrate replaces Items and CartID wholesale with server-provided truth and
// switches the cart to customer mode. It is the only operation that may
// introduce items carrying a server ID. The server total wins when supplied.
func (s *cartStore) Hydrate(sessionID string, cartID uint, items []model.CartLineItem, total *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(sessionID)
	st.Items = append([]model.CartLineItem(nil), items...)
	st.CartID = &cartID
	st.Mode = model.CartModeCustomer
	if total != nil {
		st.Total = *total
	} else {
		st.Total = model.ComputeTotal(st.Items)
	}
	s.persist(sessionID, st)
}

// AddItem merges by ProductID: an existing line's quantity is incremented,
// otherwise the line is appended.
func (s *cartStore) AddItem(sessionID string, item model.CartLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(sessionID)
	if existing := st.FindItem(item.ProductID); existing != nil {
		existing.Quantity += item.Quantity
	} else {
		st.Items = append(st.Items, item)
	}
	st.Total = model.ComputeTotal(st.Items)
	s.persist(sessionID, st)
}

// UpdateQuantity sets the line's quantity; a non-positive quantity removes
// the line instead of keeping it at zero.
func (s *cartStore) UpdateQuantity(sessionID string, productID uint, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(sessionID)
	if quantity <= 0 {
		st.Items = removeLine(st.Items, productID)
	} else if existing := st.FindItem(productID); existing != nil {
		existing.Quantity = quantity
	}
	st.Total = model.ComputeTotal(st.Items)
	s.persist(sessionID, st)
}

// RemoveItem deletes the line if present; removing an absent line is a no-op.
func (s *cartStore) RemoveItem(sessionID string, productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(sessionID)
	st.Items = removeLine(st.Items, productID)
	st.Total = model.ComputeTotal(st.Items)
	s.persist(sessionID, st)
}

// Reset clears the cart back to an empty guest cart. The empty state is
// written through like any other mutation, so a cleared cart cannot come back
// from a stale snapshot after eviction or a restart. The durable entry itself
// stays; ClearPersisted deletes it.
func (s *cartStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.NewCartState()
	s.carts[sessionID] = st
	s.persist(sessionID, st)
}

// ClearPersisted resets the cart and deletes the durable snapshot so nothing
// leaks into the next session on this browser. The empty state is persisted
// first: if the delete fails, the snapshot left behind is empty, not the
// previous user's cart.
func (s *cartStore) ClearPersisted(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.NewCartState()
	s.carts[sessionID] = st
	s.persist(sessionID, st)

	ctx, cancel := storageContext()
	defer cancel()
	if err := s.storage.Delete(ctx, sessionID); err != nil {
		logger.Warn("Failed to delete cart snapshot", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// EvictIdle drops in-memory carts untouched for longer than olderThan and
// returns how many were evicted. Persisted snapshots are not touched; an
// evicted session reloads from its snapshot on next access.
func (s *cartStore) EvictIdle(olderThan time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	evicted := 0
	for sid, st := range s.carts {
		if st.UpdatedAt.Before(cutoff) {
			delete(s.carts, sid)
			evicted++
		}
	}
	return evicted
}

func removeLine(items []model.CartLineItem, productID uint) []model.CartLineItem {
	out := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

func storageContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}
