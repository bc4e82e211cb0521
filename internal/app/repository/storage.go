package repository

import (
	"context"
	"sync"

	"github.com/hyejin-dev/bakerly-cart/internal/app/model"
)

// CartStorage is the durable key-value surface behind the cart store. A
// snapshot survives process restarts the way the storefront cart survives
// page reloads. Implementations may fail (blocked storage, lost connection);
// the store treats every failure as non-fatal and keeps working in memory.
type CartStorage interface {
	Save(ctx context.Context, sessionID string, state *model.CartState) error
	Load(ctx context.Context, sessionID string) (*model.CartState, error)
	Delete(ctx context.Context, sessionID string) error
}

// ErrSnapshotNotFound is returned by Load when no snapshot exists for the key.
// It is the only Load error the store does not log.
var ErrSnapshotNotFound = errSnapshotNotFound{}

type errSnapshotNotFound struct{}

func (errSnapshotNotFound) Error() string { return "cart snapshot not found" }

// MemoryStorage keeps snapshots in a plain map. It backs tests and serves as
// the fallback when Redis is unreachable at startup.
type MemoryStorage struct {
	mu        sync.RWMutex
	snapshots map[string]model.CartState
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		snapshots: make(map[string]model.CartState),
	}
}

func (m *MemoryStorage) Save(_ context.Context, sessionID string, state *model.CartState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[sessionID] = cloneState(state)
	return nil
}

func (m *MemoryStorage) Load(_ context.Context, sessionID string) (*model.CartState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.snapshots[sessionID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	copied := cloneState(&state)
	return &copied, nil
}

func (m *MemoryStorage) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

func cloneState(state *model.CartState) model.CartState {
	copied := *state
	copied.Items = append([]model.CartLineItem(nil), state.Items...)
	return copied
}
