package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyejin-dev/bakerly-cart/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "session-1"

func setupCartStoreTest(t *testing.T) (CartStore, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	return NewCartStore(storage), storage
}

func line(productID uint, price int64, quantity int) model.CartLineItem {
	return model.CartLineItem{
		ProductID: productID,
		Name:      "Test Bread",
		Price:     price,
		Quantity:  quantity,
	}
}

func assertTotalInvariant(t *testing.T, state model.CartState) {
	t.Helper()
	assert.Equal(t, model.ComputeTotal(state.Items), state.Total)
}

func TestCartStore_AddItem_AppendsAndMerges(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	store.AddItem(testSession, line(2, 3000, 1))

	state := store.Get(testSession)
	assert.Len(t, state.Items, 2)
	assert.Equal(t, int64(12000), state.Total)
	assertTotalInvariant(t, state)

	// Same product merges into the existing line instead of adding a second one
	store.AddItem(testSession, line(1, 4500, 3))

	state = store.Get(testSession)
	assert.Len(t, state.Items, 2)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assertTotalInvariant(t, state)
}

func TestCartStore_UniquenessByProductID(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	for i := 0; i < 5; i++ {
		store.AddItem(testSession, line(7, 2500, 1))
	}

	state := store.Get(testSession)
	seen := make(map[uint]bool)
	for _, item := range state.Items {
		assert.False(t, seen[item.ProductID], "duplicate product id %d", item.ProductID)
		seen[item.ProductID] = true
	}
	assert.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	store.UpdateQuantity(testSession, 1, 4)

	state := store.Get(testSession)
	assert.Equal(t, 4, state.Items[0].Quantity)
	assert.Equal(t, int64(18000), state.Total)
	assertTotalInvariant(t, state)
}

func TestCartStore_UpdateQuantity_NonPositiveRemoves(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{name: "Zero quantity", quantity: 0},
		{name: "Negative quantity", quantity: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := setupCartStoreTest(t)
			store.AddItem(testSession, line(1, 4500, 2))

			store.UpdateQuantity(testSession, 1, tt.quantity)

			state := store.Get(testSession)
			assert.Nil(t, state.FindItem(1))
			assert.Equal(t, int64(0), state.Total)
		})
	}
}

func TestCartStore_RemoveItem_Idempotent(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	before := store.Get(testSession)

	// Removing a product that is not in the cart changes nothing
	store.RemoveItem(testSession, 99)

	after := store.Get(testSession)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Total, after.Total)

	store.RemoveItem(testSession, 1)
	assert.Empty(t, store.Get(testSession).Items)
}

func TestCartStore_Hydrate_ReplacesNotMerges(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	store.AddItem(testSession, line(2, 3000, 1))

	serverID := uint(77)
	items := []model.CartLineItem{
		{ID: &serverID, ProductID: 3, Name: "Croissant", Price: 3800, Quantity: 2},
	}
	total := int64(7600)
	store.Hydrate(testSession, 12, items, &total)

	state := store.Get(testSession)
	require.Len(t, state.Items, 1)
	assert.Equal(t, uint(3), state.Items[0].ProductID)
	assert.Equal(t, model.CartModeCustomer, state.Mode)
	require.NotNil(t, state.CartID)
	assert.Equal(t, uint(12), *state.CartID)
	assert.Equal(t, int64(7600), state.Total)
}

func TestCartStore_Hydrate_RecomputesWithoutServerTotal(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	items := []model.CartLineItem{
		{ProductID: 1, Price: 50000, Quantity: 2},
		{ProductID: 2, Price: 30000, Quantity: 1},
	}
	store.Hydrate(testSession, 12, items, nil)

	assert.Equal(t, int64(130000), store.Get(testSession).Total)
}

func TestCartStore_SetMode_LeavesItemsAlone(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	store.SetMode(testSession, model.CartModeCustomer)

	state := store.Get(testSession)
	assert.Equal(t, model.CartModeCustomer, state.Mode)
	require.Len(t, state.Items, 1)
	assert.Equal(t, int64(9000), state.Total)
}

func TestCartStore_Reset(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	total := int64(9000)
	store.Hydrate(testSession, 12, store.Get(testSession).Items, &total)

	store.Reset(testSession)

	state := store.Get(testSession)
	assert.Empty(t, state.Items)
	assert.Equal(t, int64(0), state.Total)
	assert.Nil(t, state.CartID)
	assert.Equal(t, model.CartModeGuest, state.Mode)
}

func TestCartStore_Reset_WritesThroughSnapshot(t *testing.T) {
	store, storage := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	total := int64(9000)
	store.Hydrate(testSession, 12, store.Get(testSession).Items, &total)

	store.Reset(testSession)

	// The snapshot reflects the reset, so the cleared cart stays cleared
	// after the in-memory copy is evicted
	require.Equal(t, 1, store.EvictIdle(0))

	state := store.Get(testSession)
	assert.Empty(t, state.Items)
	assert.Equal(t, int64(0), state.Total)
	assert.Nil(t, state.CartID)
	assert.Equal(t, model.CartModeGuest, state.Mode)

	snapshot, err := storage.Load(context.Background(), testSession)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Equal(t, model.CartModeGuest, snapshot.Mode)
}

func TestCartStore_ClearPersisted_DeletesSnapshot(t *testing.T) {
	store, storage := setupCartStoreTest(t)

	store.AddItem(testSession, line(1, 4500, 2))
	_, err := storage.Load(context.Background(), testSession)
	require.NoError(t, err)

	store.ClearPersisted(testSession)

	_, err = storage.Load(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.Empty(t, store.Get(testSession).Items)
}

func TestCartStore_ReloadsFromSnapshot(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewCartStore(storage)
	store.AddItem(testSession, line(1, 4500, 2))

	// A fresh store over the same storage sees the persisted cart
	restarted := NewCartStore(storage)
	state := restarted.Get(testSession)
	require.Len(t, state.Items, 1)
	assert.Equal(t, int64(9000), state.Total)
}

// brokenStorage fails every operation, like localStorage blocked by browser
// privacy settings. The store must keep serving the session from memory.
type brokenStorage struct{}

func (brokenStorage) Save(context.Context, string, *model.CartState) error {
	return errors.New("storage blocked")
}

func (brokenStorage) Load(context.Context, string) (*model.CartState, error) {
	return nil, errors.New("storage blocked")
}

func (brokenStorage) Delete(context.Context, string) error {
	return errors.New("storage blocked")
}

func TestCartStore_StorageFailuresAreSilent(t *testing.T) {
	store := NewCartStore(brokenStorage{})

	store.AddItem(testSession, line(1, 4500, 2))
	store.UpdateQuantity(testSession, 1, 3)
	store.ClearPersisted(testSession)
	store.AddItem(testSession, line(2, 3000, 1))

	state := store.Get(testSession)
	require.Len(t, state.Items, 1)
	assert.Equal(t, uint(2), state.Items[0].ProductID)
	assertTotalInvariant(t, state)
}

func TestCartStore_EvictIdle(t *testing.T) {
	store, _ := setupCartStoreTest(t)

	store.AddItem("stale", line(1, 4500, 1))
	store.AddItem("fresh", line(2, 3000, 1))

	// Nothing is older than an hour yet
	assert.Equal(t, 0, store.EvictIdle(time.Hour))

	// Everything idles out with a zero cutoff
	evicted := store.EvictIdle(0)
	assert.Equal(t, 2, evicted)

	// Evicted sessions come back from their snapshots
	state := store.Get("stale")
	require.Len(t, state.Items, 1)
	assert.Equal(t, uint(1), state.Items[0].ProductID)
}
