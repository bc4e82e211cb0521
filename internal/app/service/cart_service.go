package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyejin-dev/bakerly-cart/internal/app/model"
	"github.com/hyejin-dev/bakerly-cart/internal/app/repository"
	"github.com/hyejin-dev/bakerly-cart/pkg/bakeryapi"
	"github.com/hyejin-dev/bakerly-cart/pkg/logger"
	"github.com/hyejin-dev/bakerly-cart/pkg/util"
)

var (
	ErrAuthRequired     = errors.New("login required")
	ErrProductRequired  = errors.New("product is required")
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrRetryAfterSync is returned when a local line had no server id; the
	// cart has been resynchronized and the caller should retry the operation.
	ErrRetryAfterSync = errors.New("cart resynchronized, retry the operation")
)

// InsufficientStockError rejects an add that would exceed declared inventory.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}

// MergeResult reports the outcome of merging one guest line into the
// server-side cart during SyncRemoteCart.
type MergeResult struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Err       error `json:"-"`
}

// Merged reports whether this line made it into the server-side cart.
func (r MergeResult) Merged() bool { return r.Err == nil }

// CartAPI is the slice of the bakery backend the orchestrator needs.
type CartAPI interface {
	FetchCart(ctx context.Context, userID uint) (*bakeryapi.CartSummary, error)
	AddCartItem(ctx context.Context, req bakeryapi.AddItemRequest) (*bakeryapi.CartSummary, error)
	UpdateCartItem(ctx context.Context, req bakeryapi.UpdateItemRequest) (*bakeryapi.CartSummary, error)
	RemoveCartItem(ctx context.Context, req bakeryapi.RemoveItemRequest) (*bakeryapi.CartSummary, error)
	ClearCart(ctx context.Context, userID uint) (*bakeryapi.CartSummary, error)
}

// CartService orchestrates between the persisted cart store and the remote
// cart API. It is the only component that calls the remote API; the current
// user is always passed in explicitly, nil meaning anonymous.
type CartService interface {
	GetCart(sessionID string) model.CartState
	AddToCart(ctx context.Context, user *model.CurrentUser, sessionID string, product *model.Product, quantity int) (*model.CartState, error)
	ChangeQuantity(ctx context.Context, user *model.CurrentUser, sessionID string, productID uint, quantity int) (*model.CartState, error)
	RemoveFromCart(ctx context.Context, user *model.CurrentUser, sessionID string, productID uint) (*model.CartState, error)
	Clear(ctx context.Context, user *model.CurrentUser, sessionID string) error
	EndSession(sessionID string)
	SyncRemoteCart(ctx context.Context, user *model.CurrentUser, sessionID string) ([]MergeResult, error)
	CheckoutSummary(items []model.CartLineItem) string
}

type cartService struct {
	store          repository.CartStore
	api            CartAPI
	currencySuffix string
}

func NewCartService(store repository.CartStore, api CartAPI, currencySuffix string) CartService {
	return &cartService{
		store:          store,
		api:            api,
		currencySuffix: currencySuffix,
	}
}

func (s *cartService) GetCart(sessionID string) model.CartState {
	return s.store.Get(sessionID)
}

// AddToCart is login-gated: anonymous callers get ErrAuthRequired and the
// local cart is left untouched. The stock guard runs before any remote call.
func (s *cartService) AddToCart(ctx context.Context, user *model.CurrentUser, sessionID string, product *model.Product, quantity int) (*model.CartState, error) {
	if product == nil {
		return nil, ErrProductRequired
	}
	if user == nil {
		logger.Warn("Anonymous add to cart rejected", map[string]interface{}{
			"product_id": product.ID,
		})
		return nil, ErrAuthRequired
	}

	existingQty := 0
	current := s.store.Get(sessionID)
	if line := current.FindItem(product.ID); line != nil {
		existingQty = line.Quantity
	}
	desired := existingQty + quantity
	if product.Stock != nil && desired > *product.Stock {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"user_id":    user.ID,
			"product_id": product.ID,
			"requested":  desired,
			"available":  *product.Stock,
		})
		return nil, &InsufficientStockError{Available: *product.Stock}
	}

	summary, err := s.api.AddCartItem(ctx, bakeryapi.AddItemRequest{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  quantity,
	})
	if err != nil {
		logger.Error("Failed to add item to remote cart", err, map[string]interface{}{
			"user_id":    user.ID,
			"product_id": product.ID,
		})
		return nil, err
	}

	state := s.hydrate(sessionID, summary)
	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":    user.ID,
		"product_id": product.ID,
		"quantity":   quantity,
		"total":      state.Total,
	})
	return state, nil
}

// ChangeQuantity updates a line against the backend. A line that was never
// confirmed server-side (no id) is an inconsistent state: the cart is
// resynchronized and the caller is asked to retry.
func (s *cartService) ChangeQuantity(ctx context.Context, user *model.CurrentUser, sessionID string, productID uint, quantity int) (*model.CartState, error) {
	if user == nil {
		return nil, ErrAuthRequired
	}

	current := s.store.Get(sessionID)
	line := current.FindItem(productID)
	if line == nil {
		return nil, ErrCartItemNotFound
	}
	if line.ID == nil {
		return nil, s.healAndRetry(ctx, user, sessionID, productID)
	}

	summary, err := s.api.UpdateCartItem(ctx, bakeryapi.UpdateItemRequest{
		UserID:   user.ID,
		ItemID:   *line.ID,
		Quantity: quantity,
	})
	if err != nil {
		logger.Error("Failed to update remote cart item", err, map[string]interface{}{
			"user_id":    user.ID,
			"product_id": productID,
		})
		return nil, err
	}

	return s.hydrate(sessionID, summary), nil
}

// RemoveFromCart removes a line against the backend, with the same
// missing-id healing rule as ChangeQuantity.
func (s *cartService) RemoveFromCart(ctx context.Context, user *model.CurrentUser, sessionID string, productID uint) (*model.CartState, error) {
	if user == nil {
		return nil, ErrAuthRequired
	}

	current := s.store.Get(sessionID)
	line := current.FindItem(productID)
	if line == nil {
		return nil, ErrCartItemNotFound
	}
	if line.ID == nil {
		return nil, s.healAndRetry(ctx, user, sessionID, productID)
	}

	summary, err := s.api.RemoveCartItem(ctx, bakeryapi.RemoveItemRequest{
		UserID: user.ID,
		ItemID: *line.ID,
	})
	if err != nil {
		logger.Error("Failed to remove remote cart item", err, map[string]interface{}{
			"user_id":    user.ID,
			"product_id": productID,
		})
		return nil, err
	}

	return s.hydrate(sessionID, summary), nil
}

func (s *cartService) healAndRetry(ctx context.Context, user *model.CurrentUser, sessionID string, productID uint) error {
	logger.Warn("Cart line has no server id, resynchronizing", map[string]interface{}{
		"user_id":    user.ID,
		"product_id": productID,
	})
	if _, err := s.SyncRemoteCart(ctx, user, sessionID); err != nil {
		return err
	}
	return ErrRetryAfterSync
}

// Clear empties the cart. Anonymous callers only reset the local store;
// authenticated callers clear the server-side cart first, then reset locally
// regardless of what the summary says, for immediate UI feedback.
func (s *cartService) Clear(ctx context.Context, user *model.CurrentUser, sessionID string) error {
	if user == nil {
		s.store.Reset(sessionID)
		return nil
	}

	if _, err := s.api.ClearCart(ctx, user.ID); err != nil {
		logger.Error("Failed to clear remote cart", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	s.store.Reset(sessionID)
	logger.Info("Cart cleared", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// EndSession is the logout counterpart of SyncRemoteCart: the cart returns to
// an empty guest state and the durable snapshot is deleted outright, so the
// next user on this browser never sees the previous user's cart.
func (s *cartService) EndSession(sessionID string) {
	s.store.ClearPersisted(sessionID)
	logger.Info("Cart session ended", map[string]interface{}{
		"session_id": sessionID,
	})
}

// SyncRemoteCart is the guest→customer merge point, invoked after login.
// Local lines without a server id are pushed into the remote cart one by one;
// a single failure is recorded and skipped, never aborting the rest. The
// store is then hydrated from a final fetch so nothing added before
// authentication is silently lost.
func (s *cartService) SyncRemoteCart(ctx context.Context, user *model.CurrentUser, sessionID string) ([]MergeResult, error) {
	if user == nil {
		return nil, nil
	}

	var guestItems []model.CartLineItem
	for _, item := range s.store.Get(sessionID).Items {
		if item.ID == nil {
			guestItems = append(guestItems, item)
		}
	}

	summary, err := s.api.FetchCart(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to fetch remote cart", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	if len(guestItems) == 0 {
		s.hydrate(sessionID, summary)
		return nil, nil
	}

	// Sequential on purpose: concurrent adds race on the same cart row
	// server-side, and guest carts are small.
	results := make([]MergeResult, 0, len(guestItems))
	for _, item := range guestItems {
		_, err := s.api.AddCartItem(ctx, bakeryapi.AddItemRequest{
			UserID:    user.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
		if err != nil {
			logger.Warn("Failed to merge guest cart item, skipping", map[string]interface{}{
				"user_id":    user.ID,
				"product_id": item.ProductID,
				"error":      err.Error(),
			})
		}
		results = append(results, MergeResult{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Err:       err,
		})
	}

	final, err := s.api.FetchCart(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to fetch remote cart after merge", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return results, err
	}

	state := s.hydrate(sessionID, final)
	logger.Info("Guest cart merged", map[string]interface{}{
		"user_id":     user.ID,
		"guest_items": len(guestItems),
		"total":       state.Total,
	})
	return results, nil
}

// CheckoutSummary returns the formatted total of the given lines, or an
// empty string for an empty list. Pure, no side effects.
func (s *cartService) CheckoutSummary(items []model.CartLineItem) string {
	if len(items) == 0 {
		return ""
	}
	return util.FormatKRW(model.ComputeTotal(items), s.currencySuffix)
}

// hydrate maps a server summary into line items and replaces the local cart.
func (s *cartService) hydrate(sessionID string, summary *bakeryapi.CartSummary) *model.CartState {
	items := make([]model.CartLineItem, 0, len(summary.Items))
	for _, it := range summary.Items {
		id := it.ID
		items = append(items, model.CartLineItem{
			ID:        &id,
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	s.store.Hydrate(sessionID, summary.ID, items, summary.TotalAmount)
	state := s.store.Get(sessionID)
	return &state
}
