package model

import "time"

// CartMode tells whether a cart has been hydrated from a server-backed cart.
type CartMode string

const (
	// CartModeGuest means no authenticated user has been associated with the cart yet.
	CartModeGuest CartMode = "guest"
	// CartModeCustomer means the cart mirrors a server-owned cart record.
	CartModeCustomer CartMode = "customer"
)

// CartLineItem is a single product line in a cart.
// ID is the server-assigned cart item id; it is nil for lines that only exist
// locally (added before the cart was synced against the backend).
type CartLineItem struct {
	ID        *uint  `json:"id,omitempty"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"` // Price snapshot at time of add (KRW)
	Quantity  int    `json:"quantity"`
}

// CartState is the canonical client-side view of one session's cart.
// Items are ordered and unique by ProductID. Total always equals
// Σ Price*Quantity after a local mutation; on hydration the server total wins.
type CartState struct {
	Items     []CartLineItem `json:"items"`
	Mode      CartMode       `json:"mode"`
	CartID    *uint          `json:"cart_id,omitempty"`
	Total     int64          `json:"total"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewCartState returns an empty guest cart.
func NewCartState() *CartState {
	return &CartState{
		Items:     []CartLineItem{},
		Mode:      CartModeGuest,
		Total:     0,
		UpdatedAt: time.Now().UTC(),
	}
}

// ComputeTotal sums Price*Quantity over the given lines.
func ComputeTotal(items []CartLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// FindItem returns the line for productID, or nil if absent.
func (s *CartState) FindItem(productID uint) *CartLineItem {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// Product is the product snapshot carried by an add-to-cart request.
// Stock is nil when the product does not declare a finite inventory.
type Product struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Price int64  `json:"price"`
	Stock *int   `json:"stock,omitempty"`
}

// CurrentUser is the authenticated identity passed explicitly into cart
// operations. A nil *CurrentUser means the caller is anonymous.
type CurrentUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserRole mirrors the role claim carried in access tokens.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)
