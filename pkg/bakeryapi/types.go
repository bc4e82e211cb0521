package bakeryapi

// SummaryItem is one line of a server-computed cart summary.
type SummaryItem struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartSummary is the backend's authoritative view of a user's cart.
// TotalAmount is a pointer so callers can tell "zero" from "not supplied".
type CartSummary struct {
	ID          uint          `json:"id"`
	UserID      uint          `json:"user_id"`
	Items       []SummaryItem `json:"items"`
	TotalAmount *int64        `json:"total_amount,omitempty"`
}

// AddItemRequest adds a product line to a user's server-side cart
type AddItemRequest struct {
	UserID    uint `json:"user_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// UpdateItemRequest changes the quantity of an existing cart item
type UpdateItemRequest struct {
	UserID   uint `json:"user_id"`
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// RemoveItemRequest deletes a cart item
type RemoveItemRequest struct {
	UserID uint `json:"user_id"`
	ItemID uint `json:"item_id"`
}

// ErrorResponse is the backend's error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
