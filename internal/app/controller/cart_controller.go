package controller

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hyejin-dev/bakerly-cart/internal/app/model"
	"github.com/hyejin-dev/bakerly-cart/internal/app/service"
	"github.com/hyejin-dev/bakerly-cart/internal/errors"
	"github.com/hyejin-dev/bakerly-cart/internal/middleware"
	"github.com/hyejin-dev/bakerly-cart/pkg/bakeryapi"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type ProductPayload struct {
	ID    uint   `json:"id" binding:"required"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Price int64  `json:"price" binding:"gte=0"`
	Stock *int   `json:"stock"`
}

type AddToCartRequest struct {
	Product  ProductPayload `json:"product" binding:"required"`
	Quantity int            `json:"quantity" binding:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type mergeResultResponse struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Merged    bool   `json:"merged"`
	Error     string `json:"error,omitempty"`
}

// GetCart returns the session's cart state
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	state := ctrl.cartService.GetCart(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"cart":  state,
		"count": len(state.Items),
	})
}

// AddToCart adds a product to the cart (login required)
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	user := middleware.GetCurrentUser(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	product := &model.Product{
		ID:    req.Product.ID,
		Name:  req.Product.Name,
		Image: req.Product.Image,
		Price: req.Product.Price,
		Stock: req.Product.Stock,
	}

	state, err := ctrl.cartService.AddToCart(c.Request.Context(), user, sessionID, product, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   req.Quantity,
		"total":      state.Total,
	})

	c.JSON(http.StatusCreated, gin.H{
		"cart": state,
	})
}

// UpdateCartItem changes a line's quantity (login required)
// PUT /api/v1/cart/items/:product_id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	user := middleware.GetCurrentUser(c)

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	state, err := ctrl.cartService.ChangeQuantity(c.Request.Context(), user, sessionID, productID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": state,
	})
}

// RemoveFromCart removes a line (login required)
// DELETE /api/v1/cart/items/:product_id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)
	user := middleware.GetCurrentUser(c)

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	state, err := ctrl.cartService.RemoveFromCart(c.Request.Context(), user, sessionID, productID)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": state,
	})
}

// ClearCart empties the cart; guests only reset locally
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	user := middleware.GetCurrentUser(c)

	if err := ctrl.cartService.Clear(c.Request.Context(), user, sessionID); err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	log.Info("Cart cleared", nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "장바구니를 비웠습니다",
	})
}

// EndSession clears the browser's cart session on logout: the local cart
// resets to guest and the persisted snapshot is deleted, so nothing carries
// over to the next user on this browser.
// DELETE /api/v1/cart/session
func (ctrl *CartController) EndSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	ctrl.cartService.EndSession(sessionID)

	log.Info("Cart session ended", nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "장바구니 세션을 정리했습니다",
	})
}

// SyncCart merges guest lines into the customer's server-side cart.
// Called by the storefront right after login.
// POST /api/v1/cart/sync
func (ctrl *CartController) SyncCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)
	user := middleware.GetCurrentUser(c)

	results, err := ctrl.cartService.SyncRemoteCart(c.Request.Context(), user, sessionID)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	merged := make([]mergeResultResponse, 0, len(results))
	for _, r := range results {
		item := mergeResultResponse{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			Merged:    r.Merged(),
		}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		merged = append(merged, item)
	}

	state := ctrl.cartService.GetCart(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"cart":   state,
		"merged": merged,
	})
}

// GetSummary returns the formatted checkout total for the session's cart
// GET /api/v1/cart/summary
func (ctrl *CartController) GetSummary(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	state := ctrl.cartService.GetCart(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"summary": ctrl.cartService.CheckoutSummary(state.Items),
		"total":   state.Total,
	})
}

// respondCartError maps service errors onto the response envelope.
func (ctrl *CartController) respondCartError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	var stockErr *service.InsufficientStockError
	switch {
	case stderrors.Is(err, service.ErrAuthRequired):
		errors.LoginRequired(c, loginRedirectPath(c))
	case stderrors.As(err, &stockErr):
		errors.BadRequest(c, errors.CartInsufficientStock,
			fmt.Sprintf("재고가 부족합니다. 구매 가능 수량: %d개", stockErr.Available))
	case stderrors.Is(err, service.ErrCartItemNotFound):
		errors.NotFound(c, errors.CartItemNotFound, "장바구니에 없는 상품입니다")
	case stderrors.Is(err, service.ErrRetryAfterSync):
		errors.RespondWithError(c, http.StatusConflict, errors.CartRetrySync,
			"장바구니를 다시 동기화했습니다. 다시 시도해주세요")
	case stderrors.Is(err, service.ErrProductRequired):
		errors.BadRequest(c, errors.CartProductRequired, "상품 정보가 필요합니다")
	case stderrors.Is(err, bakeryapi.ErrNetworkError),
		stderrors.Is(err, bakeryapi.ErrBackendError),
		stderrors.Is(err, bakeryapi.ErrUnauthorized),
		stderrors.Is(err, bakeryapi.ErrCartNotFound),
		stderrors.Is(err, bakeryapi.ErrItemNotFound),
		stderrors.Is(err, bakeryapi.ErrInvalidRequest):
		log.Error("Bakery backend call failed", err, nil)
		errors.BadGateway(c, "")
	default:
		log.Error("Cart operation failed", err, nil)
		errors.InternalError(c, "")
	}
}

// loginRedirectPath picks where the storefront should return after login:
// the page the request came from, falling back to the API path.
func loginRedirectPath(c *gin.Context) string {
	if ref := c.GetHeader("Referer"); ref != "" {
		return ref
	}
	return c.Request.URL.Path
}

func parseProductID(c *gin.Context) (uint, bool) {
	idStr := c.Param("product_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log := middleware.GetLoggerFromContext(c)
		log.Warn("Invalid product ID format", map[string]interface{}{
			"product_id": idStr,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 상품 ID입니다")
		return 0, false
	}
	return uint(id), true
}
