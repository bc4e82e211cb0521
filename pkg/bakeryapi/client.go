package bakeryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the bakery backend's cart endpoints. It is a thin binding:
// all cart business rules live server-side, the client only moves summaries.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new bakery backend client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// FetchCart returns the server-side cart summary for a user
func (c *Client) FetchCart(ctx context.Context, userID uint) (*CartSummary, error) {
	path := fmt.Sprintf("carts/%d", userID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return unmarshalSummary(resp)
}

// AddCartItem adds a product line to the user's server-side cart
func (c *Client) AddCartItem(ctx context.Context, req AddItemRequest) (*CartSummary, error) {
	path := fmt.Sprintf("carts/%d/items", req.UserID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	return unmarshalSummary(resp)
}

// UpdateCartItem changes the quantity of an existing cart item
func (c *Client) UpdateCartItem(ctx context.Context, req UpdateItemRequest) (*CartSummary, error) {
	path := fmt.Sprintf("carts/%d/items/%d", req.UserID, req.ItemID)
	resp, err := c.doRequest(ctx, http.MethodPut, path, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return unmarshalSummary(resp)
}

// RemoveCartItem deletes a cart item from the user's server-side cart
func (c *Client) RemoveCartItem(ctx context.Context, req RemoveItemRequest) (*CartSummary, error) {
	path := fmt.Sprintf("carts/%d/items/%d", req.UserID, req.ItemID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return unmarshalSummary(resp)
}

// ClearCart removes every item from the user's server-side cart
func (c *Client) ClearCart(ctx context.Context, userID uint) (*CartSummary, error) {
	path := fmt.Sprintf("carts/%d", userID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	return unmarshalSummary(resp)
}

func unmarshalSummary(body []byte) (*CartSummary, error) {
	var summary CartSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart summary: %w", err)
	}
	return &summary, nil
}

// doRequest performs an HTTP request against the backend API
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		}

		errorMsg := fmt.Sprintf("status: %d, code: %s, message: %s", resp.StatusCode, errResp.Error, errResp.Message)

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusNotFound:
			if errResp.Error == "CART_ITEM_NOT_FOUND" {
				return nil, fmt.Errorf("%w: %s", ErrItemNotFound, errorMsg)
			}
			return nil, fmt.Errorf("%w: %s", ErrCartNotFound, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrBackendError, errorMsg)
		}
	}

	return body, nil
}
