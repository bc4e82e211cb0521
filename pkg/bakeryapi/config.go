package bakeryapi

import "time"

// Config represents the configuration for the bakery backend client
type Config struct {
	// BaseURL is the backend API base URL, e.g. http://localhost:8080/api/v1
	BaseURL string

	// APIKey authenticates this gateway against the backend
	APIKey string

	// Timeout bounds each HTTP call; zero means the default of 30s
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
