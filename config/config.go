package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	JWT     JWTConfig
	CORS    CORSConfig
	Redis   RedisConfig
	Backend BackendConfig
	Cart    CartConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// BackendConfig points at the upstream bakery REST backend that owns
// products, orders and the server-side cart records.
type BackendConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CartConfig controls the persisted cart snapshots.
type CartConfig struct {
	KeyPrefix string        // Redis key prefix for cart snapshots
	GuestTTL  time.Duration // how long an untouched guest cart survives
	Currency  string        // suffix appended by the checkout summary, e.g. "원"
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8081"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BAKERY_API_BASE_URL", "http://localhost:8080/api/v1"),
			APIKey:  getEnv("BAKERY_API_KEY", ""),
			Timeout: parseDuration(getEnv("BAKERY_API_TIMEOUT", "30s"), 30*time.Second),
		},
		Cart: CartConfig{
			KeyPrefix: getEnv("CART_KEY_PREFIX", "cart:session:"),
			GuestTTL:  parseDuration(getEnv("CART_GUEST_TTL", "72h"), 72*time.Hour),
			Currency:  getEnv("CART_CURRENCY_SUFFIX", "원"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
