// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Cart store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Shop     ShopConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// CatalogConfig holds remote catalog settings.
type CatalogConfig struct {
	// CSVURL is the published sheet export. Empty serves the bundled catalog only.
	CSVURL string `env:"CATALOG_CSV_URL"`

	// RefreshInterval is the time between background refreshes (default: 120s)
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" default:"120s"`

	// FetchTimeout bounds a single download (default: 30s)
	FetchTimeout time.Duration `env:"CATALOG_FETCH_TIMEOUT" default:"30s"`

	// MaxBytes caps the downloaded body (default: 10MB)
	MaxBytes int64 `env:"CATALOG_MAX_BYTES" default:"10485760"`

	// MaxConcurrent is the number of refreshes allowed at once (default: 2)
	MaxConcurrent int `env:"CATALOG_REFRESH_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long a refresh waits for a slot (default: 10s)
	MaxWaitTime time.Duration `env:"CATALOG_REFRESH_MAX_WAIT" default:"10s"`

	// UserAgent is sent with catalog downloads
	UserAgent string `env:"CATALOG_USER_AGENT" default:"dispenser-catalog/1.0"`
}

// CartConfig holds cart persistence settings.
type CartConfig struct {
	// Store selects the backend: file, postgres or redis (default: file)
	Store string `env:"CART_STORE" default:"file"`

	// Dir is the directory used by the file store (default: data/carts)
	Dir string `env:"CART_DIR" default:"data/carts"`

	// TTL is how long an untouched cart is kept (default: 720h)
	TTL time.Duration `env:"CART_TTL" default:"720h"`

	// SweepInterval is how often expired carts are removed (default: 1h)
	SweepInterval time.Duration `env:"CART_SWEEP_INTERVAL" default:"1h"`

	// CookieSecure marks the session cookie Secure (default: false)
	CookieSecure bool `env:"CART_COOKIE_SECURE" default:"false"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string, required when CART_STORE=postgres
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// AutoMigrate applies pending migrations on startup (default: true)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	// Addr is host:port of the Redis server (default: localhost:6379)
	Addr string `env:"REDIS_ADDR" default:"localhost:6379"`

	Username string `env:"REDIS_USER"`
	Password string `env:"REDIS_PASSWORD"`

	// DB is the logical database number (default: 0)
	DB int `env:"REDIS_DB" default:"0"`
}

// ShopConfig holds storefront settings.
type ShopConfig struct {
	// WhatsAppPhone receives orders, digits only (default: 5491166082608)
	WhatsAppPhone string `env:"WHATSAPP_PHONE" default:"5491166082608"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// Burst is the number of requests allowed above the steady rate (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20"`

	// CartLimit is requests per minute for cart and checkout writes (default: 60)
	CartLimit int `env:"RATE_LIMIT_CART" default:"60"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects admin endpoints such as manual refresh (default: true)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"true"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
