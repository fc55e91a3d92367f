// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Storage StorageConfig
	Cache   CacheConfig
	Import  ImportConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// PublicURL is the origin the app is reachable at. Same-origin
	// transfers (the CSV PUT) are issued against this base so they flow
	// through the storage proxy. (default: http://localhost:8080)
	PublicURL string `env:"SERVER_PUBLIC_URL" default:"http://localhost:8080"`

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

	// RateLimitPerMinute is the per-IP request budget (default: 100, 0 disables)
	RateLimitPerMinute int `env:"SERVER_RATE_LIMIT_PER_MINUTE" default:"100"`
}

// APIConfig holds settings for the external persons REST backend.
type APIConfig struct {
	// BaseURL is the backend origin (required)
	// Supports both API_BASE_URL and PERSONS_API_URL env vars
	BaseURL string `env:"API_BASE_URL" envAlt:"PERSONS_API_URL" required:"true"`

	// PathPrefix is prepended to backend paths, e.g. "/api" (default: "")
	PathPrefix string `env:"API_PATH_PREFIX"`

	// ProxyPrefix is the local path under which backend calls are proxied
	// same-origin (default: /api)
	ProxyPrefix string `env:"API_PROXY_PREFIX" default:"/api"`

	// Timeout is the per-request timeout for backend calls (default: 30s)
	Timeout time.Duration `env:"API_TIMEOUT" default:"30s"`
}

// StorageConfig holds settings for the object storage the CSV transfer
// targets. Upload links issued by the backend are absolute URLs into this
// storage; the import pipeline strips BaseURL from them and routes the PUT
// through the same-origin proxy mounted at ProxyPrefix.
type StorageConfig struct {
	// BaseURL is the storage origin upload links point into (required)
	BaseURL string `env:"STORAGE_BASE_URL" required:"true"`

	// PathPrefix is prepended to storage paths when proxying upstream (default: "")
	PathPrefix string `env:"STORAGE_PATH_PREFIX"`

	// ProxyPrefix is the local path under which storage requests are
	// proxied same-origin (default: /objs)
	ProxyPrefix string `env:"STORAGE_PROXY_PREFIX" default:"/objs"`
}

// CacheConfig holds record query cache settings.
type CacheConfig struct {
	// Enabled controls whether the redis-backed listing cache is used (default: true)
	Enabled bool `env:"CACHE_ENABLED" default:"true"`

	// RedisAddr is the redis host:port (default: localhost:6379)
	RedisAddr string `env:"CACHE_REDIS_ADDR" default:"localhost:6379"`

	// RedisDB is the redis database index (default: 0)
	RedisDB int `env:"CACHE_REDIS_DB" default:"0"`

	// TTL is how long a cached listing lives without invalidation (default: 10m)
	TTL time.Duration `env:"CACHE_TTL" default:"10m"`
}

// ImportConfig holds CSV import pipeline settings.
type ImportConfig struct {
	// MaxFileSize is the maximum accepted CSV size in bytes (default: 10 KiB,
	// the ceiling the product shipped with; raise via env if the intended
	// limit is larger)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"10240"`

	// Timeout is the maximum duration for a whole import attempt (default: 2m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"2m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text, json or pretty (default: text)
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
