package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/query"
	"github.com/platinummonkey/backoffice/pkg/session"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Upstream platform API configuration
	Upstream UpstreamConfig

	// Auth session configuration
	Auth AuthConfig

	// Query cache configuration
	Cache CacheConfig

	// Credential storage configuration
	Session SessionConfig

	// Route table configuration
	Routes RoutesConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// RateLimitPerMinute caps requests per client IP; 0 disables limiting
	RateLimitPerMinute int
}

// UpstreamConfig holds platform API client settings
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds session manager settings
type AuthConfig struct {
	// AdminRoles are role names granting super-admin standing
	AdminRoles []string

	// LoginPath is the guest route redirected to on auth failure
	LoginPath string

	// RefreshSchedule is the cron spec for background token refresh;
	// empty disables the scheduler
	RefreshSchedule string
}

// CacheConfig holds query cache settings
type CacheConfig struct {
	Freshness        time.Duration
	Retention        time.Duration
	RedirectCooldown time.Duration
	MaxEntries       int
}

// SessionConfig holds credential storage settings
type SessionConfig struct {
	// Type selects the storage backend: memory, file, or redis
	Type string

	// FilePath is the credential file location for file storage
	FilePath string

	// Redis connection for redis storage
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RoutesConfig holds route table settings
type RoutesConfig struct {
	// Path is the YAML route table file; empty uses the built-in table
	Path string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Upstream:      loadUpstreamConfig(),
		Auth:          loadAuthConfig(),
		Cache:         loadCacheConfig(),
		Session:       loadSessionConfig(),
		Routes:        loadRoutesConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("BACKOFFICE_HOST", "0.0.0.0"),
		Port:            getEnv("BACKOFFICE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("BACKOFFICE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("BACKOFFICE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("BACKOFFICE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("BACKOFFICE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("BACKOFFICE_HEALTH_PORT", "9090"),

		RateLimitPerMinute: getEnvInt("BACKOFFICE_RATE_LIMIT_PER_MINUTE", 300),
	}
}

// loadUpstreamConfig loads platform API client configuration from environment
func loadUpstreamConfig() UpstreamConfig {
	return UpstreamConfig{
		BaseURL: getEnv("BACKOFFICE_UPSTREAM_URL", "http://localhost:3000/api"),
		Timeout: getEnvDuration("BACKOFFICE_UPSTREAM_TIMEOUT", 30*time.Second),
	}
}

// loadAuthConfig loads session manager configuration from environment
func loadAuthConfig() AuthConfig {
	cfg := AuthConfig{
		LoginPath:       getEnv("BACKOFFICE_LOGIN_PATH", "/auth/login"),
		RefreshSchedule: getEnv("BACKOFFICE_REFRESH_SCHEDULE", "@every 10m"),
	}
	if roles := getEnv("BACKOFFICE_ADMIN_ROLES", ""); roles != "" {
		for _, role := range strings.Split(roles, ",") {
			if role = strings.TrimSpace(role); role != "" {
				cfg.AdminRoles = append(cfg.AdminRoles, role)
			}
		}
	}
	return cfg
}

// loadCacheConfig loads query cache configuration from environment
func loadCacheConfig() CacheConfig {
	defaults := query.DefaultConfig()
	return CacheConfig{
		Freshness:        getEnvDuration("BACKOFFICE_CACHE_FRESHNESS", defaults.Freshness),
		Retention:        getEnvDuration("BACKOFFICE_CACHE_RETENTION", defaults.Retention),
		RedirectCooldown: getEnvDuration("BACKOFFICE_REDIRECT_COOLDOWN", defaults.RedirectCooldown),
		MaxEntries:       getEnvInt("BACKOFFICE_CACHE_MAX_ENTRIES", defaults.MaxEntries),
	}
}

// loadSessionConfig loads credential storage configuration from environment
func loadSessionConfig() SessionConfig {
	return SessionConfig{
		Type:          getEnv("BACKOFFICE_SESSION_STORAGE", "memory"),
		FilePath:      getEnv("BACKOFFICE_SESSION_FILE", ""),
		RedisAddr:     getEnv("BACKOFFICE_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("BACKOFFICE_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("BACKOFFICE_REDIS_DB", 0),
	}
}

// loadRoutesConfig loads route table configuration from environment
func loadRoutesConfig() RoutesConfig {
	return RoutesConfig{
		Path: getEnv("BACKOFFICE_ROUTES_FILE", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	cfg := ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("BACKOFFICE_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("BACKOFFICE_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("BACKOFFICE_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("BACKOFFICE_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("BACKOFFICE_OTEL_SERVICE_NAME", "backoffice-gateway"),
		OTelServiceVersion: getEnv("BACKOFFICE_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("BACKOFFICE_OTEL_INSECURE", true),
	}

	return cfg
}

// RedisConfig converts the session settings into a storage client config
func (c SessionConfig) RedisConfig() session.RedisConfig {
	return session.RedisConfig{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// QueryConfig converts the cache settings into a query client config
func (c CacheConfig) QueryConfig() query.Config {
	cfg := query.DefaultConfig()
	cfg.Freshness = c.Freshness
	cfg.Retention = c.Retention
	cfg.RedirectCooldown = c.RedirectCooldown
	cfg.MaxEntries = c.MaxEntries
	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	// Validate upstream config
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL is required")
	}

	// Validate auth config
	if c.Auth.LoginPath == "" || !strings.HasPrefix(c.Auth.LoginPath, "/") {
		return fmt.Errorf("login path must start with /")
	}

	// Validate cache config
	if c.Cache.Freshness <= 0 {
		return fmt.Errorf("cache freshness must be positive")
	}
	if c.Cache.Retention < c.Cache.Freshness {
		return fmt.Errorf("cache retention must be at least the freshness window")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}

	// Validate session storage config based on type
	switch c.Session.Type {
	case "memory":
	case "file":
		if c.Session.FilePath == "" {
			return fmt.Errorf("session file path is required for file storage")
		}
	case "redis":
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis storage")
		}
	default:
		return fmt.Errorf("invalid session storage type: %s (must be memory, file, or redis)", c.Session.Type)
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
