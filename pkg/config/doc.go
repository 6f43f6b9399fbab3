// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	BACKOFFICE_HOST="0.0.0.0"
//	BACKOFFICE_PORT="8080"
//	BACKOFFICE_HEALTH_PORT="9090"
//	BACKOFFICE_READ_TIMEOUT="15s"
//	BACKOFFICE_WRITE_TIMEOUT="15s"
//	BACKOFFICE_RATE_LIMIT_PER_MINUTE="300"  # 0 disables rate limiting
//
// Upstream platform settings:
//
//	BACKOFFICE_UPSTREAM_URL="http://platform:3000/api"
//	BACKOFFICE_UPSTREAM_TIMEOUT="30s"
//
// Auth session settings:
//
//	BACKOFFICE_ADMIN_ROLES="super_admin"
//	BACKOFFICE_LOGIN_PATH="/auth/login"
//	BACKOFFICE_REFRESH_SCHEDULE="@every 10m"
//
// Query cache settings:
//
//	BACKOFFICE_CACHE_FRESHNESS="5m"
//	BACKOFFICE_CACHE_RETENTION="30m"
//	BACKOFFICE_REDIRECT_COOLDOWN="1s"
//	BACKOFFICE_CACHE_MAX_ENTRIES="1024"
//
// Credential storage settings:
//
//	BACKOFFICE_SESSION_STORAGE="memory"  # memory, file, redis
//	BACKOFFICE_SESSION_FILE="/var/lib/backoffice/credentials.json"
//	BACKOFFICE_REDIS_ADDR="localhost:6379"
//
// Route table settings:
//
//	BACKOFFICE_ROUTES_FILE="/etc/backoffice/routes.yaml"
//
// Observability settings:
//
//	BACKOFFICE_LOG_LEVEL="info"  # debug, info, warn, error
//	BACKOFFICE_METRICS_ENABLED="true"
//	BACKOFFICE_OTEL_ENABLED="true"
//	BACKOFFICE_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Session storage: %s\n", cfg.Session.Type)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/session: Uses credential storage configuration
//   - pkg/query: Uses cache configuration
//   - pkg/observability: Uses observability configuration
package config
