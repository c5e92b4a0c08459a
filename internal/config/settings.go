package config

import "time"

// Set at build time through -ldflags.
var (
	ServiceVersion string
	CommitSHA      string
)

const (
	StorageBackendMemory   = "memory"
	StorageBackendPostgres = "postgres"

	IdempotencyBackendMemory = "memory"
	IdempotencyBackendKeydb  = "keydb"
)

type (
	ServiceConfig struct {
		App         App         `json:"app"`
		HTTPServer  HTTPServer  `json:"http_server"`
		Storage     Storage     `json:"storage"`
		Database    Database    `json:"database"`
		Cache       Cache       `json:"cache"`
		Idempotency Idempotency `json:"idempotency"`
		RateLimit   RateLimit   `json:"rate_limit"`
		Logging     Logging     `json:"logging"`
		Telemetry   Telemetry   `json:"telemetry"`
	}

	App struct {
		ServiceName    string `envconfig:"APP_SERVICE_NAME" default:"devices-api" json:"service_name"`
		APIVersion     string `envconfig:"APP_API_VERSION" default:"v1" json:"api_version"`
		Environment    string `envconfig:"APP_ENVIRONMENT" default:"development" json:"environment"`
		ServiceVersion string `ignored:"true" json:"service_version"`
		CommitSHA      string `ignored:"true" json:"commit_sha,omitempty"`
	}

	HTTPServer struct {
		Host            string        `envconfig:"HTTP_SERVER_HOST" default:"0.0.0.0" json:"host"`
		Port            uint          `envconfig:"HTTP_SERVER_PORT" default:"8080" json:"port"`
		ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s" json:"read_timeout"`
		WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s" json:"write_timeout"`
		IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s" json:"idle_timeout"`
		ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s" json:"shutdown_timeout"`
	}

	Storage struct {
		DevicesBackend     string `envconfig:"STORAGE_DEVICES_BACKEND" default:"memory" json:"devices_backend"`
		IdempotencyBackend string `envconfig:"STORAGE_IDEMPOTENCY_BACKEND" default:"memory" json:"idempotency_backend"`
	}

	Database struct {
		Host            string        `envconfig:"POSTGRES_HOST" default:"postgres" json:"host"`
		Port            uint          `envconfig:"POSTGRES_PORT" default:"5432" json:"port"`
		Database        string        `envconfig:"POSTGRES_DATABASE" default:"devices" json:"database"`
		Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres" json:"username"`
		Password        string        `envconfig:"POSTGRES_PASSWORD" default:"" json:"password,omitempty"`
		SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable" json:"ssl_mode"`
		MaxConnections  int           `envconfig:"POSTGRES_MAX_CONNECTIONS" default:"25" json:"max_connections"`
		MinConnections  int           `envconfig:"POSTGRES_MIN_CONNECTIONS" default:"5" json:"min_connections"`
		ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		MaxConnLifetime time.Duration `envconfig:"POSTGRES_MAX_CONN_LIFETIME" default:"1h" json:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `envconfig:"POSTGRES_MAX_CONN_IDLE_TIME" default:"30m" json:"max_conn_idle_time"`
	}

	Cache struct {
		Address      string        `envconfig:"CACHE_ADDRESS" default:"keydb:6379" json:"address"`
		Password     string        `envconfig:"CACHE_PASSWORD" default:"" json:"password,omitempty"`
		DB           uint          `envconfig:"CACHE_DB" default:"0" json:"db"`
		PoolSize     uint          `envconfig:"CACHE_POOL_SIZE" default:"10" json:"pool_size"`
		DialTimeout  time.Duration `envconfig:"CACHE_DIAL_TIMEOUT" default:"5s" json:"dial_timeout"`
		ReadTimeout  time.Duration `envconfig:"CACHE_READ_TIMEOUT" default:"3s" json:"read_timeout"`
		WriteTimeout time.Duration `envconfig:"CACHE_WRITE_TIMEOUT" default:"3s" json:"write_timeout"`
	}

	Idempotency struct {
		KeyTTL           time.Duration `envconfig:"IDEMPOTENCY_KEY_TTL" default:"24h" json:"key_ttl"`
		PurgeInterval    time.Duration `envconfig:"IDEMPOTENCY_PURGE_INTERVAL" default:"1h" json:"purge_interval"`
		BreakerEnabled   bool          `envconfig:"IDEMPOTENCY_BREAKER_ENABLED" default:"true" json:"breaker_enabled"`
		BreakerThreshold uint          `envconfig:"IDEMPOTENCY_BREAKER_THRESHOLD" default:"5" json:"breaker_threshold"`
		BreakerTimeout   time.Duration `envconfig:"IDEMPOTENCY_BREAKER_TIMEOUT" default:"30s" json:"breaker_timeout"`
	}

	RateLimit struct {
		Enabled           bool     `envconfig:"RATE_LIMITING_ENABLED" default:"true" json:"enabled"`
		RequestsPerSecond uint     `envconfig:"RATE_LIMITING_REQUESTS_PER_SECOND" default:"50" json:"requests_per_second"`
		BurstSize         uint     `envconfig:"RATE_LIMITING_BURST_SIZE" default:"100" json:"burst_size"`
		MaxKeys           uint     `envconfig:"RATE_LIMITING_MAX_KEYS" default:"1000" json:"max_keys"`
		SkipPaths         []string `envconfig:"RATE_LIMITING_SKIP_PATHS" default:"/v1/health,/v1/health/live,/v1/health/ready" json:"skip_paths"`
	}

	Logging struct {
		Level            string `envconfig:"LOG_LEVEL" default:"info" json:"level"`
		Format           string `envconfig:"LOG_FORMAT" default:"json" json:"format"`
		AccessLogEnabled bool   `envconfig:"ACCESS_LOG_ENABLED" default:"true" json:"access_log_enabled"`
	}

	Telemetry struct {
		Enabled      bool   `envconfig:"OTEL_ENABLED" default:"false" json:"enabled"`
		OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"" json:"otlp_endpoint"`
		ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"devices-api" json:"service_name"`
	}
)

func (c *ServiceConfig) IsProduction() bool {
	switch c.App.Environment {
	case "production", "prod":
		return true
	default:
		return false
	}
}
