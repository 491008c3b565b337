package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	CORS    CORSConfig
	Catalog CatalogConfig
	Enquiry EnquiryConfig
	Cart    CartConfig
	Toast   ToastConfig
	Session SessionConfig
	Storage StorageConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"*"`
}

// CatalogConfig points at the upstream product data source.
type CatalogConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" required:"true"`
	Timeout        time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
	SearchDebounce time.Duration `envconfig:"STOREFRONT_CATALOG_SEARCH_DEBOUNCE" default:"300ms"`
}

// EnquiryConfig points at the enquiry collector and tunes the form lifecycle.
type EnquiryConfig struct {
	CollectorURL   string        `envconfig:"STOREFRONT_ENQUIRY_COLLECTOR_URL" required:"true"`
	Timeout        time.Duration `envconfig:"STOREFRONT_ENQUIRY_TIMEOUT" default:"15s"`
	SuccessDisplay time.Duration `envconfig:"STOREFRONT_ENQUIRY_SUCCESS_DISPLAY" default:"2s"`
}

type CartConfig struct {
	StorageKey string `envconfig:"STOREFRONT_CART_STORAGE_KEY" default:"storefront_cart"`
}

type ToastConfig struct {
	DefaultDuration time.Duration `envconfig:"STOREFRONT_TOAST_DEFAULT_DURATION" default:"4s"`
}

type SessionConfig struct {
	TTL           time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_SESSION_SWEEP_INTERVAL" default:"5m"`
}

type StorageConfig struct {
	Backend    string `envconfig:"STOREFRONT_STORAGE_BACKEND" default:"sqlite"`
	SQLitePath string `envconfig:"STOREFRONT_STORAGE_SQLITE_PATH" default:"storefront.db"`
}

// Kind returns the normalized storage backend name.
func (s StorageConfig) Kind() string {
	return strings.TrimSpace(strings.ToLower(s.Backend))
}

func (s StorageConfig) validate() error {
	switch s.Kind() {
	case StorageBackendMemory, StorageBackendSQLite, StorageBackendRedis:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}
