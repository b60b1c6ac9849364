package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Cookie  CookieConfig
	API     APIConfig
	Storage StorageConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type CookieConfig struct {
	Secret string `env:"COOKIE_SECRET, required"`
	Secure bool   `env:"COOKIE_SECURE, default=false"`
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:5000/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=10s"`
}

type StorageConfig struct {
	Driver string        `env:"STORAGE_DRIVER, default=redis"`
	TTL    time.Duration `env:"STORAGE_TTL,    default=720h"`
}

type SessionConfig struct {
	CacheSize      int           `env:"SESSION_CACHE_SIZE,      default=10000"`
	RestoreWorkers int           `env:"SESSION_RESTORE_WORKERS, default=8"`
	RestoreTimeout time.Duration `env:"SESSION_RESTORE_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=jobz_web"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverRedis, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of %s, %s, %s; got %q", DriverRedis, DriverMongo, DriverMemory, c.Storage.Driver)
	}
	if c.Session.CacheSize <= 0 {
		return fmt.Errorf("SESSION_CACHE_SIZE must be positive, got %d", c.Session.CacheSize)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
