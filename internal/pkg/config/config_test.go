package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"COOKIE_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Storage.Driver != DriverRedis {
		t.Fatalf("unexpected defaults: port=%s driver=%s", cfg.Port, cfg.Storage.Driver)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("expected 10s api timeout, got %s", cfg.API.Timeout)
	}
	if cfg.Session.CacheSize != 10000 || cfg.Session.RestoreWorkers != 8 {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"COOKIE_SECRET":  "s3cret",
		"STORAGE_DRIVER": "mongo",
		"STORAGE_TTL":    "1h",
		"REDIS_DB":       "3",
		"ENV":            "production",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Storage.Driver != DriverMongo || cfg.Storage.TTL != time.Hour || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production")
	}
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(nil)); err == nil {
		t.Fatalf("expected error without COOKIE_SECRET")
	}
}

func TestLoadFrom_UnknownDriver(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"COOKIE_SECRET":  "s3cret",
		"STORAGE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
