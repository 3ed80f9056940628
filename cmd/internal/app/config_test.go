package app

import (
	"reflect"
	"testing"
	"time"

	"github.com/arathikrishnaam/dueDash/cmd/internal/storage"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{
		"DUEDASH_HTTP_ADDR", "DUEDASH_DATABASE_URL", "DUEDASH_DB_AUTO_MIGRATE",
		"DUEDASH_CORS_ALLOWED_ORIGINS", "DUEDASH_STATS_SCHEDULE", "DUEDASH_MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != "0.0.0.0:8000" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.DatabaseURL != storage.DefaultURL || !cfg.DBAutoMigrate || cfg.DBSchema != "public" {
		t.Fatalf("unexpected db defaults: %+v", cfg)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("CORS should be off by default: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MaxBodyBytes != 1<<20 || cfg.StatsSchedule != "@every 1m" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DUEDASH_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("DUEDASH_LOG_FORMAT", "pretty")
	t.Setenv("DUEDASH_HTTP_READ_TIMEOUT", "3s")
	t.Setenv("DUEDASH_DATABASE_URL", "postgres://u:p@db/duedash")
	t.Setenv("DUEDASH_DB_MAX_CONNS", "25")
	t.Setenv("DUEDASH_DB_AUTO_MIGRATE", "false")
	t.Setenv("DUEDASH_CORS_ALLOWED_ORIGINS", " https://a.example , ,http://localhost:* ")
	t.Setenv("DUEDASH_CORS_ALLOW_CREDENTIALS", "true")
	t.Setenv("DUEDASH_MAX_BODY_BYTES", "2048")
	t.Setenv("DUEDASH_STATS_ENABLED", "false")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "127.0.0.1:9000" || cfg.LogFormat != "pretty" || cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("unexpected http config: %+v", cfg)
	}
	if cfg.DBMaxConns != 25 || cfg.DBAutoMigrate {
		t.Fatalf("unexpected db config: %+v", cfg)
	}
	if want := []string{"https://a.example", "http://localhost:*"}; !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("origins=%v want %v", cfg.CORSAllowedOrigins, want)
	}
	if !cfg.CORSAllowCredentials || cfg.MaxBodyBytes != 2048 || cfg.StatsEnabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	sc := cfg.storageConfig()
	if sc.URL != cfg.DatabaseURL || sc.MaxConns != 25 || sc.Schema != "public" {
		t.Fatalf("unexpected storage config: %+v", sc)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DUEDASH_HTTP_READ_TIMEOUT", "soon")
	t.Setenv("DUEDASH_DB_MAX_CONNS", "-3")
	t.Setenv("DUEDASH_DB_AUTO_MIGRATE", "maybe")
	t.Setenv("DUEDASH_MAX_BODY_BYTES", "0")

	cfg := LoadConfig()
	if cfg.ReadTimeout != 15*time.Second || cfg.DBMaxConns != 10 || !cfg.DBAutoMigrate || cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("invalid values should fall back to defaults: %+v", cfg)
	}
}
