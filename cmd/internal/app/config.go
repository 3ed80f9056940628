package app

import (
	"time"

	"github.com/arathikrishnaam/dueDash/cmd/internal/storage"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64

	DatabaseURL   string
	DBSchema      string
	DBMaxConns    int32
	DBMinConns    int32
	DBAutoMigrate bool

	// Empty disables CORS handling; "*" allows any origin.
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	StatsEnabled  bool
	StatsSchedule string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("DUEDASH_HTTP_ADDR", "0.0.0.0:8000"),
		LogLevel:  EnvString("DUEDASH_LOG_LEVEL", "info"),
		LogFormat: EnvString("DUEDASH_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("DUEDASH_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("DUEDASH_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("DUEDASH_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("DUEDASH_HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   EnvDuration("DUEDASH_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    EnvInt("DUEDASH_HTTP_MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      EnvInt64("DUEDASH_MAX_BODY_BYTES", 1<<20),

		DatabaseURL:   EnvString("DUEDASH_DATABASE_URL", storage.DefaultURL),
		DBSchema:      EnvString("DUEDASH_DB_SCHEMA", "public"),
		DBMaxConns:    EnvInt32("DUEDASH_DB_MAX_CONNS", 10),
		DBMinConns:    EnvInt32("DUEDASH_DB_MIN_CONNS", 0),
		DBAutoMigrate: EnvBool("DUEDASH_DB_AUTO_MIGRATE", true),

		CORSAllowedOrigins:   EnvList("DUEDASH_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("DUEDASH_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("DUEDASH_CORS_MAX_AGE_SECONDS", 600),

		StatsEnabled:  EnvBool("DUEDASH_STATS_ENABLED", true),
		StatsSchedule: EnvString("DUEDASH_STATS_SCHEDULE", "@every 1m"),
	}
}

func (c Config) storageConfig() storage.Config {
	sc := storage.DefaultConfig()
	sc.URL = c.DatabaseURL
	sc.Schema = c.DBSchema
	sc.MaxConns = c.DBMaxConns
	sc.MinConns = c.DBMinConns
	return sc
}
