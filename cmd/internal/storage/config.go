package storage

import (
	"fmt"
	"strings"
	"time"
)

// Driver names a supported backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DefaultURL is used when no DATABASE_URL is configured.
const DefaultURL = "sqlite:duedash.db"

// Config describes how to reach the database.
type Config struct {
	URL string

	// Schema applies to PostgreSQL only.
	Schema string

	MaxConns int32
	MinConns int32

	ConnectTimeout time.Duration
}

// DefaultConfig returns local defaults (a SQLite file in the working dir).
func DefaultConfig() Config {
	return Config{
		URL:            DefaultURL,
		Schema:         "public",
		MaxConns:       10,
		MinConns:       0,
		ConnectTimeout: 3 * time.Second,
	}
}

// ParseURL picks the driver for raw and returns the DSN that driver expects.
func ParseURL(raw string) (Driver, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultURL
	}
	lower := strings.ToLower(raw)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(lower, "sqlite:"):
		path := raw[len("sqlite:"):]
		switch {
		case strings.HasPrefix(path, "///"):
			path = path[3:]
		case strings.HasPrefix(path, "//"):
			path = path[2:]
		}
		if strings.TrimSpace(path) == "" {
			return "", "", fmt.Errorf("storage: empty sqlite path in %q", raw)
		}
		return DriverSQLite, path, nil
	case strings.HasPrefix(lower, "file:"), strings.HasPrefix(lower, ":memory:"):
		return DriverSQLite, raw, nil
	}

	path := strings.SplitN(lower, "?", 2)[0]
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(path, ext) {
			return DriverSQLite, raw, nil
		}
	}
	return "", "", fmt.Errorf("storage: unsupported database url %q", redact(raw))
}

// redact drops credentials from a URL-ish string before it reaches an error.
func redact(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	return raw[:scheme+3] + "***" + raw[at:]
}
