package token

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// #nosec G101 -- not a credential; it's an environment variable name.
	SecretEnvKey        = "DUEDASH_SECRET_KEY"
	AlgorithmEnvKey     = "DUEDASH_JWT_ALGORITHM"
	ExpireMinutesEnvKey = "DUEDASH_ACCESS_TOKEN_EXPIRE_MINUTES"
	StrongSecretEnvKey  = "DUEDASH_REQUIRE_STRONG_SECRET"

	DefaultAlgorithm = "HS256"
	DefaultTTL       = 30 * time.Minute

	// MinStrongSecretBytes is enforced only when RequireStrongSecret is set.
	MinStrongSecretBytes = 32
)

// Config is passed to NewCodec; nothing is read from the environment at call time.
type Config struct {
	Secret              []byte
	Algorithm           string
	TTL                 time.Duration
	RequireStrongSecret bool
}

// DefaultConfig returns defaults without a secret.
func DefaultConfig() Config {
	return Config{
		Algorithm: DefaultAlgorithm,
		TTL:       DefaultTTL,
	}
}

// LoadConfigFromEnv reads the token settings and validates them.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Secret = []byte(strings.TrimSpace(os.Getenv(SecretEnvKey)))

	if v := strings.TrimSpace(os.Getenv(AlgorithmEnvKey)); v != "" {
		cfg.Algorithm = strings.ToUpper(v)
	}

	if v := strings.TrimSpace(os.Getenv(ExpireMinutesEnvKey)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%w: %s must be a positive integer", ErrConfig, ExpireMinutesEnvKey)
		}
		cfg.TTL = time.Duration(n) * time.Minute
	}

	if v := strings.TrimSpace(os.Getenv(StrongSecretEnvKey)); v != "" {
		b, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s must be a boolean", ErrConfig, StrongSecretEnvKey)
		}
		cfg.RequireStrongSecret = b
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the secret, algorithm and TTL.
func (c Config) Validate() error {
	if len(c.Secret) == 0 {
		return fmt.Errorf("%w: %s is required", ErrConfig, SecretEnvKey)
	}
	if c.RequireStrongSecret && len(c.Secret) < MinStrongSecretBytes {
		return fmt.Errorf("%w: secret must be at least %d bytes", ErrConfig, MinStrongSecretBytes)
	}
	if _, ok := hmacMethods[c.Algorithm]; !ok {
		return fmt.Errorf("%w: unsupported algorithm %q", ErrConfig, c.Algorithm)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive", ErrConfig)
	}
	return nil
}
