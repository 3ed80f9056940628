package app

import (
	"fmt"

	"github.com/arathikrishnaam/dueDash/cmd/security/password"
	"github.com/arathikrishnaam/dueDash/cmd/security/token"
)

// securityConfig is the credential configuration read at startup.
type securityConfig struct {
	token    token.Config
	password password.Config
}

// loadSecurityConfig fails fast on a missing or invalid secret, algorithm or
// hashing parameter. A short secret is allowed unless
// DUEDASH_REQUIRE_STRONG_SECRET is set, but is always logged.
func loadSecurityConfig(log Logger) (securityConfig, error) {
	tcfg, err := token.LoadConfigFromEnv()
	if err != nil {
		return securityConfig{}, fmt.Errorf("security policy: %w", err)
	}
	pcfg, err := password.FromEnv()
	if err != nil {
		return securityConfig{}, fmt.Errorf("security policy: %w", err)
	}

	if len(tcfg.Secret) < token.MinStrongSecretBytes {
		log.Warn("security.secret.weak",
			"bytes", len(tcfg.Secret),
			"recommended_min", token.MinStrongSecretBytes,
		)
	}
	log.Info("security.config",
		"jwt_algorithm", tcfg.Algorithm,
		"token_ttl", tcfg.TTL.String(),
		"password_scheme", string(pcfg.Scheme),
	)
	return securityConfig{token: tcfg, password: pcfg}, nil
}
