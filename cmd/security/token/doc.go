// Package token issues and verifies dueDash access tokens.
//
// Tokens are HMAC-signed JWTs carrying the claims sub, iat, exp and
// type="access". Verification pins the configured algorithm, so alg=none
// and algorithm-confusion tokens fail signature checks.
//
// Environment:
//   - DUEDASH_SECRET_KEY: shared signing secret (required).
//   - DUEDASH_JWT_ALGORITHM: HS256 (default), HS384 or HS512.
//   - DUEDASH_ACCESS_TOKEN_EXPIRE_MINUTES: access token lifetime (default 30).
//   - DUEDASH_REQUIRE_STRONG_SECRET: when true, the secret must be at least
//     32 bytes.
package token
