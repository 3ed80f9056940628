package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TypeAccess is the only token type this service issues or accepts.
const TypeAccess = "access"

var hmacMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// Claims are the verified contents of an access token.
type Claims struct {
	Subject   string
	Type      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issued is a freshly signed token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Codec signs and verifies access tokens. Safe for concurrent use.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option customizes a Codec.
type Option func(*Codec)

// WithClock overrides the wall clock used for iat/exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec validates cfg and builds a Codec.
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Codec{
		secret: append([]byte(nil), cfg.Secret...),
		method: hmacMethods[cfg.Algorithm],
		ttl:    cfg.TTL,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	return c, nil
}

// Encode issues an access token for subject with the configured TTL.
func (c *Codec) Encode(subject string) (Issued, error) {
	return c.EncodeTTL(subject, c.ttl)
}

// EncodeTTL issues an access token for subject that expires after ttl.
func (c *Codec) EncodeTTL(subject string, ttl time.Duration) (Issued, error) {
	if subject == "" {
		return Issued{}, ErrInvalidClaims
	}

	iat := c.now().UTC().Truncate(time.Second)
	exp := iat.Add(ttl)

	tok := jwt.NewWithClaims(c.method, jwt.MapClaims{
		"sub":  subject,
		"iat":  iat.Unix(),
		"exp":  exp.Unix(),
		"type": TypeAccess,
	})
	s, err := tok.SignedString(c.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: s, ExpiresAt: exp}, nil
}

// Decode verifies raw and returns its claims.
//
// Signature or structure failures map to ErrInvalidCredentials. A token past
// its exp (now >= exp) maps to ErrTokenExpired.
func (c *Codec) Decode(raw string) (Claims, error) {
	mc := jwt.MapClaims{}
	_, err := c.parser.ParseWithClaims(raw, mc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if typ, _ := mc["type"].(string); typ != TypeAccess {
		return Claims{}, ErrInvalidTokenType
	}

	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return Claims{}, ErrInvalidClaims
	}

	out := Claims{Subject: sub, Type: TypeAccess}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.UTC()
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.UTC()
	}
	return out, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidCredentials
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrInvalidClaims
	}
}
