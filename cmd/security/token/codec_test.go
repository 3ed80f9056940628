package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCodec(t *testing.T, clock *fakeClock) *Codec {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Secret = testSecret
	c, err := NewCodec(cfg, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, clock)

	iss, err := c.Encode("alice")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Count(iss.Token, ".") != 2 {
		t.Fatalf("expected compact JWS, got %q", iss.Token)
	}
	if want := clock.t.Add(30 * time.Minute); !iss.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", iss.ExpiresAt, want)
	}

	claims, err := c.Decode(iss.Token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Subject != "alice" || claims.Type != TypeAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IssuedAt.Equal(clock.t) || !claims.ExpiresAt.Equal(iss.ExpiresAt) {
		t.Fatalf("unexpected times: %+v", claims)
	}
}

func TestDecode_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, clock)

	iss, err := c.EncodeTTL("alice", time.Minute)
	if err != nil {
		t.Fatalf("EncodeTTL: %v", err)
	}

	clock.t = clock.t.Add(59 * time.Second)
	if _, err := c.Decode(iss.Token); err != nil {
		t.Fatalf("expected valid before exp, got %v", err)
	}

	clock.t = iss.ExpiresAt
	if _, err := c.Decode(iss.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at exp, got %v", err)
	}

	clock.t = iss.ExpiresAt.Add(time.Hour)
	if _, err := c.Decode(iss.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after exp, got %v", err)
	}
}

func TestDecode_Rejections(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, &fakeClock{t: now})

	good, err := c.Encode("alice")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	parts := strings.Split(good.Token, ".")
	sig := []byte(parts[2])
	if sig[5] == 'A' {
		sig[5] = 'B'
	} else {
		sig[5] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	otherPayload := strings.Split(sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "mallory", "exp": now.Add(time.Hour).Unix(), "type": "access",
	}), ".")[1]
	swapped := parts[0] + "." + otherPayload + "." + parts[2]

	exp := now.Add(time.Hour).Unix()
	none := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{
		"sub": "alice", "exp": exp, "type": "access",
	})

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrInvalidCredentials},
		{"garbage", "not.a.jwt", ErrInvalidCredentials},
		{"tampered signature", tampered, ErrInvalidCredentials},
		{"swapped payload", swapped, ErrInvalidCredentials},
		{"alg none", none, ErrInvalidCredentials},
		{"foreign secret", sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), jwt.MapClaims{
			"sub": "alice", "exp": exp, "type": "access",
		}), ErrInvalidCredentials},
		{"other hmac alg", sign(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{
			"sub": "alice", "exp": exp, "type": "access",
		}), ErrInvalidCredentials},
		{"refresh type", sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "alice", "exp": exp, "type": "refresh",
		}), ErrInvalidTokenType},
		{"missing type", sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "alice", "exp": exp,
		}), ErrInvalidTokenType},
		{"missing sub", sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"exp": exp, "type": "access",
		}), ErrInvalidClaims},
		{"empty sub", sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "", "exp": exp, "type": "access",
		}), ErrInvalidClaims},
		{"numeric sub", sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": 42, "exp": exp, "type": "access",
		}), ErrInvalidClaims},
		{"missing exp", sign(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "alice", "type": "access",
		}), ErrInvalidClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_RejectsEverySingleCharacterChange(t *testing.T) {
	c := newTestCodec(t, &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})

	good, err := c.Encode("alice")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	accepted := 0
	for i := 0; i < len(good.Token); i++ {
		if good.Token[i] == '.' {
			continue
		}
		for j := 0; j < len(alphabet); j++ {
			if alphabet[j] == good.Token[i] {
				continue
			}
			b := []byte(good.Token)
			b[i] = alphabet[j]
			if _, err := c.Decode(string(b)); !errors.Is(err, ErrInvalidCredentials) {
				accepted++
				t.Errorf("pos %d/%d %q -> %q: got %v, want ErrInvalidCredentials",
					i, len(good.Token), good.Token[i], alphabet[j], err)
			}
		}
		if accepted > 10 {
			t.FailNow()
		}
	}
}

func TestEncode_EmptySubject(t *testing.T) {
	c := newTestCodec(t, &fakeClock{t: time.Now()})
	if _, err := c.Encode(""); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims, got %v", err)
	}
}

func TestCodec_Algorithms(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Secret = testSecret
			cfg.Algorithm = alg
			c, err := NewCodec(cfg)
			if err != nil {
				t.Fatalf("NewCodec: %v", err)
			}
			iss, err := c.Encode("bob")
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			claims, err := c.Decode(iss.Token)
			if err != nil || claims.Subject != "bob" {
				t.Fatalf("Decode: %+v %v", claims, err)
			}
		})
	}
}
