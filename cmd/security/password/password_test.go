package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// fastConfig keeps Argon2id cheap enough for unit tests.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestHashAndVerify_OK(t *testing.T) {
	cfg := fastConfig()

	h, err := cfg.Hash("this is a strong password 123!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(h, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding: %q", h)
	}

	ok, err := cfg.Verify(h, "this is a strong password 123!")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestHash_NeverEqualsPlaintextAndIsSalted(t *testing.T) {
	cfg := fastConfig()

	for _, scheme := range []Scheme{SchemeArgon2id, SchemeBcrypt} {
		cfg.Scheme = scheme

		a, err := cfg.Hash("pw123")
		if err != nil {
			t.Fatalf("%s: Hash error: %v", scheme, err)
		}
		b, err := cfg.Hash("pw123")
		if err != nil {
			t.Fatalf("%s: Hash error: %v", scheme, err)
		}
		if a == "pw123" || b == "pw123" {
			t.Fatalf("%s: hash must not equal plaintext", scheme)
		}
		if a == b {
			t.Fatalf("%s: expected different digests for the same input", scheme)
		}
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	cfg := fastConfig()

	h, err := cfg.Hash("this is a strong password 123!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(h, "wrong password")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerify_Bcrypt(t *testing.T) {
	cfg := fastConfig()
	cfg.Scheme = SchemeBcrypt

	h, err := cfg.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(h, "$2a$") {
		t.Fatalf("unexpected bcrypt encoding: %q", h)
	}

	// An Argon2id-configured verifier still accepts bcrypt digests.
	argon := fastConfig()
	if ok, err := argon.Verify(h, "pw123"); err != nil || !ok {
		t.Fatalf("expected bcrypt match, ok=%v err=%v", ok, err)
	}
	if ok, err := argon.Verify(h, "pw124"); err != nil || ok {
		t.Fatalf("expected bcrypt mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerify_LegacyBcryptDigest(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}

	ok, err := fastConfig().Verify(string(legacy), "hunter2")
	if err != nil || !ok {
		t.Fatalf("expected legacy digest to verify, ok=%v err=%v", ok, err)
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	cfg := fastConfig()

	for _, h := range []string{
		"not-a-hash",
		"",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$a2V5",
		"$argon2id$v=19$m=oops$c2FsdA$a2V5",
		"$2a$04$short",
	} {
		ok, err := cfg.Verify(h, "whatever")
		if err != ErrInvalidHash {
			t.Fatalf("Verify(%q): expected ErrInvalidHash, got %v", h, err)
		}
		if ok {
			t.Fatalf("Verify(%q): expected false", h)
		}
	}
}

func TestVerify_RejectsOversizedParams(t *testing.T) {
	cfg := fastConfig()

	big := cfg
	big.Params.MemoryKiB = cfg.Params.MemoryKiB * 4
	h, err := big.Hash("some password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(h, "some password")
	if err != ErrInvalidHash || ok {
		t.Fatalf("expected oversized params to be refused, ok=%v err=%v", ok, err)
	}
}

func TestValidate_MinMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.MinLength = 12
	cfg.Policy.MaxLength = 16

	if err := cfg.Validate("short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	if err := cfg.Validate("this password is definitely too long"); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}

	if err := cfg.Validate("goodpassw0rd!"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestValidate_DefaultsAcceptShortPasswords(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate("pw123"); err != nil {
		t.Fatalf("expected default policy to accept pw123, got %v", err)
	}
	if err := cfg.Validate(""); err != ErrPasswordTooShort {
		t.Fatalf("expected empty password to be rejected, got %v", err)
	}
	if err := cfg.Validate("   "); err != ErrPasswordTooShort {
		t.Fatalf("expected blank password to be rejected, got %v", err)
	}
}

func TestValidate_BcryptByteCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scheme = SchemeBcrypt

	if err := cfg.Validate(strings.Repeat("a", 73)); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := cfg.Validate(strings.Repeat("ab", 36)); err != nil {
		t.Fatalf("expected 72 bytes to pass, got %v", err)
	}
}

func TestPolicy_RejectVeryWeak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.RejectVeryWeak = true
	cfg.Policy.MinLength = 8

	if err := cfg.Validate("password"); err != ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := cfg.Validate("11111111"); err != ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := cfg.Validate("a-very-ok-pass"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestDummy_SkipsPolicyAndUsesScheme(t *testing.T) {
	cfg := fastConfig()
	cfg.Policy.MinLength = 100
	cfg.Policy.MaxLength = 100

	h, err := cfg.Dummy()
	if err != nil {
		t.Fatalf("Dummy error: %v", err)
	}
	if !strings.HasPrefix(h, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding: %q", h)
	}

	cfg.Scheme = SchemeBcrypt
	h, err = cfg.Dummy()
	if err != nil {
		t.Fatalf("Dummy bcrypt error: %v", err)
	}
	if !strings.HasPrefix(h, "$2a$") {
		t.Fatalf("unexpected bcrypt encoding: %q", h)
	}

	cfg.Scheme = "scrypt"
	if _, err := cfg.Dummy(); err != ErrUnknownScheme {
		t.Fatalf("expected ErrUnknownScheme, got %v", err)
	}
}
