package password

import (
	"os"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"DUEDASH_PASSWORD_SCHEME",
		"DUEDASH_PASSWORD_MIN_LEN",
		"DUEDASH_PASSWORD_MAX_LEN",
		"DUEDASH_PASSWORD_REJECT_VERY_WEAK",
		"DUEDASH_BCRYPT_COST",
		"DUEDASH_ARGON2_MEMORY_KIB",
		"DUEDASH_ARGON2_ITERATIONS",
		"DUEDASH_ARGON2_PARALLELISM",
		"DUEDASH_ARGON2_SALT_LEN",
		"DUEDASH_ARGON2_KEY_LEN",
	} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Scheme != SchemeArgon2id {
		t.Fatalf("scheme mismatch: %q", cfg.Scheme)
	}
	if cfg.Policy.MinLength != def.Policy.MinLength {
		t.Fatalf("min length mismatch")
	}
	if cfg.Params.MemoryKiB != def.Params.MemoryKiB {
		t.Fatalf("memory mismatch")
	}
}

func TestFromEnv_Override(t *testing.T) {
	t.Setenv("DUEDASH_PASSWORD_SCHEME", "BCRYPT")
	t.Setenv("DUEDASH_PASSWORD_MIN_LEN", "10")
	t.Setenv("DUEDASH_PASSWORD_MAX_LEN", "200")
	t.Setenv("DUEDASH_PASSWORD_REJECT_VERY_WEAK", "true")
	t.Setenv("DUEDASH_BCRYPT_COST", "11")
	t.Setenv("DUEDASH_ARGON2_MEMORY_KIB", "32768")
	t.Setenv("DUEDASH_ARGON2_ITERATIONS", "4")
	t.Setenv("DUEDASH_ARGON2_PARALLELISM", "2")
	t.Setenv("DUEDASH_ARGON2_SALT_LEN", "24")
	t.Setenv("DUEDASH_ARGON2_KEY_LEN", "32")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	if cfg.Scheme != SchemeBcrypt || cfg.BcryptCost != 11 {
		t.Fatalf("scheme override failed: %q cost=%d", cfg.Scheme, cfg.BcryptCost)
	}
	if cfg.Policy.MinLength != 10 || cfg.Policy.MaxLength != 200 || !cfg.Policy.RejectVeryWeak {
		t.Fatalf("policy override failed: %+v", cfg.Policy)
	}
	if cfg.Params.MemoryKiB != 32768 || cfg.Params.Iterations != 4 || cfg.Params.Parallelism != 2 {
		t.Fatalf("argon2 override failed: %+v", cfg.Params)
	}
	if cfg.Params.SaltLength != 24 || cfg.Params.KeyLength != 32 {
		t.Fatalf("len override failed: %+v", cfg.Params)
	}
}

func TestFromEnv_InvalidMinMax(t *testing.T) {
	t.Setenv("DUEDASH_PASSWORD_MIN_LEN", "20")
	t.Setenv("DUEDASH_PASSWORD_MAX_LEN", "10")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFromEnv_InvalidScheme(t *testing.T) {
	t.Setenv("DUEDASH_PASSWORD_SCHEME", "md5")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error")
	}
}
