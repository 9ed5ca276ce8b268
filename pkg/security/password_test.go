package security_test

import (
	"testing"

	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestVerifyPasswordAcceptsLegacySHA256(t *testing.T) {
	// sha256("hunter2")
	legacy := "f52fbd32b2b3b86ff88ef6c490628285f482af15ddcb29541f94bcf526a3f6c7"

	if !security.IsLegacyHash(legacy) {
		t.Fatal("expected hex digest to be detected as legacy")
	}
	ok, err := security.VerifyPassword("hunter2", legacy)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for legacy hash: %v", err)
	}
	if !ok {
		t.Fatal("legacy hash did not verify")
	}
	if ok, _ := security.VerifyPassword("hunter3", legacy); ok {
		t.Fatal("legacy hash verified the wrong password")
	}
	if security.IsLegacyHash("$argon2id$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA") {
		t.Fatal("argon2id hash detected as legacy")
	}
}

func TestNeedsRehash(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	current, err := security.HashPassword("pa55word", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if security.NeedsRehash(current, cfg) {
		t.Fatal("hash with the configured cost should not need a rehash")
	}

	stronger := cfg
	stronger.ArgonTime = 2
	if !security.NeedsRehash(current, stronger) {
		t.Fatal("hash with an outdated cost should need a rehash")
	}
	if !security.NeedsRehash("f52fbd32b2b3b86ff88ef6c490628285f482af15ddcb29541f94bcf526a3f6c7", cfg) {
		t.Fatal("legacy digests always need a rehash")
	}
}

func TestVerifyPasswordRejectsWrongVersion(t *testing.T) {
	if _, err := security.VerifyPassword("x", "$argon2id$v=16$m=8,t=1,p=1$c2FsdA$aGFzaA"); err == nil {
		t.Fatal("expected unsupported argon2 version to be rejected")
	}
}
