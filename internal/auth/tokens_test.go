package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Oxyrus/photowall/internal/auth"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)

	raw, err := tokens.Issue(42, true)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if raw == "" {
		t.Fatalf("expected a signed token")
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !claims.Admin {
		t.Fatalf("expected admin claim to survive the round trip")
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", claims.Subject)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokens("secret-a", time.Hour)
	verifier := auth.NewTokens("secret-b", time.Hour)

	raw, err := issuer.Issue(1, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Verify(raw); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := auth.NewTokens("test-secret", -time.Minute)

	raw, err := tokens.Issue(1, true)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := tokens.Verify(raw); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := tokens.Verify(raw); !errors.Is(err, auth.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}
