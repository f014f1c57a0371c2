package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.GenerateToken("account-42")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if remaining := time.Until(expiresAt); remaining < 29*time.Minute || remaining > 31*time.Minute {
		t.Errorf("unexpected expiry %v from now", remaining)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != "account-42" {
		t.Errorf("expected account-42, got %q", claims.AccountID)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenManager("issuer-secret", 30)
	verifier := NewTokenManager("other-secret", 30)

	token, _, err := issuer.GenerateToken("account-42")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	if _, err := tm.ParseToken("not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestTokenTTLDefault(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	if tm.ttl != time.Hour {
		t.Errorf("expected 60 minute default, got %v", tm.ttl)
	}
}
