package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignerRoundTrip(t *testing.T) {
	signer, err := NewSigner("test-secret")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := signer.Sign("user-1", "jane", "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.SessionID != "sess-1" || claims.Username != "jane" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignerRejectsExpiredAndForeignTokens(t *testing.T) {
	signer, _ := NewSigner("test-secret")
	other, _ := NewSigner("other-secret")

	issued := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }
	token, err := signer.Sign("user-1", "jane", "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}

	signer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := signer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestNewSignerRequiresSecret(t *testing.T) {
	if _, err := NewSigner("  "); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
