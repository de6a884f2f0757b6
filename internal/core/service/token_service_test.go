package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/youbook/booking-api/internal/core/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue("alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	subject, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if subject != "alice@example.com" {
		t.Fatalf("unexpected subject: %s", subject)
	}
}

func TestTokenService_Verify_Idempotent(t *testing.T) {
	svc := NewTokenService("secret")
	token, _ := svc.Issue("bob@example.com", time.Hour)

	for i := 0; i < 3; i++ {
		subject, err := svc.Verify(token)
		if err != nil || subject != "bob@example.com" {
			t.Fatalf("call %d: subject=%q err=%v", i, subject, err)
		}
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue("carol@example.com", 0)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}

	token, _ = svc.Issue("carol@example.com", -time.Minute)
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for past expiry, got %v", err)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	token, _ := NewTokenService("secret-a").Issue("dave@example.com", time.Hour)

	if _, err := NewTokenService("secret-b").Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for forged signature, got %v", err)
	}
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := NewTokenService("secret")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(raw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", raw, err)
		}
	}
}

func TestTokenService_Verify_MissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := NewTokenService("secret").Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing subject, got %v", err)
	}
}

func TestTokenService_Verify_RejectsUnexpectedAlg(t *testing.T) {
	// alg=none must never pass, even with a syntactically valid claim set.
	claims := jwt.RegisteredClaims{
		Subject:   "eve@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := NewTokenService("secret").Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for alg=none, got %v", err)
	}
}
