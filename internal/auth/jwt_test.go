package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Type != TokenTypeAccess {
		t.Errorf("type = %q, want %q", claims.Type, TokenTypeAccess)
	}
}

func TestGenerateAccessToken_EmptyUserID(t *testing.T) {
	svc := NewJWTService("test-secret")
	if _, err := svc.GenerateAccessToken(""); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("expected ErrEmptyUserID, got %v", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateAccessToken("user-2")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	userID, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if userID != "user-2" {
		t.Errorf("userID = %q, want user-2", userID)
	}
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	refresh, err := svc.GenerateRefreshToken("user-2")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := svc.ValidateAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for a refresh token, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := NewJWTService("secret-b").ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret")
	svc.leeway = 0

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-30 * time.Minute)),
		},
		Type: TokenTypeAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret")
	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestValidateToken_RejectsUnexpectedAlgorithm(t *testing.T) {
	// An unsigned token must never validate, regardless of claims.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Type: TokenTypeAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	svc := NewJWTService("test-secret")
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestDualKeyRotation(t *testing.T) {
	oldSvc := NewJWTService("old-secret")
	token, err := oldSvc.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	rotated := NewJWTServiceWithRotation("new-secret", "old-secret")
	claims, err := rotated.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected the previous secret to still validate, got %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}

	// New tokens sign with the current secret.
	newToken, err := rotated.GenerateAccessToken("user-2")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if _, err := NewJWTService("new-secret").ValidateToken(newToken); err != nil {
		t.Errorf("expected the current secret to validate new tokens, got %v", err)
	}
}
