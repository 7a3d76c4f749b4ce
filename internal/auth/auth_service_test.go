package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, accessTTL time.Duration) *AuthService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewAuthServiceFromKeys(key, &key.PublicKey, accessTTL, time.Hour)
}

func TestTokenPairRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Minute)

	pair, err := svc.GenerateTokenPair(42, true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	access, err := svc.ValidateToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if access.UserID != 42 || access.TokenType != TokenTypeAccess || !access.MustChangePassword {
		t.Fatalf("unexpected access claims %+v", access)
	}

	refresh, err := svc.ValidateToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if refresh.TokenType != TokenTypeRefresh || refresh.ID == "" {
		t.Fatalf("unexpected refresh claims %+v", refresh)
	}
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc := newTestService(t, -time.Minute)
	pair, err := svc.GenerateTokenPair(1, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	other := newTestService(t, time.Minute)
	foreign, err := other.GenerateTokenPair(1, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(foreign.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
	if _, err := svc.ValidateToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestNewAuthServiceParsesPEM(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	if _, err := NewAuthService(privPEM, pubPEM, time.Minute, time.Hour); err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	if _, err := NewAuthService(nil, pubPEM, time.Minute, time.Hour); err == nil {
		t.Fatal("expected error without private key")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("correct horse", hash) {
		t.Fatal("expected match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected mismatch")
	}
}
