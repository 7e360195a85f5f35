package auth

import (
	"testing"
	"time"

	"autodialer/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:      "secret",
		JWTIssuer:      "autodialer",
		AccessTokenTTL: 15 * time.Minute,
		OperatorKey:    "op-key",
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestLoginAndVerify(t *testing.T) {
	m := testManager(t)

	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Login(now, "op-key")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected token string")
	}

	claims, err := m.Verify(tok, now.Add(1*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != operatorSubject || claims.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsWrongKey(t *testing.T) {
	m := testManager(t)
	if _, err := m.Login(time.Now(), "wrong"); err == nil {
		t.Fatalf("expected rejection")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := testManager(t)

	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Login(now, "op-key")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := m.Verify(tok, now.Add(16*time.Minute)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{}); err == nil {
		t.Fatalf("expected error without secret")
	}
}
