package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "round-trip-secret"
	at, err := NewAccessToken(secret, 42, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if !at.Exp.After(time.Now()) {
		t.Fatalf("token expired on issue: %v", at.Exp)
	}

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse signed token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 42 {
		t.Fatalf("unexpected sub claim: %v", claims["sub"])
	}

	if _, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	}); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatal("two refresh tokens collided")
	}
	if len(a.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(a.Raw))
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) {
		t.Fatal("hash is not deterministic")
	}
	if HashRefreshRaw(a.Raw) == HashRefreshRaw(b.Raw) {
		t.Fatal("distinct tokens produced the same hash")
	}
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
