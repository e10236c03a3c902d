package video

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssue(t *testing.T) {
	s := NewStreamTokens("key", "secret")
	now := time.Now()

	raw, err := s.Issue(12, now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["user_id"] != "12" {
		t.Fatalf("expected string user_id 12, got %v", claims["user_id"])
	}
	if token.Method.Alg() != "HS256" {
		t.Fatalf("expected HS256, got %s", token.Method.Alg())
	}
	if s.APIKey() != "key" {
		t.Fatalf("unexpected api key %s", s.APIKey())
	}
}
