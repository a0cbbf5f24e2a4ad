package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/tour-booking-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)

	token, exp, err := tm.GenerateToken(42, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry must be in the future")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		t.Fatalf("subject parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected subject 42, got %d", userID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("token must carry a jti for revocation")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 30).GenerateToken(1, domain.RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b", 30).ParseToken(token); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	if _, err := NewTokenManager("secret", 30).ParseToken("not.a.token"); err == nil {
		t.Fatal("malformed token must not parse")
	}
}
