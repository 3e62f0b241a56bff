package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jordanarrivado/ajs-portfolio/internal/security"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	token, err := manager.GenerateAdminToken("admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("token is empty")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.Subject != "admin" {
		t.Errorf("subject mismatch: got %v, want admin", claims.Subject)
	}

	if claims.Role != security.RoleAdmin {
		t.Errorf("role mismatch: got %v, want %v", claims.Role, security.RoleAdmin)
	}

	if manager.TokenTTL() != 15*time.Minute {
		t.Errorf("ttl mismatch: got %v", manager.TokenTTL())
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	_, err := manager.ValidateToken("invalid-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager1 := security.NewJWTManager("secret-key-1-with-32-characters!", 15*time.Minute)
	manager2 := security.NewJWTManager("secret-key-2-with-32-characters!", 15*time.Minute)

	token, err := manager1.GenerateAdminToken("admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = manager2.ValidateToken(token)
	if err == nil {
		t.Error("expected error when validating with wrong secret")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", -time.Minute)

	token, err := manager.GenerateAdminToken("admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestJWTManager_NonAdminRole(t *testing.T) {
	secret := "test-secret-key-with-32-chars!!"
	manager := security.NewJWTManager(secret, time.Minute)

	claims := security.Claims{
		Role: "visitor",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ajs-portfolio",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected error for non-admin token")
	}
}
