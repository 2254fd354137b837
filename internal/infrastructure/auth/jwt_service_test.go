package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

const testSecret = "test-secret-key-for-signing"

func newTestTokenService() domain.TokenService {
	return NewJWTService(testSecret, "playwise-test", 30*time.Minute, 168*time.Hour)
}

func TestJWTService_AccessTokenRoundtrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Type != domain.TokenTypeAccess {
		t.Errorf("expected access type, got %s", claims.Type)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Error("expiry must be after issuance")
	}
}

func TestJWTService_RefreshTokenRoundtrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := svc.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user id 7, got %d", claims.UserID)
	}
	if claims.Type != domain.TokenTypeRefresh {
		t.Errorf("expected refresh type, got %s", claims.Type)
	}
}

func TestJWTService_TypeConfusionRejected(t *testing.T) {
	svc := newTestTokenService()

	access, _ := svc.GenerateAccessToken(1)
	refresh, _ := svc.GenerateRefreshToken(1)

	if _, err := svc.ValidateAccessToken(refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token at access check should be ErrTokenInvalid, got %v", err)
	}
	if _, err := svc.ValidateRefreshToken(access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("access token at refresh check should be ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, "playwise-test", -time.Minute, -time.Minute)

	token, err := svc.GenerateAccessToken(1)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_BadInput(t *testing.T) {
	svc := newTestTokenService()

	if _, err := svc.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Error("garbage input should fail validation")
	}

	// Token signed with a different secret.
	other := NewJWTService("completely-different-secret", "playwise-test", time.Minute, time.Minute)
	forged, _ := other.GenerateAccessToken(1)
	if _, err := svc.ValidateAccessToken(forged); err == nil {
		t.Error("token signed with a different key should fail validation")
	}
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := newTestTokenService()

	a, _ := svc.GenerateAccessToken(1)
	b, _ := svc.GenerateAccessToken(1)
	if a == b {
		t.Error("two tokens for the same user should differ")
	}
}
