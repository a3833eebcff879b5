package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/models"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager()
	userID := uuid.New()

	token, exp, err := m.GenerateAccessToken(userID, models.RoleInstructor)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if time.Until(exp) > 15*time.Minute || time.Until(exp) < 14*time.Minute {
		t.Errorf("expiry not within access TTL: %v", exp)
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if claims.Role != models.RoleInstructor {
		t.Errorf("Role = %v, want %v", claims.Role, models.RoleInstructor)
	}
	got, err := claims.SubjectID()
	if err != nil {
		t.Fatalf("SubjectID() error = %v", err)
	}
	if got != userID {
		t.Errorf("SubjectID() = %v, want %v", got, userID)
	}
}

func TestTokenKindsDoNotCrossValidate(t *testing.T) {
	m := newTestJWTManager()
	userID := uuid.New()

	access, _, err := m.GenerateAccessToken(userID, models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	refresh, _, err := m.GenerateRefreshToken(userID, models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := m.ParseRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := newTestJWTManager()

	token, _, err := m.GenerateAccessToken(uuid.New(), models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	other := NewJWTManager("other-secret", "refresh-secret", time.Minute, time.Minute)
	if _, err := other.ParseAccessToken(token); err == nil {
		t.Error("token signed with a different secret accepted")
	}

	if _, err := m.ParseAccessToken(token + "x"); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, _, err := m.GenerateAccessToken(uuid.New(), models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if _, err := m.ParseAccessToken(token); err == nil {
		t.Error("expired token accepted")
	}
}
