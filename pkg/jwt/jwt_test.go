package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", "synkro", time.Minute)
	userID, teamID := uuid.New(), uuid.New()

	token, err := m.GenerateAccessToken(userID, teamID, "ali@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID || claims.TeamID != teamID {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Email != "ali@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewManager("secret", "synkro", time.Minute)
	userID, teamID := uuid.New(), uuid.New()

	other := NewManager("other-secret", "synkro", time.Minute)
	wrongSecret, _ := other.GenerateAccessToken(userID, teamID, "")

	foreign := NewManager("secret", "someone-else", time.Minute)
	wrongIssuer, _ := foreign.GenerateAccessToken(userID, teamID, "")

	noTeam, _ := m.GenerateAccessToken(userID, uuid.Nil, "")

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": wrongSecret,
		"wrong issuer": wrongIssuer,
		"missing team": noTeam,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateAccessToken(token); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("secret", "synkro", -time.Minute)
	token, err := m.GenerateAccessToken(uuid.New(), uuid.New(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
