package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/swisscoin/swisscoin/internal/models"
)

func TestJWTRoundtrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{
		ID:       "user-1",
		Email:    "alice@example.com",
		PersonID: "person-1",
	}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "alice@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	// The linked person rides in the token so balance endpoints get
	// their default viewpoint without a user lookup.
	if claims.PersonID != "person-1" {
		t.Errorf("person ID = %q, want person-1", claims.PersonID)
	}
}

func TestJWTValidateRejections(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com", PersonID: "person-1"}

	if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token error = %v, want ErrInvalidToken", err)
	}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	other := NewJWTManager("different-secret", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret error = %v, want ErrInvalidToken", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	staleToken, err := expired.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := expired.Validate(staleToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}
