package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"household-meal-planner/internal/member"
)

type mockMembers struct {
	byID map[string]*member.Member
}

func (m *mockMembers) Get(ctx context.Context, id string) (*member.Member, error) {
	if found, ok := m.byID[id]; ok {
		return found, nil
	}
	return nil, member.ErrMemberNotFound
}

func (m *mockMembers) GetByEmail(ctx context.Context, email string) (*member.Member, error) {
	for _, found := range m.byID {
		if found.Email == email {
			return found, nil
		}
	}
	return nil, member.ErrMemberNotFound
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *mockMembers) {
	t.Helper()
	hashed, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	members := &mockMembers{byID: map[string]*member.Member{
		"m-1": {ID: "m-1", Email: "sara@example.com", HashedPassword: hashed},
		"m-2": {ID: "m-2", Email: "old@example.com", HashedPassword: hashed, Disabled: true},
	}}
	return NewAuthenticator(members, NewTokenIssuer("test-secret", 30*time.Minute)), members
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hashed == "hunter2" {
		t.Fatal("Expected the password to be hashed")
	}
	if !CheckPassword(hashed, "hunter2") {
		t.Error("Expected the correct password to match")
	}
	if CheckPassword(hashed, "hunter3") {
		t.Error("Expected a wrong password not to match")
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t)

	t.Run("Success", func(t *testing.T) {
		token, err := a.Login(ctx, "sara@example.com", "s3cret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		m, err := a.Authenticate(ctx, token)
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if m.ID != "m-1" {
			t.Errorf("Expected member m-1, got %s", m.ID)
		}
	})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"WrongPassword", "sara@example.com", "nope"},
		{"UnknownUser", "nobody@example.com", "s3cret"},
		{"DisabledMember", "old@example.com", "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Login(ctx, tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a, members := newTestAuthenticator(t)

	t.Run("Garbage", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := NewTokenIssuer("other-secret", time.Minute).Issue("m-1")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := a.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", time.Minute)
		issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := issuer.Issue("m-1")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := a.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken for an expired token, got %v", err)
		}
	})

	t.Run("DeletedMember", func(t *testing.T) {
		token, err := a.tokens.Issue("m-1")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		delete(members.byID, "m-1")
		if _, err := a.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken for a deleted member, got %v", err)
		}
	})
}
