package auth

import (
	"context"
	"errors"
	"fmt"

	"household-meal-planner/internal/member"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login does not match an active
// member, without saying which part was wrong.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// MemberFinder looks members up for authentication.
type MemberFinder interface {
	Get(ctx context.Context, id string) (*member.Member, error)
	GetByEmail(ctx context.Context, email string) (*member.Member, error)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// Authenticator exchanges credentials for access tokens and resolves tokens
// back to members.
type Authenticator struct {
	members MemberFinder
	tokens  *TokenIssuer
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(members MemberFinder, tokens *TokenIssuer) *Authenticator {
	return &Authenticator{members: members, tokens: tokens}
}

// Login checks username (the member's email) and password and returns a
// signed access token. Disabled members cannot log in.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	m, err := a.members.GetByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if m.Disabled || !CheckPassword(m.HashedPassword, password) {
		return "", ErrInvalidCredentials
	}
	return a.tokens.Issue(m.ID)
}

// Authenticate resolves a bearer token to the member it was issued for.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*member.Member, error) {
	id, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	m, err := a.members.Get(ctx, id)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, fmt.Errorf("%w: unknown member", ErrInvalidToken)
		}
		return nil, err
	}
	if m.Disabled {
		return nil, fmt.Errorf("%w: member is disabled", ErrInvalidToken)
	}
	return m, nil
}
