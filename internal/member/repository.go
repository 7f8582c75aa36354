package member

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"household-meal-planner/internal/member/member_db"

	"github.com/google/uuid"
)

var (
	// ErrMemberNotFound is returned when no member matches a lookup.
	ErrMemberNotFound = errors.New("member not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// NewMember holds the data needed to create a member.
type NewMember struct {
	Name           string
	Email          string
	HashedPassword string
	Restrictions   Restrictions
}

// Repository is a database-backed member directory.
type Repository struct {
	queries *member_db.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: member_db.New(d),
		db:      d,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a new member with a fresh id and returns it.
func (r *Repository) Create(ctx context.Context, m NewMember) (*Member, error) {
	email := normalizeEmail(m.Email)

	// The UNIQUE constraint is the real guard; this lookup only gives a clean error.
	if _, err := r.queries.GetMemberByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	restrictions := m.Restrictions
	if restrictions == nil {
		restrictions = NewRestrictions()
	}
	restrictionsJSON, err := json.Marshal(restrictions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dietary restrictions: %w", err)
	}

	created := &Member{
		ID:             uuid.NewString(),
		Name:           m.Name,
		Email:          email,
		HashedPassword: m.HashedPassword,
		Restrictions:   restrictions,
		CreatedAt:      r.now(),
	}

	err = r.queries.CreateMember(ctx, member_db.CreateMemberParams{
		ID:                  created.ID,
		Name:                created.Name,
		Email:               created.Email,
		HashedPassword:      created.HashedPassword,
		DietaryRestrictions: string(restrictionsJSON),
		Disabled:            false,
		CreatedAt:           created.CreatedAt,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}

	return created, nil
}

// Get retrieves a member by id.
func (r *Repository) Get(ctx context.Context, id string) (*Member, error) {
	row, err := r.queries.GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}
	return fromRow(row)
}

// GetByEmail retrieves a member by email address, case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	row, err := r.queries.GetMemberByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}
	return fromRow(row)
}

// List returns every registered member. It is the directory the weekly
// refresh enumerates.
func (r *Repository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.queries.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]Member, 0, len(rows))
	for _, row := range rows {
		m, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, nil
}

// SetDisabled enables or disables a member. Disabled members cannot log in
// but keep their plan and are still refreshed.
func (r *Repository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	n, err := r.queries.SetMemberDisabled(ctx, member_db.SetMemberDisabledParams{
		Disabled: disabled,
		ID:       id,
	})
	if err != nil {
		return fmt.Errorf("failed to update member %s: %w", id, err)
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func fromRow(row member_db.Member) (*Member, error) {
	var restrictions Restrictions
	if err := json.Unmarshal([]byte(row.DietaryRestrictions), &restrictions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dietary restrictions for member %s: %w", row.ID, err)
	}
	return &Member{
		ID:             row.ID,
		Name:           row.Name,
		Email:          row.Email,
		HashedPassword: row.HashedPassword,
		Restrictions:   restrictions,
		Disabled:       row.Disabled,
		CreatedAt:      row.CreatedAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
