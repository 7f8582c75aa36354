package member

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"household-meal-planner/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "members.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestParseRestrictions(t *testing.T) {
	t.Run("Deduplicates", func(t *testing.T) {
		set, err := ParseRestrictions([]string{"vegetarian", "Vegetarian", " gluten-free "})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(set) != 2 {
			t.Errorf("Expected 2 restrictions, got %d", len(set))
		}
		if !set.Has(Vegetarian) || !set.Has(GlutenFree) {
			t.Errorf("Expected vegetarian and gluten-free, got %v", set.Sorted())
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseRestrictions([]string{"keto"}); err == nil {
			t.Fatal("Expected an error for 'keto', got nil")
		}
	})

	t.Run("JSONRoundTripIsSorted", func(t *testing.T) {
		data, err := json.Marshal(NewRestrictions(NutFree, DairyFree, NutFree))
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `["dairy-free","nut-free"]` {
			t.Errorf("Unexpected JSON: %s", data)
		}

		var back Restrictions
		if err := json.Unmarshal([]byte(`["none","bogus"]`), &back); err == nil {
			t.Error("Expected unmarshal of an unknown restriction to fail")
		}
	})
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	var created *Member

	t.Run("Create", func(t *testing.T) {
		var err error
		created, err = repo.Create(ctx, NewMember{
			Name:           "Ayesha",
			Email:          " Ayesha@Example.com ",
			HashedPassword: "hash",
			Restrictions:   NewRestrictions(GlutenFree),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == "" {
			t.Error("Expected a generated ID")
		}
		if created.Email != "ayesha@example.com" {
			t.Errorf("Expected normalized email, got '%s'", created.Email)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := repo.Create(ctx, NewMember{Name: "Other", Email: "AYESHA@example.com", HashedPassword: "x"})
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name != "Ayesha" || !got.Restrictions.Has(GlutenFree) {
			t.Errorf("Unexpected member: %+v", got)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("Expected CreatedAt %v, got %v", created.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("GetByEmail", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ayesha@EXAMPLE.com")
		if err != nil {
			t.Fatalf("GetByEmail failed: %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("Expected ID '%s', got '%s'", created.ID, got.ID)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrMemberNotFound) {
			t.Errorf("Expected ErrMemberNotFound, got %v", err)
		}
		if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrMemberNotFound) {
			t.Errorf("Expected ErrMemberNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		if _, err := repo.Create(ctx, NewMember{Name: "Bilal", Email: "bilal@example.com", HashedPassword: "x"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		members, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("Expected 2 members, got %d", len(members))
		}
		for _, m := range members {
			if m.Name == "Bilal" && len(m.Restrictions) != 0 {
				t.Errorf("Expected Bilal to have no restrictions, got %v", m.Restrictions.Sorted())
			}
		}
	})

	t.Run("SetDisabled", func(t *testing.T) {
		if err := repo.SetDisabled(ctx, created.ID, true); err != nil {
			t.Fatalf("SetDisabled failed: %v", err)
		}
		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.Disabled {
			t.Error("Expected member to be disabled")
		}
		if err := repo.SetDisabled(ctx, "missing", true); !errors.Is(err, ErrMemberNotFound) {
			t.Errorf("Expected ErrMemberNotFound, got %v", err)
		}
	})
}
