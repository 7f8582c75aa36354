package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"household-meal-planner/internal/planner/plan_db"
)

// ErrPlanNotFound is returned by Get when a member has no plan yet.
var ErrPlanNotFound = errors.New("meal plan not found")

// PlanRepository is a database-backed store holding one plan per member.
type PlanRepository struct {
	queries *plan_db.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{
		queries: plan_db.New(d),
		db:      d,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upsert stores days as the member's current plan. The first call creates the
// plan with created_at = updated_at = now; later calls replace the days and
// updated_at only. The upsert is one statement and runs with its read-back
// in a transaction, so a concurrent reader never sees a half-written plan.
func (r *PlanRepository) Upsert(ctx context.Context, memberID string, days []DayPlan) (*WeeklyPlan, error) {
	if len(days) != DaysPerWeek {
		return nil, fmt.Errorf("meal plan for member %s has %d days, want %d", memberID, len(days), DaysPerWeek)
	}

	daysJSON, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal plan days: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	now := r.now()
	if err := q.UpsertMealPlan(ctx, plan_db.UpsertMealPlanParams{
		MemberID:  memberID,
		Days:      string(daysJSON),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to upsert meal plan for member %s: %w", memberID, err)
	}

	row, err := q.GetMealPlanByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back meal plan for member %s: %w", memberID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit meal plan for member %s: %w", memberID, err)
	}

	return fromRow(row)
}

// Get returns the member's current plan, or ErrPlanNotFound.
func (r *PlanRepository) Get(ctx context.Context, memberID string) (*WeeklyPlan, error) {
	row, err := r.queries.GetMealPlanByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get meal plan for member %s: %w", memberID, err)
	}
	return fromRow(row)
}

func fromRow(row plan_db.MealPlan) (*WeeklyPlan, error) {
	var days []DayPlan
	if err := json.Unmarshal([]byte(row.Days), &days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan days for member %s: %w", row.MemberID, err)
	}
	return &WeeklyPlan{
		MemberID:  row.MemberID,
		Days:      days,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
