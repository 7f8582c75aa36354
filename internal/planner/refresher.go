package planner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"household-meal-planner/internal/catalog"
	"household-meal-planner/internal/member"

	"golang.org/x/sync/errgroup"
)

// MemberDirectory supplies the complete current set of members.
type MemberDirectory interface {
	List(ctx context.Context) ([]member.Member, error)
}

// PlanStore persists one current plan per member.
type PlanStore interface {
	Upsert(ctx context.Context, memberID string, days []DayPlan) (*WeeklyPlan, error)
}

// MemberFailure records why one member's plan could not be refreshed.
type MemberFailure struct {
	MemberID string
	Err      error
}

// RefreshReport summarizes one bulk refresh.
type RefreshReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Members    int
	Succeeded  int
	Failures   []MemberFailure
	// Err is set when the run could not start, e.g. the directory failed.
	Err error
}

// Failed is the number of members whose refresh failed.
func (r RefreshReport) Failed() int {
	return len(r.Failures)
}

// Refresher regenerates members' plans from the catalog set.
type Refresher struct {
	directory   MemberDirectory
	store       PlanStore
	catalogs    *catalog.Set
	concurrency int
}

// NewRefresher creates a Refresher running at most concurrency members at once.
func NewRefresher(directory MemberDirectory, store PlanStore, catalogs *catalog.Set, concurrency int) *Refresher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Refresher{
		directory:   directory,
		store:       store,
		catalogs:    catalogs,
		concurrency: concurrency,
	}
}

// RefreshMember classifies, generates and stores a plan for one member.
// Nothing is written when generation fails, so the previous plan survives.
func (r *Refresher) RefreshMember(ctx context.Context, m member.Member) (*WeeklyPlan, error) {
	kind := r.catalogs.Kind(m.Restrictions)
	days, err := Generate(r.catalogs.ByKind(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s plan for member %s: %w", kind, m.ID, err)
	}

	plan, err := r.store.Upsert(ctx, m.ID, days)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// RefreshAll regenerates the plan of every member in the directory. A
// failure for one member is logged and recorded in the report; the others
// are still processed. Only a directory failure aborts the run, and it is
// returned as the error.
func (r *Refresher) RefreshAll(ctx context.Context) (RefreshReport, error) {
	report := RefreshReport{StartedAt: time.Now().UTC()}

	members, err := r.directory.List(ctx)
	if err != nil {
		report.FinishedAt = time.Now().UTC()
		report.Err = fmt.Errorf("failed to list members: %w", err)
		return report, report.Err
	}
	report.Members = len(members)
	log.Printf("Refreshing meal plans for %d members...", len(members))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.concurrency)

	for _, m := range members {
		g.Go(func() error {
			_, err := r.RefreshMember(ctx, m)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Failed to refresh meal plan for member %s: %v", m.ID, err)
				report.Failures = append(report.Failures, MemberFailure{MemberID: m.ID, Err: err})
				return nil
			}
			report.Succeeded++
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	report.FinishedAt = time.Now().UTC()
	log.Printf("Meal plan refresh complete: %d succeeded, %d failed (%s).",
		report.Succeeded, report.Failed(), report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return report, nil
}
