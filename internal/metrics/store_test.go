package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"household-meal-planner/internal/database"
	"household-meal-planner/internal/planner"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old := RefreshRun{Source: SourceScheduled, StartedAt: now.AddDate(0, 0, -40), Members: 2, Succeeded: 2}
	recent := RefreshRun{Source: SourceManual, StartedAt: now.Add(-time.Hour), FinishedAt: now.Add(-time.Hour + time.Second), Members: 3, Succeeded: 2, Failed: 1}
	for _, run := range []RefreshRun{old, recent} {
		if err := s.Record(ctx, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Source != SourceManual || runs[0].Failed != 1 {
		t.Errorf("Expected newest run first, got %+v", runs[0])
	}
	if runs[0].Duration() != time.Second {
		t.Errorf("Expected duration 1s, got %v", runs[0].Duration())
	}
	if !runs[1].FinishedAt.Equal(runs[1].StartedAt) {
		t.Errorf("Expected missing FinishedAt to default to StartedAt, got %+v", runs[1])
	}

	deleted, err := s.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 run removed, got %d", deleted)
	}

	runs, _ = s.Recent(ctx, 10)
	if len(runs) != 1 {
		t.Errorf("Expected 1 run left, got %d", len(runs))
	}
}

func TestStoreRejectsNonPositiveLimits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Record(ctx, RefreshRun{Source: SourceManual, StartedAt: time.Now().AddDate(0, 0, -1)}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	for _, n := range []int{0, -1} {
		if _, err := s.Recent(ctx, n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("Recent(%d): expected ErrInvalidLimit, got %v", n, err)
		}
		if _, err := s.Cleanup(ctx, n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("Cleanup(%d): expected ErrInvalidLimit, got %v", n, err)
		}
	}

	// A rejected cleanup must leave history intact.
	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run kept, got %d", len(runs))
	}
}

func TestMapReport(t *testing.T) {
	start := time.Now()
	report := planner.RefreshReport{
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Members:    3,
		Succeeded:  1,
		Failures: []planner.MemberFailure{
			{MemberID: "a", Err: errors.New("boom")},
			{MemberID: "b", Err: errors.New("boom")},
		},
	}

	run := MapReport(SourceStartup, report)
	if run.Source != SourceStartup || run.Members != 3 || run.Succeeded != 1 || run.Failed != 2 {
		t.Errorf("Unexpected run: %+v", run)
	}
	if run.Error != "" {
		t.Errorf("Expected no run error, got '%s'", run.Error)
	}

	report.Err = errors.New("directory down")
	if run := MapReport(SourceScheduled, report); run.Error != "directory down" {
		t.Errorf("Expected run error 'directory down', got '%s'", run.Error)
	}
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f"), make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	h := GetSysHealth(dir)
	if h.DataDiskSize != "2.0 KB" {
		t.Errorf("Expected '2.0 KB', got '%s'", h.DataDiskSize)
	}
	if h.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", h.Goroutines)
	}
}
