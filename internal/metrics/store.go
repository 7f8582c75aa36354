package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"household-meal-planner/internal/metrics/metrics_db"
	"household-meal-planner/internal/planner"
)

// Refresh run sources.
const (
	SourceScheduled = "scheduled"
	SourceStartup   = "startup"
	SourceManual    = "manual"
)

// ErrInvalidLimit is returned when a history limit or retention window is
// less than one.
var ErrInvalidLimit = errors.New("limit must be at least 1")

// RefreshRun records the outcome of a single bulk plan refresh.
type RefreshRun struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Members    int       `json:"members"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
}

// Duration is how long the run took.
func (r RefreshRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store handles persistence of refresh history to SQLite.
type Store struct {
	queries *metrics_db.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metrics_db.New(db),
		db:      db,
		now:     time.Now,
	}
}

// Record saves a run to the database.
func (s *Store) Record(ctx context.Context, run RefreshRun) error {
	started := run.StartedAt
	if started.IsZero() {
		started = s.now().UTC()
	}
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = started
	}

	return s.queries.InsertRefreshRun(ctx, metrics_db.InsertRefreshRunParams{
		Source:     run.Source,
		StartedAt:  started,
		FinishedAt: finished,
		Members:    int64(run.Members),
		Succeeded:  int64(run.Succeeded),
		Failed:     int64(run.Failed),
		Error:      run.Error,
	})
}

// Recent returns the latest limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RefreshRun, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.queries.ListRecentRefreshRuns(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	runs := make([]RefreshRun, 0, len(rows))
	for _, r := range rows {
		runs = append(runs, RefreshRun{
			ID:         r.ID,
			Source:     r.Source,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Members:    int(r.Members),
			Succeeded:  int(r.Succeeded),
			Failed:     int(r.Failed),
			Error:      r.Error,
		})
	}
	return runs, nil
}

// Cleanup removes runs older than the specified number of days and returns
// how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays < 1 {
		return 0, ErrInvalidLimit
	}
	threshold := s.now().UTC().AddDate(0, 0, -olderThanDays)
	return s.queries.CleanupRefreshRuns(ctx, threshold)
}

// MapReport converts a refresher report into a RefreshRun.
func MapReport(source string, report planner.RefreshReport) RefreshRun {
	run := RefreshRun{
		Source:     source,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Members:    report.Members,
		Succeeded:  report.Succeeded,
		Failed:     report.Failed(),
	}
	if report.Err != nil {
		run.Error = report.Err.Error()
	}
	return run
}
