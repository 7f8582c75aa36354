package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"

	"household-meal-planner/internal/auth"
	"household-meal-planner/internal/catalog"
	"household-meal-planner/internal/member"
	"household-meal-planner/internal/metrics"
	"household-meal-planner/internal/planner"
)

// ErrInvalidInput wraps registration validation failures.
var ErrInvalidInput = errors.New("invalid input")

// Notifier is told about every finished bulk refresh.
type Notifier interface {
	NotifyRefresh(run metrics.RefreshRun, failures []planner.MemberFailure)
}

// RegisterInput is the data a new family member signs up with.
type RegisterInput struct {
	Name                string
	Email               string
	Password            string
	DietaryRestrictions []string
}

// App holds the application's dependencies.
type App struct {
	members      *member.Repository
	planRepo     *planner.PlanRepository
	catalogs     *catalog.Set
	refresher    *planner.Refresher
	metricsStore *metrics.Store
	notifier     Notifier
}

// NewApp creates and initializes a new App instance. notifier may be nil.
func NewApp(
	members *member.Repository,
	planRepo *planner.PlanRepository,
	catalogs *catalog.Set,
	metricsStore *metrics.Store,
	notifier Notifier,
	concurrency int,
) *App {
	return &App{
		members:      members,
		planRepo:     planRepo,
		catalogs:     catalogs,
		refresher:    planner.NewRefresher(members, planRepo, catalogs, concurrency),
		metricsStore: metricsStore,
		notifier:     notifier,
	}
}

// SetNotifier replaces the refresh notifier.
func (a *App) SetNotifier(n Notifier) {
	a.notifier = n
}

// Register validates the input, creates the member and generates their
// first plan. A failed first plan is logged, not returned: the member
// exists and the next refresh will try again.
func (a *App) Register(ctx context.Context, in RegisterInput) (*member.Member, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email := strings.TrimSpace(in.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		// Only a bare address is accepted; "Name <addr>" forms are not.
		return nil, fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, in.Email)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	restrictions, err := member.ParseRestrictions(in.DietaryRestrictions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	m, err := a.members.Create(ctx, member.NewMember{
		Name:           name,
		Email:          addr.Address,
		HashedPassword: hashed,
		Restrictions:   restrictions,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Registered member %s (%s catalog)", m.ID, a.catalogs.Kind(m.Restrictions))

	if _, err := a.refresher.RefreshMember(ctx, *m); err != nil {
		log.Printf("Warning: failed to generate first meal plan for member %s: %v", m.ID, err)
	}
	return m, nil
}

// Members returns the member directory.
func (a *App) Members(ctx context.Context) ([]member.Member, error) {
	return a.members.List(ctx)
}

// MyPlan returns the member's current plan, or planner.ErrPlanNotFound.
func (a *App) MyPlan(ctx context.Context, memberID string) (*planner.WeeklyPlan, error) {
	return a.planRepo.Get(ctx, memberID)
}

// RefreshMember regenerates one member's plan now.
func (a *App) RefreshMember(ctx context.Context, memberID string) (*planner.WeeklyPlan, error) {
	m, err := a.members.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return a.refresher.RefreshMember(ctx, *m)
}

// RefreshAll regenerates every member's plan, records the run and notifies
// the admin. It is the scheduler's task.
func (a *App) RefreshAll(ctx context.Context, source string) planner.RefreshReport {
	log.Printf("Starting %s meal plan refresh...", source)
	report, err := a.refresher.RefreshAll(ctx)
	if err != nil {
		log.Printf("Meal plan refresh failed: %v", err)
	}

	run := metrics.MapReport(source, report)
	// Record even when the run context has expired.
	if err := a.metricsStore.Record(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("Warning: failed to record refresh run: %v", err)
	}
	if a.notifier != nil {
		a.notifier.NotifyRefresh(run, report.Failures)
	}
	return report
}

// ShowPlan prints the member's current plan.
func (a *App) ShowPlan(ctx context.Context, w io.Writer, memberID string) error {
	plan, err := a.planRepo.Get(ctx, memberID)
	if errors.Is(err, planner.ErrPlanNotFound) {
		fmt.Fprintf(w, "No meal plan yet for member %s.\n", memberID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	fmt.Fprintln(w, "=== WEEKLY MEAL PLAN ===")
	fmt.Fprintf(w, "Member:  %s\nCreated: %s\nUpdated: %s\n\n",
		plan.MemberID, plan.CreatedAt.Format("2006-01-02 15:04"), plan.UpdatedAt.Format("2006-01-02 15:04"))
	for i, day := range plan.Days {
		fmt.Fprintf(w, "Day %d\n", i+1)
		fmt.Fprintf(w, "  %-10s %s\n", "Breakfast:", day.Breakfast)
		fmt.Fprintf(w, "  %-10s %s\n", "Lunch:", day.Lunch)
		fmt.Fprintf(w, "  %-10s %s\n", "Dinner:", day.Dinner)
		fmt.Fprintf(w, "  %-10s %s\n", "Snacks:", day.Snacks)
	}
	return nil
}

// PrintHistory prints the latest refresh runs.
func (a *App) PrintHistory(ctx context.Context, w io.Writer, limit int) error {
	runs, err := a.metricsStore.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load refresh history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No refresh runs recorded yet.")
		return nil
	}

	fmt.Fprintln(w, "=== REFRESH HISTORY ===")
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-9s members=%d updated=%d failed=%d took=%s",
			r.StartedAt.Format("2006-01-02 15:04"), r.Source, r.Members, r.Succeeded, r.Failed, r.Duration())
		if r.Error != "" {
			fmt.Fprintf(w, "  error=%q", r.Error)
		}
		fmt.Fprintln(w)
	}
	return nil
}
