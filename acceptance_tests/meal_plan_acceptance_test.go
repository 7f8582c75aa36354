package acceptance_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"household-meal-planner/internal/api"
	"household-meal-planner/internal/app"
	"household-meal-planner/internal/auth"
	"household-meal-planner/internal/catalog"
	"household-meal-planner/internal/database"
	"household-meal-planner/internal/member"
	"household-meal-planner/internal/metrics"
	"household-meal-planner/internal/planner"
	"household-meal-planner/internal/scheduler"

	"github.com/gin-gonic/gin"
)

type env struct {
	router http.Handler
	sched  *scheduler.Scheduler
	plans  *planner.PlanRepository
	runs   *metrics.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.NewDB(filepath.Join(dir, "meal_planner.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	members := member.NewRepository(db.SQL)
	plans := planner.NewPlanRepository(db.SQL)
	runs := metrics.NewStore(db.SQL)
	application := app.NewApp(members, plans, catalog.Builtin(), runs, nil, 2)

	sched, err := scheduler.New(scheduler.Schedule{Day: time.Sunday, Location: time.UTC, Timeout: time.Minute},
		func(ctx context.Context, source string) { application.RefreshAll(ctx, source) })
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}

	router := api.NewRouter(api.Options{
		Service:  application,
		Auth:     auth.NewAuthenticator(members, auth.NewTokenIssuer("acceptance-secret", time.Hour)),
		Status:   sched,
		DataPath: dir,
	})
	return &env{router: router, sched: sched, plans: plans, runs: runs}
}

func (e *env) do(t *testing.T, req *http.Request, wantStatus int, out any) {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", req.Method, req.URL.Path, wantStatus, w.Code, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("Failed to decode %s response: %v", req.URL.Path, err)
		}
	}
}

func (e *env) register(t *testing.T, name string, restrictions ...string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"name":                 name,
		"email":                name + "@example.com",
		"password":             name + "-password",
		"dietary_restrictions": restrictions,
	})
	var resp struct {
		ID string `json:"id"`
	}
	e.do(t, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(string(body))), http.StatusCreated, &resp)
	return resp.ID
}

func (e *env) login(t *testing.T, name string) string {
	t.Helper()
	form := url.Values{"username": {name + "@example.com"}, "password": {name + "-password"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	e.do(t, req, http.StatusOK, &resp)
	return resp.AccessToken
}

func (e *env) myPlan(t *testing.T, token string) planner.WeeklyPlan {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/meal-plan/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	var plan planner.WeeklyPlan
	e.do(t, req, http.StatusOK, &plan)
	return plan
}

func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	// --- Step 1: Registration generates a first plan ---
	t.Log("--- Step 1: Registering members ---")
	glutenFreeID := e.register(t, "zara", "gluten-free")
	e.register(t, "omar", "vegetarian", "gluten-free")
	e.register(t, "ali", "dairy-free")

	var listed []struct {
		ID                  string   `json:"id"`
		DietaryRestrictions []string `json:"dietary_restrictions"`
	}
	e.do(t, httptest.NewRequest(http.MethodGet, "/family-members/", nil), http.StatusOK, &listed)
	if len(listed) != 3 {
		t.Fatalf("Expected 3 family members, got %d", len(listed))
	}

	// --- Step 2: Each member reads the plan for their catalog ---
	t.Log("--- Step 2: Reading plans ---")
	zaraToken := e.login(t, "zara")
	first := e.myPlan(t, zaraToken)
	if first.MemberID != glutenFreeID || len(first.Days) != planner.DaysPerWeek {
		t.Fatalf("Unexpected plan for zara: %+v", first)
	}
	if first.Days[0].Breakfast != "Eggs with veggies" || first.Days[3].Lunch != "Grilled chicken salad" {
		t.Errorf("Expected the gluten-free rotation, got %+v", first.Days)
	}
	if got := e.myPlan(t, e.login(t, "omar")).Days[0].Breakfast; got != "Oatmeal" {
		t.Errorf("Expected vegetarian breakfast for omar, got '%s'", got)
	}
	if got := e.myPlan(t, e.login(t, "ali")).Days[1].Dinner; got != "Pizza" {
		t.Errorf("Expected default dinner for ali, got '%s'", got)
	}

	// --- Step 3: A scheduled refresh updates in place ---
	t.Log("--- Step 3: Running the weekly refresh ---")
	time.Sleep(10 * time.Millisecond)
	if !e.sched.RunNow(ctx, metrics.SourceScheduled) {
		t.Fatal("Expected the refresh to run")
	}

	second := e.myPlan(t, zaraToken)
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Expected CreatedAt to be preserved, was %v now %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("Expected UpdatedAt to advance, was %v now %v", first.UpdatedAt, second.UpdatedAt)
	}

	runs, err := e.runs.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Succeeded != 3 || runs[0].Failed != 0 {
		t.Errorf("Expected one clean run over 3 members, got %+v", runs)
	}

	// --- Step 4: Auth failures stay at the HTTP boundary ---
	t.Log("--- Step 4: Rejecting bad credentials ---")
	req := httptest.NewRequest(http.MethodGet, "/meal-plan/my", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	e.do(t, req, http.StatusUnauthorized, nil)

	form := url.Values{"username": {"zara@example.com"}, "password": {"wrong"}}
	req = httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	e.do(t, req, http.StatusUnauthorized, nil)
}
