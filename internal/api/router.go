package api

import (
	"context"
	"net/http"
	"time"

	"household-meal-planner/internal/app"
	"household-meal-planner/internal/member"
	"household-meal-planner/internal/metrics"
	"household-meal-planner/internal/planner"
	"household-meal-planner/internal/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Service is the application surface the handlers call.
type Service interface {
	Register(ctx context.Context, in app.RegisterInput) (*member.Member, error)
	Members(ctx context.Context) ([]member.Member, error)
	MyPlan(ctx context.Context, memberID string) (*planner.WeeklyPlan, error)
	RefreshMember(ctx context.Context, memberID string) (*planner.WeeklyPlan, error)
}

// Authenticator issues and checks bearer tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*member.Member, error)
}

// RefreshStatus exposes the scheduler for the health endpoint.
type RefreshStatus interface {
	State() scheduler.State
	Next(t time.Time) time.Time
}

// Options configures the router. Status and Webhook are optional.
type Options struct {
	Service  Service
	Auth     Authenticator
	Status   RefreshStatus
	DataPath string
	Webhook  gin.HandlerFunc
}

type handlers struct {
	service  Service
	auth     Authenticator
	status   RefreshStatus
	dataPath string
}

// NewRouter builds the HTTP API.
func NewRouter(opts Options) *gin.Engine {
	h := &handlers{
		service:  opts.Service,
		auth:     opts.Auth,
		status:   opts.Status,
		dataPath: opts.DataPath,
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", h.health)
	r.POST("/register", h.register)
	r.POST("/token", h.login)
	r.GET("/family-members/", h.listMembers)

	my := r.Group("/meal-plan/my")
	my.Use(h.requireMember())
	{
		my.GET("", h.myPlan)
		my.POST("/refresh", h.refreshMyPlan)
	}

	if opts.Webhook != nil {
		r.POST("/telegram/webhook", opts.Webhook)
	}
	return r
}

func (h *handlers) health(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"system": metrics.GetSysHealth(h.dataPath),
	}
	if h.status != nil {
		body["refresh"] = gin.H{
			"state":    h.status.State().String(),
			"next_run": h.status.Next(time.Now()),
		}
	}
	c.JSON(http.StatusOK, body)
}
