package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"household-meal-planner/internal/api"
	"household-meal-planner/internal/app"
	"household-meal-planner/internal/auth"
	"household-meal-planner/internal/catalog"
	"household-meal-planner/internal/config"
	"household-meal-planner/internal/database"
	"household-meal-planner/internal/member"
	"household-meal-planner/internal/metrics"
	"household-meal-planner/internal/planner"
	"household-meal-planner/internal/scheduler"
	"household-meal-planner/internal/telegram"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	catalogs, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load meal catalogs: %v", err)
	}

	// 2. Initialize Database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	members := member.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 3. Initialize Services
	application := app.NewApp(members, planRepo, catalogs, metricsStore, nil, cfg.RefreshConcurrency)
	authenticator := auth.NewAuthenticator(members, auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenExpires))

	sched, err := scheduler.New(scheduler.Schedule{
		Day:      cfg.RefreshDay,
		Hour:     cfg.RefreshHour,
		Minute:   cfg.RefreshMinute,
		Location: cfg.Location(),
		Timeout:  cfg.RefreshTimeout,
	}, func(ctx context.Context, source string) {
		application.RefreshAll(ctx, source)
	})
	if err != nil {
		log.Fatalf("Failed to create refresh scheduler: %v", err)
	}

	// 4. Initialize Telegram Bot (optional)
	dataPath := filepath.Dir(cfg.DatabasePath)
	var webhook gin.HandlerFunc
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg, metricsStore, dataPath)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram Bot: %v", err)
		}
		bot.SetRefreshTrigger(sched.RunNow)
		application.SetNotifier(bot)
		if cfg.TelegramWebhookURL != "" {
			webhook = bot.WebhookHandler()
		}
	}

	// 5. Start Scheduler
	sched.Start()
	if cfg.RefreshOnStartup {
		go sched.RunNow(context.Background(), metrics.SourceStartup)
	}

	// 6. Start Server with Graceful Shutdown
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Options{
		Service:  application,
		Auth:     authenticator,
		Status:   sched,
		DataPath: dataPath,
		Webhook:  webhook,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Meal Planner API listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := sched.Stop(ctxShutdown); err != nil {
		log.Printf("Refresh still running at shutdown: %v", err)
	}

	log.Println("Server exiting")
}
