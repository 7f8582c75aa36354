package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"household-meal-planner/internal/app"
	"household-meal-planner/internal/catalog"
	"household-meal-planner/internal/config"
	"household-meal-planner/internal/database"
	"household-meal-planner/internal/member"
	"household-meal-planner/internal/metrics"
	"household-meal-planner/internal/planner"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	catalogs, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load meal catalogs: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	members := member.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	application := app.NewApp(members, planner.NewPlanRepository(db.SQL), catalogs, metricsStore, nil, cfg.RefreshConcurrency)

	ctx := context.Background()

	switch os.Args[1] {
	case "refresh":
		ctx, cancel := context.WithTimeout(ctx, cfg.RefreshTimeout)
		defer cancel()
		report := application.RefreshAll(ctx, metrics.SourceManual)
		if report.Err != nil {
			log.Fatalf("Refresh failed: %v", report.Err)
		}
		fmt.Printf("Refreshed %d of %d members (%d failed).\n", report.Succeeded, report.Members, report.Failed())
	case "show":
		if len(os.Args) < 3 {
			log.Fatalf("Usage: meal-planner show <member-id>")
		}
		if err := application.ShowPlan(ctx, os.Stdout, os.Args[2]); err != nil {
			log.Fatalf("Show failed: %v", err)
		}
	case "history":
		historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
		limit := historyCmd.Int("n", 10, "Number of runs to show")
		historyCmd.Parse(os.Args[2:])
		if *limit < 1 {
			log.Fatalf("-n must be at least 1, got %d", *limit)
		}

		if err := application.PrintHistory(ctx, os.Stdout, *limit); err != nil {
			log.Fatalf("History failed: %v", err)
		}
	case "disable", "enable":
		if len(os.Args) < 3 {
			log.Fatalf("Usage: meal-planner %s <member-id>", os.Args[1])
		}
		if err := members.SetDisabled(ctx, os.Args[2], os.Args[1] == "disable"); err != nil {
			log.Fatalf("Failed to %s member: %v", os.Args[1], err)
		}
		fmt.Printf("Member %s %sd.\n", os.Args[2], os.Args[1])
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])
		if *days < 1 {
			log.Fatalf("-days must be at least 1, got %d", *days)
		}

		affected, err := metricsStore.Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old refresh records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  refresh              Regenerate every member's meal plan now")
	fmt.Println("  show <member-id>     Print a member's current meal plan")
	fmt.Println("  history [-n N]       Show recent refresh runs")
	fmt.Println("  disable <member-id>  Block a member from logging in")
	fmt.Println("  enable <member-id>   Allow a disabled member to log in again")
	fmt.Println("  metrics-cleanup      Remove old refresh records")
}
