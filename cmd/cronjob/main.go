package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	adminhttp "rentalhub-backend/internal/api/http"
	"rentalhub-backend/internal/clock"
	"rentalhub-backend/internal/config"
	"rentalhub-backend/internal/inventory"
	"rentalhub-backend/internal/jobs"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/metrics"
	"rentalhub-backend/internal/repository/postgres"
	"rentalhub-backend/internal/scheduler"
	"rentalhub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'auto-cancel-stale-pending', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentalHub lifecycle runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize collaborators
	clk := clock.System()
	lifecycleMetrics := metrics.NewLifecycleMetrics()

	remoteTimeout := time.Duration(cfg.Inventory.TimeoutSeconds) * time.Second
	inventoryClient := inventory.NewHTTPClient(cfg.Inventory.BaseURL, remoteTimeout)

	emailService := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	dispatcher := service.NewNotificationDispatcher(
		store.NotificationRepository,
		emailService,
		cfg.Rental.AdminEmail,
		clk,
	)

	lifecycleService := service.NewRentalLifecycleService(
		store.RentalRepository,
		inventoryClient,
		dispatcher,
		clk,
		lifecycleMetrics,
		remoteTimeout,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(
		store.RentalRepository,
		lifecycleService,
		dispatcher,
		cfg,
		clk,
		lifecycleMetrics,
	)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start admin HTTP server (job triggers, health, metrics)
	adminHandler := adminhttp.NewAdminHandler(jobRunner)
	adminServer := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: adminHandler.Router(),
	}
	go func() {
		logger.Info("Admin HTTP server listening", "addr", cfg.GetServerAddress())
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Admin HTTP server failed", "error", err)
		}
	}()

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Lifecycle scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down lifecycle scheduler...")
	cronScheduler.Stop()
	adminServer.Close()
	logger.Info("Lifecycle scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "auto-cancel-stale-pending":
		jobRunner.AutoCancelStalePending()
	case "mark-overdue-rentals":
		jobRunner.MarkOverdueRentals()
	case "send-return-delivery-alerts":
		jobRunner.SendReturnDeliveryAlerts()
	case "send-daily-summary":
		jobRunner.SendReturnDeliverySummary()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	case "all-daily-alerts":
		jobRunner.RunAllDailyAlertJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - auto-cancel-stale-pending\n")
		fmt.Printf("  - mark-overdue-rentals\n")
		fmt.Printf("  - send-return-delivery-alerts\n")
		fmt.Printf("  - send-daily-summary\n")
		fmt.Printf("  - all-nightly\n")
		fmt.Printf("  - all-daily-alerts\n")
		os.Exit(1)
	}
}
