package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-backend/internal/auth"
	"parking-backend/internal/cache"
	"parking-backend/internal/config"
	"parking-backend/internal/database"
	"parking-backend/internal/db"
	h "parking-backend/internal/http"
	"parking-backend/internal/handlers"
	"parking-backend/internal/health"
	"parking-backend/internal/middleware"
	"parking-backend/internal/repositories"
	"parking-backend/internal/services"
	"parking-backend/internal/storage"
	"parking-backend/internal/timeutil"
	"parking-backend/migrations"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	configPath := flag.String("config", config.DefaultConfigFile, "Path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if cfg.Redis.Enabled {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Printf("[Redis] Cache unavailable: %v (reports will hit the database)", err)
		} else {
			log.Println("[Redis] Cache connected successfully")
		}
		defer cache.Close()
	}

	// Run database migrations from the embedded SQL files
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Ticket archive (optional)
	var archive services.TicketArchiver
	if cfg.Storage.Enabled {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			log.Fatalf("storage config invalid: %v", err)
		}
		archive = storage.NewTicketArchive(client, cfg.Storage.Bucket)
		log.Printf("[Storage] Archiving tickets to bucket %s", cfg.Storage.Bucket)
	}

	jwtManager := auth.NewJWTManager(cfg)
	clock := timeutil.SystemClock{}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	categoryRepo := repositories.NewSlotCategoryRepository(pool)
	parkingRepo := repositories.NewParkingRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	categoryService := services.NewSlotCategoryService(categoryRepo, parkingRepo)
	occupancyService := services.NewOccupancyService(categoryRepo, parkingRepo, clock)
	intakeService := services.NewIntakeService(categoryRepo, parkingRepo, clock)
	settlementService := services.NewSettlementService(paymentRepo, clock)
	ledgerService := services.NewLedgerService(ledgerRepo, cfg.Parking.CurrencySymbol)
	ticketRenderer := services.NewTicketRenderer(cfg.Parking.CurrencySymbol, archive)
	reportService := services.NewReportService(reportRepo, clock)

	collector := services.NewOccupancyCollector(occupancyService, 30*time.Second)
	collector.Start()
	defer collector.Stop()

	if err := userService.Bootstrap(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("Failed to create initial operator: %v", err)
	}

	router := h.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewHealthHandler(health.NewHealthChecker(pool, cfg.Redis.Enabled)),
		handlers.NewSlotCategoryHandler(categoryService),
		handlers.NewOccupancyHandler(occupancyService),
		handlers.NewParkingHandler(intakeService),
		handlers.NewSettlementHandler(settlementService),
		handlers.NewPaymentHandler(ledgerService, ticketRenderer),
		handlers.NewReportHandler(reportService),
		middleware.NewAuthMiddleware(jwtManager, userRepo),
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.RequestLogger(middleware.PanicRecovery(corsMiddleware(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shut down: %v", err)
	}
}
