package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-backend/internal/auth"
	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/db"
	"rental-backend/internal/handlers"
	"rental-backend/internal/health"
	h "rental-backend/internal/http"
	"rental-backend/internal/middleware"
	"rental-backend/internal/realtime"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
	"rental-backend/internal/storage"
	"rental-backend/internal/timeutil"
	"rental-backend/internal/whatsapp"
	"rental-backend/migrations"

	"github.com/shopspring/decimal"
)

func main() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	if err := timeutil.SetLocation(cfg.Timezone); err != nil {
		log.Printf("[Config] Unknown timezone %q, using UTC: %v", cfg.Timezone, err)
	}
	clock := timeutil.SystemClock{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := db.Connect(cfg)
	defer pool.Close()

	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	reportCache := cache.Connect(cfg)
	defer reportCache.Close()

	receiptStore, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Receipt storage init failed: %v", err)
	}

	hub := realtime.NewHub()
	go hub.Run(ctx)

	// Repositories
	txManager := repositories.NewTxManager(pool, clock)
	directoryRepo := repositories.NewDirectoryRepository(pool, clock)
	userRepo := repositories.NewUserRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	if err := userService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("Admin seed failed: %v", err)
	}

	paymentService := services.NewPaymentService(txManager, reportCache, hub, clock)
	reportService := services.NewReportService(txManager, reportCache, clock)
	directoryService := services.NewDirectoryService(directoryRepo, reportCache)
	receiptService := services.NewReceiptService(txManager, receiptStore, cfg.Receipts.PublicBaseURL, clock)

	provider := whatsapp.NewProvider(cfg)
	if provider == nil {
		log.Println("[WhatsApp] No provider configured, receipt messages disabled")
	} else {
		log.Printf("[WhatsApp] Using %s", provider.Name())
	}
	notificationService := services.NewNotificationService(provider, txManager, paymentService, clock)

	// Handlers
	hs := h.Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		Payments:  handlers.NewPaymentHandler(paymentService, clock),
		Reports:   handlers.NewReportHandler(reportService, clock),
		Directory: handlers.NewDirectoryHandler(directoryService),
		Receipts:  handlers.NewReceiptHandler(receiptService),
		WhatsApp:  handlers.NewWhatsAppHandler(notificationService),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(pool, reportCache)),
		Realtime:  hub.ServeWS,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	router := h.NewRouter(hs, middleware.NewAuthMiddleware(jwtManager, userService), h.Options{
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout(),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Wrap(router, middleware.NewCORS(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Server running on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}
