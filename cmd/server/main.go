package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/infrastructure/cache"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/erp/ledger/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories and transactional scope
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	debitNoteRepo := persistence.NewGormDebitNoteRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	ledgerService := ledgerapp.NewLedgerService(
		entryRepo,
		paymentRepo,
		creditNoteRepo,
		debitNoteRepo,
		txScope,
		ledgerapp.WithAllocateRetries(cfg.Ledger.AllocateRetryAttempts),
	)

	// Idempotency store, Redis with in-memory fallback
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Gin engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Idempotency(idempotencyStore, cfg.Ledger.IdempotencyTTL))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/entries", ledgerHandler.CreateEntry)
	ledgerRoutes.GET("/entries", ledgerHandler.ListEntries)
	ledgerRoutes.GET("/entries/outstanding", ledgerHandler.ListOutstandingEntries)
	ledgerRoutes.GET("/entries/:id", ledgerHandler.GetEntry)
	ledgerRoutes.GET("/entries/:id/outstanding", ledgerHandler.GetOutstanding)
	ledgerRoutes.GET("/counterparties/:id/balance", ledgerHandler.GetCounterpartyBalance)
	ledgerRoutes.POST("/payments", ledgerHandler.CreatePayment)
	ledgerRoutes.GET("/payments", ledgerHandler.ListPayments)
	ledgerRoutes.GET("/payments/:id", ledgerHandler.GetPayment)
	ledgerRoutes.POST("/credit-notes", ledgerHandler.CreateCreditNote)
	ledgerRoutes.GET("/credit-notes", ledgerHandler.ListCreditNotes)
	ledgerRoutes.GET("/credit-notes/:id", ledgerHandler.GetCreditNote)
	ledgerRoutes.POST("/debit-notes", ledgerHandler.CreateDebitNote)
	ledgerRoutes.GET("/debit-notes", ledgerHandler.ListDebitNotes)
	ledgerRoutes.GET("/debit-notes/:id", ledgerHandler.GetDebitNote)
	ledgerRoutes.POST("/allocations", ledgerHandler.Allocate)
	ledgerRoutes.POST("/allocations/auto", ledgerHandler.AutoAllocate)
	ledgerRoutes.GET("/instruments/:type/:id/capacity", ledgerHandler.GetRemainingCapacity)
	r.Register(ledgerRoutes)

	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports service and database health
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
