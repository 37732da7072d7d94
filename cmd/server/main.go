// Package main is the entry point for the bookstock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/domain/documents/distribution"
	"bookstock/internal/domain/documents/purchase"
	"bookstock/internal/domain/registers/stock"
	"bookstock/internal/domain/setup"
	"bookstock/internal/domain/stockreport"
	v1 "bookstock/internal/infrastructure/http/v1"
	"bookstock/internal/infrastructure/http/v1/middleware"
	"bookstock/internal/infrastructure/storage/postgres"
	"bookstock/pkg/config"
	"bookstock/pkg/logger"
	"bookstock/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Info("starting bookstock server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN())
	poolCfg.MaxConns = int32(cfg.DB.MaxConns)

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := postgres.NewItemRepo(txManager)
	studentRepo := postgres.NewStudentRepo(txManager)
	setupRepo := postgres.NewSetupRepo(txManager)
	stockRepo := postgres.NewStockRepo(txManager)
	purchaseRepo := postgres.NewPurchaseRepo(txManager)
	billRepo := postgres.NewDistributionRepo(txManager)

	// --- Services ---
	// The tx manager, not the bare pool: strict sequences then roll back
	// together with a failed document save.
	numeratorSvc := numerator.New(txManager)

	itemSvc := item.NewService(itemRepo)
	studentSvc := student.NewService(studentRepo)
	setupSvc := setup.NewService(setupRepo, itemSvc, txManager)
	stockSvc := stock.NewService(stockRepo)
	purchaseSvc := purchase.NewService(purchaseRepo, stockSvc, itemSvc, numeratorSvc, txManager)
	billSvc := distribution.NewService(billRepo, setupSvc, stockSvc, itemRepo, numeratorSvc, txManager)
	reportSvc := stockreport.NewService(purchaseSvc, billSvc, setupRepo, itemRepo)

	// --- JWT ---
	var validator middleware.JWTValidator
	if cfg.JWT.Enabled {
		validator = middleware.NewHMACValidator(cfg.JWT.Secret, cfg.JWT.Issuer)
		log.Info("JWT authentication enabled")
	} else {
		log.Warn("JWT authentication disabled, API is open")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:          pool,
		Logger:        log,
		JWTValidator:  validator,
		Items:         itemSvc,
		Students:      studentSvc,
		Setup:         setupSvc,
		Purchases:     purchaseSvc,
		Distributions: billSvc,
		Stock:         stockSvc,
		Reports:       reportSvc,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
