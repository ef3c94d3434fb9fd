package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swisscoin/swisscoin/internal/auth"
	"github.com/swisscoin/swisscoin/internal/config"
	"github.com/swisscoin/swisscoin/internal/handler"
	"github.com/swisscoin/swisscoin/internal/metrics"
	"github.com/swisscoin/swisscoin/internal/service"
	"github.com/swisscoin/swisscoin/internal/storage/sqlite"
	"github.com/swisscoin/swisscoin/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	m := metrics.New()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	expenseSvc := service.NewExpenseService(store, m)
	settlementSvc := service.NewSettlementService(store, expenseSvc, m)
	subscriptionSvc := service.NewSubscriptionService(store, m, cfg.DueWindow)
	authSvc := service.NewAuthService(authenticator, jwtManager)

	router := handler.NewRouter(handler.Services{
		Expenses:      expenseSvc,
		Settlements:   settlementSvc,
		Subscriptions: subscriptionSvc,
		Auth:          authSvc,
		Store:         store,
		JWTManager:    jwtManager,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
