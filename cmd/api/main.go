package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/levy/internal/app"
	"github.com/MrJamesThe3rd/levy/internal/config"
	"github.com/MrJamesThe3rd/levy/internal/database"
	levyHttp "github.com/MrJamesThe3rd/levy/internal/http"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
	assessmentHandler "github.com/MrJamesThe3rd/levy/internal/http/assessment"
	auditHandler "github.com/MrJamesThe3rd/levy/internal/http/audit"
	catalogHandler "github.com/MrJamesThe3rd/levy/internal/http/catalog"
	feedHandler "github.com/MrJamesThe3rd/levy/internal/http/feed"
	matchingHandler "github.com/MrJamesThe3rd/levy/internal/http/matching"
	noticeHandler "github.com/MrJamesThe3rd/levy/internal/http/notice"
	paymentHandler "github.com/MrJamesThe3rd/levy/internal/http/payment"
	statementHandler "github.com/MrJamesThe3rd/levy/internal/http/statement"
	webhookHandler "github.com/MrJamesThe3rd/levy/internal/http/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to close resources", "error", err)
		}
	}()

	if cfg.DB.Migrate {
		if err := database.Migrate(a.DB); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	if err := a.Storage.EnsureBucket(ctx); err != nil {
		slog.Warn("object storage unavailable", "bucket", cfg.Storage.Bucket, "error", err)
	}

	a.Start(ctx)

	router := levyHttp.New(levyHttp.Handlers{
		Catalog:    catalogHandler.NewHandler(a.Catalog, a.Calculator),
		Assessment: assessmentHandler.NewHandler(a.Assessments),
		Notice:     noticeHandler.NewHandler(a.Notices),
		Payment:    paymentHandler.NewHandler(a.Payments, a.Storage),
		Webhook:    webhookHandler.NewHandler(a.Payments, cfg.Gateway.PaystackSecret),
		Statement:  statementHandler.NewHandler(a.Statements),
		Matching:   matchingHandler.NewHandler(a.Matching),
		Audit:      auditHandler.NewHandler(a.Audit),
		Feed:       feedHandler.NewHandler(a.Hub),
	}, levyHttp.Options{
		Auth:           api.NewAuthenticator(cfg.Auth.JWTSecret),
		Metrics:        a.Metrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// No write timeout: the event stream is long-lived.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
