// Package main runs donorbridge as a standalone HTTP server, for local
// development and deployments outside Lambda.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/peteski22/donorbridge/internal/accounting"
	"github.com/peteski22/donorbridge/internal/bridge"
	"github.com/peteski22/donorbridge/internal/config"
	"github.com/peteski22/donorbridge/internal/donorbox"
	"github.com/peteski22/donorbridge/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// .env is a development convenience; absence is fine.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded environment from .env file")
	}

	cfg, err := loadSettings()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tokenStore, err := newTokenStore(cfg)
	if err != nil {
		return fmt.Errorf("creating token store: %w", err)
	}

	var opts []accounting.Option
	if cfg.Accounting.TokenURL != "" {
		opts = append(opts, accounting.WithTokenURL(cfg.Accounting.TokenURL))
	}

	client, err := accounting.NewClient(accounting.Config{
		BaseURL:      cfg.Accounting.APIBaseURL,
		ClientID:     cfg.Accounting.ClientID,
		ClientSecret: cfg.Accounting.ClientSecret,
		CompanyID:    cfg.Invoice.CompanyID,
		TokenStore:   tokenStore,
	}, opts...)
	if err != nil {
		return fmt.Errorf("creating accounting client: %w", err)
	}

	svc, err := bridge.New(bridge.Config{
		Client:          client,
		InvoiceDefaults: cfg.Invoice,
		Logger:          logger,
		WebhookSecret:   cfg.Donorbox.WebhookSecret,
	})
	if err != nil {
		return fmt.Errorf("creating bridge service: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/webhooks/donorbox", webhookHandler(svc))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("starting server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// loadSettings prefers the local config file when present, falling back to
// environment variables.
func loadSettings() (*config.Settings, error) {
	if !config.LocalConfigExists() {
		return config.Load()
	}

	local, err := config.LoadLocal()
	if err != nil {
		return nil, err
	}

	return &config.Settings{
		Accounting: local.Accounting,
		Donorbox:   local.Donorbox,
		Invoice:    local.Invoice,
		Server:     local.Server,
	}, nil
}

// newTokenStore uses the directly-supplied refresh token when configured,
// else falls back to the local token file.
func newTokenStore(cfg *config.Settings) (accounting.TokenStore, error) {
	if cfg.Accounting.RefreshToken != "" {
		return storage.NewStaticTokenStore(cfg.Accounting.RefreshToken)
	}

	tokenPath, err := config.TokenFilePath()
	if err != nil {
		return nil, err
	}
	return storage.NewFileTokenStore(tokenPath)
}

// webhookHandler adapts an HTTP request to the bridge's transport-neutral
// request and back.
func webhookHandler(svc *bridge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "cannot read request body", http.StatusBadRequest)
			return
		}

		resp := svc.HandleWebhook(r.Context(), bridge.Request{
			Body:      body,
			Method:    r.Method,
			Signature: r.Header.Get(donorbox.SignatureHeader),
		})

		w.Header().Set("Content-Type", resp.ContentType)
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	}
}
