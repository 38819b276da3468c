// Package main runs the in-memory FloraBase API (internal/apitest) on a
// local port, so the terminal client can be used without the real backend.
//
//	DEVAPI_JWT_SECRET=$(openssl rand -hex 32) DEVAPI_ADMIN_PASSWORD=secret go run ./cmd/devapi
//	FLORABASE_API_URL=http://localhost:5000/api go run ./cmd/florabase flowers
//
// Data lives only as long as the process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AshimStha/FloraBase-Frontend/internal/apitest"
	"github.com/AshimStha/FloraBase-Frontend/internal/config"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

func main() {
	// === 1. CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// === 2. LOGGING ===
	// The dev server is chatty on purpose: every request is logged at Info.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if cfg.DevAPI.JWTSecret == "" {
		logger.Error("DEVAPI_JWT_SECRET is required (at least 16 characters)")
		os.Exit(1)
	}

	// === 3. SERVER ===
	srv, err := apitest.New(apitest.Config{JWTSecret: cfg.DevAPI.JWTSecret}, logger)
	if err != nil {
		logger.Error("failed to create devapi", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. SEED ===
	if cfg.DevAPI.AdminPassword != "" {
		admin, err := srv.CreateUser(model.User{
			Firstname: "Admin",
			Email:     cfg.DevAPI.AdminEmail,
			IsAdmin:   true,
		}, cfg.DevAPI.AdminPassword)
		if err != nil {
			logger.Error("failed to seed admin", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("seeded admin account", slog.String("email", admin.Email))
	}

	// === 5. RUN UNTIL SIGINT/SIGTERM ===
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.DevAPI.Port)); err != nil {
		logger.Error("devapi error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
