// Package main is the FloraBase terminal client.
//
// MAIN PACKAGE:
// main only wires dependencies and hands the command line to internal/cli:
//
//  1. Read configuration (environment, optional .env)
//  2. Build the logger at the configured level
//  3. Open the session database (the token survives between commands)
//  4. Build the session store, then the HTTP client that reads it
//  5. Run one command
//
// Logs go to stderr so they never mix with command output.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/AshimStha/FloraBase-Frontend/internal/api"
	"github.com/AshimStha/FloraBase-Frontend/internal/cli"
	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/config"
	"github.com/AshimStha/FloraBase-Frontend/internal/session"
	"github.com/AshimStha/FloraBase-Frontend/internal/storage/sqlite"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// The session database lives under the home directory by default;
	// create its directory on first use (like `mkdir -p`).
	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o700); err != nil {
		logger.Error("failed to create storage directory",
			slog.String("path", cfg.StoragePath),
			slog.String("error", err.Error()),
		)
		return 1
	}
	db, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		logger.Error("failed to open session storage", slog.String("error", err.Error()))
		return 1
	}
	defer db.Close()

	sess := session.New(db, logger)
	c, err := client.New(cfg.APIURL, logger,
		client.WithCredentials(sess),
		client.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		logger.Error("failed to create API client", slog.String("error", err.Error()))
		return 1
	}

	app := cli.New(cli.Deps{
		Session:    sess,
		Backend:    api.New(c),
		Logger:     logger,
		Debounce:   cfg.Debounce,
		MapsAPIKey: cfg.MapsAPIKey,
		In:         os.Stdin,
		Out:        os.Stdout,
	})

	// Ctrl+C cancels in-flight requests instead of killing mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch err := app.Run(ctx, os.Args[1:]); {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrUsage):
		return 2
	case errors.Is(err, cli.ErrReported):
		return 1
	default:
		fmt.Fprintln(os.Stderr, "florabase:", err)
		return 1
	}
}
