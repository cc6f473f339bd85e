// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/steward/lib/bootstrap"
	"github.com/bureau-foundation/steward/lib/process"
	"github.com/bureau-foundation/steward/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath    string
		courierBinary string
		digestBinary  string
		skipExec      bool
		showVersion   bool
	)

	flag.StringVar(&configPath, "config", "", "courier config path (default $HOME/.config/courier/courier.toml)")
	flag.StringVar(&courierBinary, "courier-binary", "", "path to the courier binary (auto-detected if empty)")
	flag.StringVar(&digestBinary, "digest-binary", "", "path to the steward-digest binary written into the cron job (auto-detected if empty)")
	flag.BoolVar(&skipExec, "skip-exec", false, "run the convergence sequence and exit instead of exec'ing courier")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("steward-init %s\n", version.Info())
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state, err := bootstrap.FromEnvironment()
	if err != nil {
		return err
	}
	defer state.Close()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	engine := &bootstrap.Engine{
		State:        state,
		HomeDir:      homeDir,
		ConfigPath:   configPath,
		DigestBinary: digestBinary,
		Logger:       logger,
	}
	receipt, err := engine.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("bootstrap complete",
		"steps", len(receipt.Steps),
		"elapsed", receipt.FinishedAt.Sub(receipt.StartedAt).String(),
	)

	if skipExec {
		logger.Info("skipping courier exec (--skip-exec)")
		return nil
	}

	if courierBinary == "" {
		courierBinary = findCourierBinary(logger)
	}
	if err := validateBinary(courierBinary, "courier"); err != nil {
		return fmt.Errorf("%w\n  Install courier or set --courier-binary to its path", err)
	}

	return execCourier(courierBinary, flag.Args(), logger)
}
