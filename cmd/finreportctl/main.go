package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/finreport/finreport/cmd/finreportctl/cli"
	"github.com/finreport/finreport/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	services, err := app.BuildServices(ctx, cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build services: %v\n", err)
		return 1
	}
	defer func() { _ = services.Close() }()

	deps := cli.Deps{
		Reports:    services.Reports,
		Companies:  services.Companies,
		Accounting: services.Accounting,
	}
	if services.Cache != nil {
		deps.Cache = services.Cache
	}

	if err := cli.NewRootCommand(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
