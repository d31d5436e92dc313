package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lockbox-mobile/lockbox/internal/cli"
	"github.com/lockbox-mobile/lockbox/internal/config"
	"github.com/lockbox-mobile/lockbox/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	log := logging.NewDefault(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
