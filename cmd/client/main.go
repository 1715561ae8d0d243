package main

import (
	"Inventory/internal/cli/commands"
	"Inventory/internal/config"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// requestTimeout ограничивает одну команду: загрузка фото до PHOTO_MAX_MB укладывается с запасом.
const requestTimeout = 2 * time.Minute

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		fmt.Printf("Inventory CLI\nVersion: %s\nBuild date: %s\nServer: %s\n", version, buildDate, cfg.ServerURL)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, done := context.WithTimeout(ctx, requestTimeout)
	defer done()

	code := commands.Dispatch(ctx, cfg, flag.Args())
	if code != 0 {
		done()
		cancel()
		os.Exit(code)
	}
}
