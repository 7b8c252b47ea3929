package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZertGraf/roster-bot/internal/bootstrap"
)

const version = "0.1.0"

func main() {
	// create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// connect storage, start the http server and the bot loop
	if err = app.Init(ctx); err != nil {
		app.Logger.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	setupGracefulShutdown(ctx, cancel, app)

	app.Logger.Info("roster bot started",
		"version", version,
		"environment", app.Config.Environment,
		"database", app.Config.DatabaseDriver,
		"transport", app.Config.ChatTransport,
		"log_level", app.Config.LogLevel)

	// wait for a shutdown signal, or for the bot to run out of input
	select {
	case <-ctx.Done():
		app.Logger.Info("received shutdown signal, initiating graceful shutdown")
	case <-app.Done():
		app.Logger.Info("bot loop finished, shutting down")
	}

	// graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err = app.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("application shutdown failed", "error", err)
		os.Exit(1)
	}

	app.Logger.Info("service stopped gracefully")
}

// setupGracefulShutdown configures signal handling for clean shutdown
func setupGracefulShutdown(ctx context.Context, cancel context.CancelFunc, app *bootstrap.Application) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			app.Logger.Info("received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
}
