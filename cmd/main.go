// @title Todo App Backend API
// @version 1.0
// @description Multi-user to-do list API with per-session token authentication

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "TODOAPP_BACK-END/docs" // This is required for swagger
	"TODOAPP_BACK-END/internal/app"
	"TODOAPP_BACK-END/internal/config"
	"TODOAPP_BACK-END/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format).With("service", cfg.Telemetry.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, w := range cfg.Warnings() {
		logger.Warn(ctx, w)
	}

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}
