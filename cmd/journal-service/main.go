package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/app"
	"github.com/Wandor/journaling-node/internal/config"
	"github.com/Wandor/journaling-node/internal/utils/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		log.Fatal("Application exited with error", zap.Error(err))
	}
	log.Info("Shutdown complete")
}
