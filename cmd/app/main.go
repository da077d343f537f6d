package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnshBhanushali/Healytics/pkg/logger"
)

func main() {
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp(log)
	if err != nil {
		log.Error("application init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
