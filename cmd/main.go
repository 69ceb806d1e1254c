package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katiamach/weather-dashboard/internal/api"
	"github.com/katiamach/weather-dashboard/internal/config"
	"github.com/katiamach/weather-dashboard/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(fmt.Errorf("failed to load config: %v", err))
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = api.RunAPI(ctx, cfg)
	if err != nil {
		logger.Fatal(fmt.Errorf("failed to run weather dashboard: %v", err))
	}
}
