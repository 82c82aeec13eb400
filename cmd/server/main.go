package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"kortex-blueprint/internal/api"
	"kortex-blueprint/internal/config"
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	server, err := api.NewServer(context.Background(), cfg.Server)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	logrus.Infof("starting blueprint backend on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
