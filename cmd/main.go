package main

import (
	"context"
	"os"
	"os/signal"
	"recipe-ai-backend/cmd/config"
	"recipe-ai-backend/internal/utils"
	"recipe-ai-backend/internal/utils/logger"
	"syscall"
	"time"
)

func main() {
	utils.LoadConfig()

	log, err := logger.New(utils.GetConfig("APP_ENV"), utils.GetConfig("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	deps, err := config.NewDependencies(log)
	if err != nil {
		log.Fatal("failed to build dependencies", "error", err)
	}

	app, err := config.NewApp(deps)
	if err != nil {
		log.Fatal("failed to create app", "error", err)
	}

	go func() {
		addr := ":" + utils.GetConfig("PORT")
		log.Info("server starting", "addr", addr, "version", config.Version)
		if err := app.Listen(addr); err != nil {
			log.Fatal("server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
