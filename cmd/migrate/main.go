package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bearister/auth-service/internal/repository"
	"github.com/bearister/auth-service/pkg/config"
	"github.com/bearister/auth-service/pkg/database"
	"github.com/bearister/auth-service/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Open(context.Background(), cfg.DatabaseDriver, cfg.DatabaseURL, cfg.AppEnv)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := repository.RunMigrations(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}
