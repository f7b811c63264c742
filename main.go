// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"dormitory-backend/cmd"
	"dormitory-backend/internal/data/repository"
	"dormitory-backend/internal/wire"
	"dormitory-backend/pkg/database"
	"dormitory-backend/pkg/metrics"
	"dormitory-backend/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if config.Database.Migrate {
		if err := database.Migrate(database.ConnString(config.Database)); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema is up to date")
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	m := metrics.New(prometheus.DefaultRegisterer, "dormitory")

	// Wire all dependencies
	app := wire.Wiring(repos, config, m, prometheus.DefaultGatherer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
