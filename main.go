// @title Form Builder API
// @version 1.0
// @description Backend for building forms with cloze, categorize and comprehension questions and collecting scored responses.

// @host localhost:8080
// @BasePath /

package main

import (
	"context"
	"flag"
	"log"

	"github.com/Saravana-31/Form-Builder/internal/app"
	"github.com/Saravana-31/Form-Builder/internal/config"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	migrate := flag.Bool("migrate", false, "run migrations on startup even in release mode")
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		application.Close(context.Background())
		logger.Log.Info("Database migration completed, exiting")
		return
	}

	application.Run()
}
