package main

import (
	"context"
	"fmt"
	"time"

	"issuetracker/config"
	"issuetracker/database"
	"issuetracker/logger"
)

func main() {
	cfg, err := config.Load()
	lg := logger.New(cfg)
	if err != nil {
		lg.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if path, ok := database.SQLitePath(cfg.DatabaseURL); ok {
		store, err := database.NewSQLiteStore(path)
		if err != nil {
			lg.Fatal().Err(err).Msg("Failed to open sqlite database")
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			lg.Fatal().Err(err).Msg("Failed to apply schema")
		}
		fmt.Println("\nSQLite schema is up to date!")
		return
	}

	pc := database.DefaultPoolConfig()
	pc.MaxConns, pc.MinConns = 1, 0

	db, err := database.Connect(ctx, cfg.DatabaseURL, pc)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to connect")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		lg.Fatal().Err(err).Msg("Migration failed")
	}

	fmt.Println("\nAll migrations completed!")
}
