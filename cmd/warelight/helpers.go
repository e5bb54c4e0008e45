// Package main contains the warelight CLI commands.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/warelight/warelight/internal/config"
	"github.com/warelight/warelight/internal/service"
	"github.com/warelight/warelight/internal/storage"
)

// initStorage opens the database and applies pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
