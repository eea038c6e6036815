package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"idoljournal/internal/config"
	"idoljournal/internal/database"
	"idoljournal/internal/logger"
	"idoljournal/internal/server"
)

const usage = "usage: migrate <up|down [N]|version|backfill>"

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig := database.NewConfig(cfg)

	if args[0] == "backfill" {
		return backfill(dbConfig, cfg.Location)
	}

	m, err := database.NewMigrator(dbConfig.MigrationsPath, dbConfig.URL())
	if err != nil {
		return err
	}
	defer database.CloseMigrator(m)

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (%s)", args[0], usage)
	}

	return nil
}

// backfill links legacy expenses to artists by name.
func backfill(dbConfig *database.Config, loc *time.Location) error {
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return err
	}
	defer func() { _ = dbManager.Close() }()

	svc := server.NewServices(dbManager.DB(), loc)
	linked, err := svc.Migration.BackfillArtistIDs(context.Background())
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	logger.Get().Infof("Linked %d expense(s) to their artist", linked)
	return nil
}
