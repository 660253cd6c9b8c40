package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/berling9700/budget-tracker/internal/blobstore"
	"github.com/berling9700/budget-tracker/internal/config"
	"github.com/berling9700/budget-tracker/internal/database"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/store"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|status> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			logger.Get().Warnf("database close error: %v", err)
		}
	}()

	blobs := blobstore.NewGormStore(dbManager.DB())

	switch command := os.Args[1]; command {
	case "up":
		if err := dbManager.Migrate(); err != nil {
			return err
		}
		// Loading rewrites a legacy layout into the current one.
		st := store.New(blobs)
		if err := st.Load(); err != nil {
			return fmt.Errorf("state migration failed: %w", err)
		}
		snap := st.Snapshot()
		logger.Get().Infof("State ready: %d budget(s), %d asset(s), %d liabilities",
			len(snap.Budgets), len(snap.Assets), len(snap.Liabilities))

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := dbManager.MigrateDown(steps); err != nil {
			return err
		}

	case "status":
		version, dirty, err := dbManager.MigrationVersion()
		if err != nil {
			return err
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
		if version == 0 {
			return nil
		}
		keys, err := blobs.Keys()
		if err != nil {
			return err
		}
		logger.Get().Infof("Stored keys: %v", keys)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, or status)", command)
	}

	return nil
}
