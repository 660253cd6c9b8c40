package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/migrations"
)

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	driver string
	pgURL  string
}

// NewManager opens the configured database.
func NewManager(config *Config) (*Manager, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(config.SQLitePath)
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	m, err := newManager(db, db.Dialector.Name())
	if err != nil {
		return nil, err
	}
	if m.driver == DriverPostgres {
		m.pgURL = config.MigrationURL()
	}
	return m, nil
}

// NewManagerFromDB wraps an already opened connection. Only SQLite
// connections can be migrated this way.
func NewManagerFromDB(db *gorm.DB) *Manager {
	return &Manager{db: db, driver: db.Dialector.Name()}
}

func newManager(db *gorm.DB, driver string) (*Manager, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if driver == DriverPostgres {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return &Manager{db: db, driver: driver}, nil
}

// migrator builds a migrate instance over the embedded SQL files. The
// returned release func must be called when done. Postgres gets its own
// connection from the migration URL; SQLite shares the pool, which must
// stay open, so only the source is released.
func (m *Manager) migrator() (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	switch m.driver {
	case DriverPostgres:
		if m.pgURL == "" {
			_ = src.Close()
			return nil, nil, errors.New("no migration URL for postgres connection")
		}
		mig, err := migrate.NewWithSourceInstance("iofs", src, m.pgURL)
		if err != nil {
			_ = src.Close()
			return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return mig, func() {
			srcErr, dbErr := mig.Close()
			if srcErr != nil {
				logger.Get().Warnf("migrate source close error: %v", srcErr)
			}
			if dbErr != nil {
				logger.Get().Warnf("migrate database close error: %v", dbErr)
			}
		}, nil

	case DriverSQLite:
		sqlDB, err := m.db.DB()
		if err != nil {
			_ = src.Close()
			return nil, nil, fmt.Errorf("failed to get underlying DB: %w", err)
		}
		driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
		if err != nil {
			_ = src.Close()
			return nil, nil, fmt.Errorf("failed to create migrate driver: %w", err)
		}
		mig, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
		if err != nil {
			_ = src.Close()
			return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return mig, func() {
			if err := src.Close(); err != nil {
				logger.Get().Warnf("migrate source close error: %v", err)
			}
		}, nil

	default:
		_ = src.Close()
		return nil, nil, fmt.Errorf("unsupported database driver %q", m.driver)
	}
}

// Migrate applies every pending migration.
func (m *Manager) Migrate() error {
	logger.Get().Info("Running database migrations...")

	mig, release, err := m.migrator()
	if err != nil {
		return err
	}
	defer release()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// MigrateDown rolls back the given number of migrations.
func (m *Manager) MigrateDown(steps int) error {
	if steps < 1 {
		return fmt.Errorf("invalid step count %d", steps)
	}
	mig, release, err := m.migrator()
	if err != nil {
		return err
	}
	defer release()

	if err := mig.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	logger.Get().Infof("Rolled back %d migration(s)", steps)
	return nil
}

// MigrationVersion reports the applied schema version. A database with no
// migrations applied reports version 0.
func (m *Manager) MigrationVersion() (uint, bool, error) {
	mig, release, err := m.migrator()
	if err != nil {
		return 0, false, err
	}
	defer release()

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get version: %w", err)
	}
	return version, dirty, nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
