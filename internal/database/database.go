package database

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"sownmark/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type MethodsDB interface {
	CloseDB() error
	HealthCheck() error
	GetDB() *DB
}

type DB struct {
	*sqlx.DB
}

// DSN returns the lib/pq keyword/value connection string.
func DSN(cfg config.DB) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DbHOST,
		cfg.DbPORT,
		cfg.DbUSER,
		cfg.DbPASSWORD,
		cfg.DbNAME,
		cfg.DbSSLMODE,
	)
}

// MigrationURL returns the postgres:// URL form golang-migrate expects.
func MigrationURL(cfg config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DbUSER, cfg.DbPASSWORD),
		Host:     cfg.DbHOST + ":" + cfg.DbPORT,
		Path:     "/" + cfg.DbNAME,
		RawQuery: url.Values{"sslmode": []string{cfg.DbSSLMODE}}.Encode(),
	}
	return u.String()
}

func ConnectDB(cfg config.DB, log *logrus.Logger) (*DB, error) {
	log.WithFields(logrus.Fields{"host": cfg.DbHOST, "dbname": cfg.DbNAME}).Info("connecting to database")

	db, err := sqlx.Connect("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	dbStruct := &DB{db}

	if err := dbStruct.HealthCheck(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	log.Info("connected to PostgreSQL")
	return dbStruct, nil
}

// Migrate applies every pending embedded migration. It opens its own
// connection so closing the migrator never touches the serving pool.
func Migrate(cfg config.DB, log *logrus.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(cfg))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.WithFields(logrus.Fields{"source_error": srcErr, "db_error": dbErr}).Warn("failed to close migrator")
		}
	}()

	start := time.Now()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("migrations: schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.WithFields(logrus.Fields{
		"version":  version,
		"dirty":    dirty,
		"duration": time.Since(start).String(),
	}).Info("migrations applied")
	return nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.Ping()
}

func (db *DB) GetDB() *DB {
	return db
}
