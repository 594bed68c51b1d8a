package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/swaglabs/swagcheck/internal/config"
	_ "github.com/lib/pq"
)

// Connect opens and verifies a connection to the results database
func Connect(pgConfig *config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", pgConfig.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A run records from at most a handful of scenario workers at a time
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
