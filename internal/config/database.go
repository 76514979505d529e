package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database. Uniqueness
// invariants live here as constraints so concurrent writers can rely on the
// storage layer instead of application locks.
func createTables(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			hourly_goal DOUBLE PRECISION NOT NULL DEFAULT 0,
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			client VARCHAR(255) NOT NULL DEFAULT '',
			hourly_rate DOUBLE PRECISION NOT NULL,
			currency VARCHAR(3) NOT NULL,
			weekly_budget_minutes INT NOT NULL DEFAULT 0,
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS time_entries (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			project_id VARCHAR(36) NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			entry_date DATE NOT NULL,
			minutes INT NOT NULL CHECK (minutes >= 1 AND minutes <= 1440),
			category VARCHAR(20) NOT NULL,
			intent VARCHAR(10) NOT NULL,
			description TEXT NOT NULL,
			source_text TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cost_entries (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			project_id VARCHAR(36) NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			amount DOUBLE PRECISION NOT NULL,
			currency VARCHAR(3) NOT NULL,
			cost_type VARCHAR(20) NOT NULL,
			cost_date DATE NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS flags (
			id VARCHAR(36) PRIMARY KEY,
			project_id VARCHAR(36) NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			kind VARCHAR(30) NOT NULL,
			trigger_ref TEXT NOT NULL DEFAULT '',
			dismissed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		// One active flag per (project, kind); re-detection updates instead.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_flags_active
			ON flags(project_id, kind) WHERE dismissed_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS ai_actions (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			project_id VARCHAR(36) REFERENCES projects(id) ON DELETE SET NULL,
			type VARCHAR(30) NOT NULL,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			payload JSONB NOT NULL DEFAULT '{}',
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS weekly_reports (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			week_start DATE NOT NULL,
			week_end DATE NOT NULL,
			data JSONB NOT NULL DEFAULT '{}',
			insight TEXT NOT NULL DEFAULT '',
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		// One live report per (owner, week); aggregation upserts on this.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_weekly_reports_live
			ON weekly_reports(owner_id, week_start) WHERE NOT deleted`,
		`CREATE TABLE IF NOT EXISTS timesheets (
			id VARCHAR(36) PRIMARY KEY,
			project_id VARCHAR(36) NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			week_start DATE NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'draft',
			reviewer_email VARCHAR(255) NOT NULL DEFAULT '',
			review_note TEXT NOT NULL DEFAULT '',
			submitted_at TIMESTAMP,
			reviewed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (project_id, week_start)
		)`,
		`CREATE TABLE IF NOT EXISTS share_links (
			id VARCHAR(36) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_type VARCHAR(10) NOT NULL,
			target_id VARCHAR(36) NOT NULL,
			token VARCHAR(64) UNIQUE NOT NULL,
			label VARCHAR(255) NOT NULL DEFAULT '',
			expires_at TIMESTAMP,
			show_time_details BOOLEAN NOT NULL DEFAULT FALSE,
			show_category_breakdown BOOLEAN NOT NULL DEFAULT FALSE,
			show_progress BOOLEAN NOT NULL DEFAULT FALSE,
			show_invoice_download BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_owner_date
			ON time_entries(owner_id, entry_date)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_project_date
			ON time_entries(project_id, entry_date)`,
		`CREATE INDEX IF NOT EXISTS idx_cost_entries_owner_date
			ON cost_entries(owner_id, cost_date)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_actions_owner_status
			ON ai_actions(owner_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_weekly_reports_owner
			ON weekly_reports(owner_id, week_start DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
