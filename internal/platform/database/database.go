// Package database opens the shared PostgreSQL handle and applies the schema.
// Schema application is an explicit startup step, not a migration framework:
// every statement is idempotent.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL DEFAULT '',
		profile_picture TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		password_hash BYTEA,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email))`,
	`CREATE INDEX IF NOT EXISTS users_name_idx ON users (last_name, first_name)`,

	`CREATE TABLE IF NOT EXISTS credential_records (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		credential_type TEXT NOT NULL DEFAULT '',
		number TEXT NOT NULL,
		state TEXT NOT NULL,
		amount DOUBLE PRECISION,
		issued_date TIMESTAMPTZ,
		expires_date TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		assigned_to UUID NOT NULL,
		created_by UUID NOT NULL,
		attachments TEXT[] NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMPTZ NOT NULL,
		reviewed_at TIMESTAMPTZ,
		reviewed_by UUID,
		review_notes TEXT NOT NULL DEFAULT '',
		document_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS credential_records_assignee_state_idx
		ON credential_records (assigned_to, state)`,
	`CREATE INDEX IF NOT EXISTS credential_records_expires_idx
		ON credential_records (expires_date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS credential_records_number_state_key
		ON credential_records (kind, number, lower(state))`,

	`CREATE TABLE IF NOT EXISTS state_rules (
		id UUID PRIMARY KEY,
		rule_id TEXT NOT NULL,
		state TEXT NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT NOT NULL DEFAULT '',
		authority_level TEXT NOT NULL,
		confidence TEXT NOT NULL,
		rule_text TEXT NOT NULL,
		sources TEXT[] NOT NULL DEFAULT '{}',
		version TEXT NOT NULL DEFAULT '1.0',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS state_rules_rule_id_key ON state_rules (rule_id)`,
	`CREATE INDEX IF NOT EXISTS state_rules_state_idx ON state_rules (state)`,

	`CREATE TABLE IF NOT EXISTS compliance_alerts (
		id UUID PRIMARY KEY,
		state TEXT NOT NULL,
		alert_type TEXT NOT NULL,
		message TEXT NOT NULL,
		priority TEXT NOT NULL,
		alert_date TIMESTAMPTZ NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		rule_id TEXT NOT NULL DEFAULT '',
		action_required BOOLEAN NOT NULL DEFAULT FALSE,
		deadline TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS compliance_alerts_state_idx ON compliance_alerts (state)`,
}
