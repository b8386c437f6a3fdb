// cmd/verite/database.go
package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Database tables
const (
	createSubmissionsTable = `
	CREATE TABLE IF NOT EXISTS submissions (
		id              SERIAL PRIMARY KEY,
		submitter_name  TEXT NOT NULL DEFAULT '',
		submitter_email TEXT NOT NULL DEFAULT '',
		claim_text      TEXT NOT NULL DEFAULT '',
		context         TEXT NOT NULL DEFAULT '',
		url_submitted   TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'new',
		user_notified   BOOLEAN NOT NULL DEFAULT FALSE,
		date_submitted  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createFactChecksTable = `
	CREATE TABLE IF NOT EXISTS fact_checks (
		id            SERIAL PRIMARY KEY,
		title         TEXT NOT NULL,
		submission_id INTEGER REFERENCES submissions(id) ON DELETE SET NULL,
		url_submitted TEXT NOT NULL DEFAULT '',
		verdict       TEXT NOT NULL,
		summary       TEXT NOT NULL DEFAULT '',
		date_created  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		date_updated  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createPositiveContentTable = `
	CREATE TABLE IF NOT EXISTS positive_content (
		id           SERIAL PRIMARY KEY,
		title        TEXT NOT NULL,
		content_type TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		image_url    TEXT NOT NULL DEFAULT '',
		source_url   TEXT NOT NULL DEFAULT '',
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		date_created TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		date_updated TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createAnalysesTable = `
	CREATE TABLE IF NOT EXISTS ai_analyses (
		id                SERIAL PRIMARY KEY,
		submission_id     INTEGER NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		claim_extracted   TEXT NOT NULL DEFAULT '',
		confidence_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
		suggested_verdict TEXT NOT NULL DEFAULT 'unverifiable',
		evidence_sources  JSONB NOT NULL DEFAULT '[]',
		similar_claims    JSONB NOT NULL DEFAULT '[]',
		processing_time   DOUBLE PRECISION NOT NULL DEFAULT 0,
		ai_model_used     TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createAnalysesIndex = `
	CREATE INDEX IF NOT EXISTS idx_ai_analyses_submission
		ON ai_analyses (submission_id, created_at DESC)`
)

// OpenDatabase connects to Postgres and ensures the schema exists
func OpenDatabase(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, NewStoreError(ErrStoreConnection, "failed to connect to database", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary database tables
func initializeSchema(db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	queries := []string{
		createSubmissionsTable,
		createFactChecksTable,
		createPositiveContentTable,
		createAnalysesTable,
		createAnalysesIndex,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return NewStoreError(ErrStoreMigration, "failed to begin schema transaction", err)
	}

	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			tx.Rollback()
			return NewStoreError(ErrStoreMigration, fmt.Sprintf("failed to execute schema query: %v", err), err)
		}
	}

	return tx.Commit()
}
