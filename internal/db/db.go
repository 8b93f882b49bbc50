// Package db provides PostgreSQL storage for scraped and processed jobs.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// schema creates all tables. Side tables cascade-delete from jobs_meta so a
// reprocessed job can be rewritten wholesale inside one transaction.
const schema = `
CREATE TABLE IF NOT EXISTS jobs_meta (
	id             UUID PRIMARY KEY,
	canonical_url  TEXT NOT NULL UNIQUE,
	source         TEXT NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	company        TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	job_type       TEXT NOT NULL DEFAULT '',
	salary_snippet TEXT NOT NULL DEFAULT '',
	deadline       TEXT NOT NULL DEFAULT '',
	search_terms   TEXT[] NOT NULL DEFAULT '{}',
	description    TEXT NOT NULL DEFAULT '',
	full_text      TEXT NOT NULL DEFAULT '',
	quality_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	scraped_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	processed_at   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS processing_status (
	job_id        UUID PRIMARY KEY REFERENCES jobs_meta(id) ON DELETE CASCADE,
	status        TEXT NOT NULL DEFAULT 'pending',
	error_message TEXT NOT NULL DEFAULT '',
	retry_count   INT NOT NULL DEFAULT 0,
	last_attempt  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS job_classification (
	job_id           UUID PRIMARY KEY REFERENCES jobs_meta(id) ON DELETE CASCADE,
	job_type         TEXT NOT NULL DEFAULT '',
	experience_level TEXT NOT NULL DEFAULT '',
	industry         TEXT NOT NULL DEFAULT '',
	role_level       TEXT NOT NULL DEFAULT '',
	growth_potential TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS location_work (
	job_id          UUID PRIMARY KEY REFERENCES jobs_meta(id) ON DELETE CASCADE,
	location        TEXT NOT NULL DEFAULT '',
	remote_friendly BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS skills_taxonomy (
	job_id UUID NOT NULL REFERENCES jobs_meta(id) ON DELETE CASCADE,
	skill  TEXT NOT NULL,
	origin TEXT NOT NULL,
	PRIMARY KEY (job_id, skill, origin)
);

CREATE TABLE IF NOT EXISTS certifications (
	job_id UUID NOT NULL REFERENCES jobs_meta(id) ON DELETE CASCADE,
	name   TEXT NOT NULL,
	PRIMARY KEY (job_id, name)
);

CREATE TABLE IF NOT EXISTS career_progression (
	job_id             UUID NOT NULL REFERENCES jobs_meta(id) ON DELETE CASCADE,
	position           INT NOT NULL,
	responsibility     TEXT NOT NULL DEFAULT '',
	experience_summary TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (job_id, position)
);

CREATE TABLE IF NOT EXISTS compensation (
	job_id     UUID PRIMARY KEY REFERENCES jobs_meta(id) ON DELETE CASCADE,
	salary_min DOUBLE PRECISION,
	salary_max DOUBLE PRECISION,
	amount     DOUBLE PRECISION,
	currency   TEXT NOT NULL DEFAULT '',
	period     TEXT NOT NULL DEFAULT '',
	raw_text   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS education_requirements (
	job_id                      UUID NOT NULL REFERENCES jobs_meta(id) ON DELETE CASCADE,
	position                    INT NOT NULL,
	level                       TEXT NOT NULL,
	field                       TEXT NOT NULL DEFAULT '',
	requirement_type            TEXT NOT NULL,
	years_experience_substitute INT,
	confidence_score            DOUBLE PRECISION NOT NULL DEFAULT 0,
	raw_text_analyzed           TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (job_id, position)
);

CREATE INDEX IF NOT EXISTS idx_processing_status_status ON processing_status(status);
CREATE INDEX IF NOT EXISTS idx_jobs_meta_source ON jobs_meta(source);
`

// EnsureSchema creates all tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
