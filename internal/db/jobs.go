package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

// InsertStubs inserts listing stubs, ignoring URLs that are already stored.
// It returns the number of newly inserted jobs, so re-scraping the same
// listings is idempotent. Each stub's jobs_meta and processing_status rows
// are written in one transaction so a job can never exist without a status.
func (s *Store) InsertStubs(ctx context.Context, stubs []scrape.ListingStub) (int, error) {
	inserted := 0
	for _, stub := range stubs {
		fresh, err := s.insertStub(ctx, stub)
		if err != nil {
			return inserted, err
		}
		if fresh {
			inserted++
		}
	}
	return inserted, nil
}

func (s *Store) insertStub(ctx context.Context, stub scrape.ListingStub) (bool, error) {
	// search_terms is NOT NULL; a nil slice would encode as NULL.
	searchTerms := stub.SearchTerms
	if searchTerms == nil {
		searchTerms = []string{}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO jobs_meta (id, canonical_url, source, title, company, location,
		                        job_type, salary_snippet, deadline, search_terms, scraped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (canonical_url) DO NOTHING`,
		stub.ID, stub.CanonicalURL, stub.Source, stub.Title, stub.Company, stub.Location,
		stub.JobType, stub.SalarySnippet, stub.Deadline, searchTerms, stub.ScrapedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert stub %s: %w", stub.CanonicalURL, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO processing_status (job_id, status) VALUES ($1, $2)`,
		stub.ID, StatusPending,
	); err != nil {
		return false, fmt.Errorf("failed to insert status for %s: %w", stub.CanonicalURL, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit stub %s: %w", stub.CanonicalURL, err)
	}
	return true, nil
}

// SelectUnprocessedOrFailed returns stubs that are pending, or errored with
// fewer than maxRetries attempts, in stable id order.
func (s *Store) SelectUnprocessedOrFailed(ctx context.Context, maxRetries, limit int) ([]scrape.ListingStub, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT j.id, j.canonical_url, j.source, j.title, j.company, j.location,
		        j.job_type, j.salary_snippet, j.deadline, j.search_terms, j.scraped_at
		 FROM jobs_meta j
		 JOIN processing_status ps ON ps.job_id = j.id
		 WHERE ps.status = $1 OR (ps.status = $2 AND ps.retry_count < $3)
		 ORDER BY j.id
		 LIMIT $4`,
		StatusPending, StatusError, maxRetries, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select unprocessed jobs: %w", err)
	}
	defer rows.Close()

	var stubs []scrape.ListingStub
	for rows.Next() {
		var stub scrape.ListingStub
		if err := rows.Scan(&stub.ID, &stub.CanonicalURL, &stub.Source, &stub.Title,
			&stub.Company, &stub.Location, &stub.JobType, &stub.SalarySnippet,
			&stub.Deadline, &stub.SearchTerms, &stub.ScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stub: %w", err)
		}
		stubs = append(stubs, stub)
	}
	return stubs, rows.Err()
}

// GetProcessingState retrieves the processing_status row for a job URL.
// Returns nil when the job is unknown.
func (s *Store) GetProcessingState(ctx context.Context, canonicalURL string) (*ProcessingState, error) {
	var state ProcessingState
	err := s.pool.QueryRow(ctx,
		`SELECT ps.job_id, ps.status, ps.error_message, ps.retry_count, ps.last_attempt
		 FROM processing_status ps
		 JOIN jobs_meta j ON j.id = ps.job_id
		 WHERE j.canonical_url = $1`,
		canonicalURL,
	).Scan(&state.JobID, &state.Status, &state.ErrorMessage, &state.RetryCount, &state.LastAttempt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get processing state: %w", err)
	}
	return &state, nil
}

// MarkFailed records a processing failure and increments the retry count.
func (s *Store) MarkFailed(ctx context.Context, canonicalURL, errMsg string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE processing_status ps
		 SET status = $1, error_message = $2, retry_count = ps.retry_count + 1, last_attempt = NOW()
		 FROM jobs_meta j
		 WHERE ps.job_id = j.id AND j.canonical_url = $3`,
		StatusError, errMsg, canonicalURL,
	)
	if err != nil {
		return fmt.Errorf("failed to mark %s as failed: %w", canonicalURL, err)
	}
	return nil
}

// UpsertProcessed writes a fully processed record in a single transaction:
// jobs_meta is updated, all dependent rows are replaced, and the status row
// is set to completed. On any failure the transaction rolls back, the status
// is recorded as error with the retry count incremented, and the original
// error is returned.
func (s *Store) UpsertProcessed(ctx context.Context, record *Record) error {
	if err := s.upsertProcessedTx(ctx, record); err != nil {
		if markErr := s.MarkFailed(ctx, record.CanonicalURL, err.Error()); markErr != nil {
			return fmt.Errorf("%w (additionally failed to record error: %v)", err, markErr)
		}
		return err
	}
	return nil
}

func (s *Store) upsertProcessedTx(ctx context.Context, record *Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var jobID string
	err = tx.QueryRow(ctx,
		`UPDATE jobs_meta
		 SET title = $1, company = $2, description = $3, full_text = $4,
		     deadline = $5, quality_score = $6, processed_at = NOW()
		 WHERE canonical_url = $7
		 RETURNING id`,
		record.Title, record.Company, record.Description, record.FullText,
		record.Deadline, record.QualityScore, record.CanonicalURL,
	).Scan(&jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("no stub stored for %s", record.CanonicalURL)
		}
		return fmt.Errorf("failed to update jobs_meta: %w", err)
	}

	for _, table := range []string{
		"job_classification", "location_work", "skills_taxonomy",
		"certifications", "career_progression", "compensation",
		"education_requirements",
	} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE job_id = $1", table), jobID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO job_classification (job_id, job_type, experience_level, industry, role_level, growth_potential)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		jobID, record.JobType, record.ExperienceLevel, record.Industry,
		record.RoleLevel, record.GrowthPotential,
	); err != nil {
		return fmt.Errorf("failed to insert classification: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO location_work (job_id, location, remote_friendly) VALUES ($1, $2, $3)`,
		jobID, record.Location, record.RemoteFriendly,
	); err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}

	if err := insertSkills(ctx, tx, jobID, record.Skills, SkillOriginExtracted); err != nil {
		return err
	}
	if err := insertSkills(ctx, tx, jobID, record.AISkills, SkillOriginAI); err != nil {
		return err
	}

	for _, cert := range record.Certifications {
		if _, err := tx.Exec(ctx,
			`INSERT INTO certifications (job_id, name) VALUES ($1, $2)
			 ON CONFLICT (job_id, name) DO NOTHING`,
			jobID, cert,
		); err != nil {
			return fmt.Errorf("failed to insert certification: %w", err)
		}
	}

	for i, responsibility := range record.KeyResponsibilities {
		summary := ""
		if i == 0 {
			summary = record.ExperienceSummary
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO career_progression (job_id, position, responsibility, experience_summary)
			 VALUES ($1, $2, $3, $4)`,
			jobID, i, responsibility, summary,
		); err != nil {
			return fmt.Errorf("failed to insert responsibility: %w", err)
		}
	}
	if len(record.KeyResponsibilities) == 0 && record.ExperienceSummary != "" {
		if _, err := tx.Exec(ctx,
			`INSERT INTO career_progression (job_id, position, responsibility, experience_summary)
			 VALUES ($1, 0, '', $2)`,
			jobID, record.ExperienceSummary,
		); err != nil {
			return fmt.Errorf("failed to insert experience summary: %w", err)
		}
	}

	if !record.Compensation.Empty() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO compensation (job_id, salary_min, salary_max, amount, currency, period, raw_text)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			jobID, record.Compensation.Min, record.Compensation.Max, record.Compensation.Amount,
			record.Compensation.Currency, record.Compensation.Period, record.Compensation.RawText,
		); err != nil {
			return fmt.Errorf("failed to insert compensation: %w", err)
		}
	}

	for i, req := range record.Education {
		if _, err := tx.Exec(ctx,
			`INSERT INTO education_requirements
			   (job_id, position, level, field, requirement_type, years_experience_substitute, confidence_score, raw_text_analyzed)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			jobID, i, req.Level, req.Field, req.RequirementType,
			req.YearsExperienceSubstitute, req.ConfidenceScore, req.RawTextAnalyzed,
		); err != nil {
			return fmt.Errorf("failed to insert education requirement: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE processing_status
		 SET status = $1, error_message = '', last_attempt = NOW()
		 WHERE job_id = $2`,
		StatusCompleted, jobID,
	); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertSkills(ctx context.Context, tx pgx.Tx, jobID string, skills []string, origin string) error {
	for _, skill := range skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO skills_taxonomy (job_id, skill, origin) VALUES ($1, $2, $3)
			 ON CONFLICT (job_id, skill, origin) DO NOTHING`,
			jobID, skill, origin,
		); err != nil {
			return fmt.Errorf("failed to insert skill: %w", err)
		}
	}
	return nil
}

// CountByStatus returns how many jobs are in each processing status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM processing_status GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
