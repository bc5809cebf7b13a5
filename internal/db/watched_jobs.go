package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// -----------------------------------------------------------------------------
// Watched Job Methods
// -----------------------------------------------------------------------------

// insertWatchedJobSQL leaves an existing job_url untouched, so a URL stored
// concurrently by another watcher affects no rows instead of failing.
const insertWatchedJobSQL = `INSERT INTO watched_jobs (keyword, job_url, job_title, company_name, payload)
	 VALUES ($1, $2, $3, $4, $5)
	 ON CONFLICT (job_url) DO NOTHING`

// InsertWatchedJobs records job search hits for a keyword. Jobs are identified by
// job_url; a URL that is already stored counts as a duplicate. Jobs without a URL
// cannot be deduplicated and are skipped.
func (db *DB) InsertWatchedJobs(ctx context.Context, keyword string, jobs []types.Record) (inserted, duplicates int, err error) {
	if len(jobs) == 0 {
		return 0, 0, nil
	}

	batch := &pgx.Batch{}
	for _, job := range jobs {
		jobURL := stringField(job, "job_url")
		if jobURL == "" {
			continue
		}
		payload, err := json.Marshal(job)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to marshal watched job: %w", err)
		}
		batch.Queue(insertWatchedJobSQL,
			keyword, jobURL, nullableString(stringField(job, "job_title")),
			nullableString(stringField(job, "company_name")), payload,
		)
	}
	if batch.Len() == 0 {
		return 0, 0, nil
	}

	results := db.pool.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close watched job batch: %w", closeErr)
		}
	}()

	for i := 0; i < batch.Len(); i++ {
		tag, execErr := results.Exec()
		if execErr != nil {
			return inserted, duplicates, fmt.Errorf("failed to insert watched job: %w", execErr)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		} else {
			duplicates++
		}
	}
	return inserted, duplicates, nil
}

// ListWatchedJobs returns the most recently seen jobs for a keyword.
func (db *DB) ListWatchedJobs(ctx context.Context, keyword string, limit int) ([]WatchedJob, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, keyword, job_url, job_title, company_name, payload, first_seen_at
		 FROM watched_jobs WHERE keyword = $1
		 ORDER BY first_seen_at DESC
		 LIMIT $2`,
		keyword, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched jobs: %w", err)
	}
	defer rows.Close()

	var jobs []WatchedJob
	for rows.Next() {
		var j WatchedJob
		var payload []byte
		if err := rows.Scan(&j.ID, &j.Keyword, &j.JobURL, &j.JobTitle, &j.CompanyName,
			&payload, &j.FirstSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan watched job: %w", err)
		}
		j.Payload = payload
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watched jobs: %w", err)
	}
	return jobs, nil
}

func stringField(record types.Record, key string) string {
	value, ok := record[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
