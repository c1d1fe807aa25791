// Package repository persists export-job history in Postgres. History is an
// optional feature: without a configured pool every operation is a no-op, so
// the studio works fully offline.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"cv-builder/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

type JobsRepo struct {
	pool *pgxpool.Pool
}

// NewJobsRepo wraps a pool; pool may be nil when job history is disabled.
func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

// Save upserts a job row.
func (r *JobsRepo) Save(ctx context.Context, j *domain.ExportJob) error {
	if r.pool == nil {
		return nil
	}
	metaB, err := json.Marshal(j.Metadata)
	if err != nil {
		return fmt.Errorf("repository: encoding job metadata: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO export_jobs (id, user_id, kind, template, status, artifact, error, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, artifact = EXCLUDED.artifact, error = EXCLUDED.error, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		j.ID, j.UserID, j.Kind, j.Template, j.Status, j.Artifact, j.Error, metaB, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: saving export job: %w", err)
	}
	return nil
}

// ListRecent returns the newest jobs, most recent first. Returns nil when
// history is disabled.
func (r *JobsRepo) ListRecent(ctx context.Context, limit int) ([]domain.ExportJob, error) {
	if r.pool == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, kind, template, status, artifact, error, metadata, created_at, updated_at
		FROM export_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: listing export jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportJob
	for rows.Next() {
		var j domain.ExportJob
		var metaB []byte
		if err := rows.Scan(&j.ID, &j.UserID, &j.Kind, &j.Template, &j.Status, &j.Artifact, &j.Error, &metaB, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository: scanning export job: %w", err)
		}
		if len(metaB) > 0 {
			if err := json.Unmarshal(metaB, &j.Metadata); err != nil {
				return nil, fmt.Errorf("repository: decoding job metadata: %w", err)
			}
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
