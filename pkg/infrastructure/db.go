// Package infrastructure owns process-level resources: the optional
// Postgres pool backing export-job history.
package infrastructure

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewJobsPool connects to the job-history database. An empty DSN disables
// history and returns a nil pool; callers treat nil as "feature off".
func NewJobsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return pool, nil
}
