// Package migration brings the export-job history schema up to date on
// startup.
package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"cv-builder/internal/telemetry"
)

// Migration is one named schema step.
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// RunMigrations executes all schema steps in order. A nil pool means job
// history is disabled and there is nothing to migrate.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return nil
	}
	migrations := []Migration{
		{Name: "create_export_jobs", Up: createExportJobs},
		{Name: "index_export_jobs_created_at", Up: indexExportJobsCreatedAt},
	}
	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			telemetry.Error("migration failed", map[string]any{"name": m.Name, "error": err.Error()})
			return err
		}
		telemetry.Info("migration completed", map[string]any{"name": m.Name})
	}
	return nil
}

func createExportJobs(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS export_jobs (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			template TEXT NOT NULL,
			status TEXT NOT NULL,
			artifact TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			metadata JSONB DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func indexExportJobsCreatedAt(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS export_jobs_created_at_idx
		ON export_jobs (created_at DESC);
	`)
	return err
}
