package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"cv-builder/internal/adapter/backend"
	httpadapter "cv-builder/internal/adapter/http"
	"cv-builder/internal/adapter/repository"
	"cv-builder/internal/config"
	"cv-builder/internal/export"
	"cv-builder/internal/fit"
	"cv-builder/internal/infrastructure/migration"
	"cv-builder/internal/model"
	"cv-builder/internal/panel"
	"cv-builder/internal/state"
	"cv-builder/internal/store/localstore"
	"cv-builder/internal/telemetry"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/browser"
	infra "cv-builder/pkg/infrastructure"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	local, err := localstore.New(cfg.DataDir)
	if err != nil {
		telemetry.Error("data directory unusable", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Restore the last session's document; a corrupt file starts fresh
	// rather than blocking startup.
	doc, err := local.LoadDocument()
	if err != nil {
		telemetry.Warn("persisted document unreadable, starting fresh", map[string]any{"error": err.Error()})
		doc = nil
	}
	store := state.New(doc)
	store.Subscribe(local.Subscriber())

	session, err := browser.NewSession(
		browser.WithChromePath(cfg.ChromePath),
		browser.WithTimeout(cfg.RenderTimeout),
		browser.WithSettleDelay(cfg.SettleDelay),
		browser.WithAutoDownload(),
	)
	if err != nil {
		telemetry.Error("browser startup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer session.Close()

	previewer := fit.NewPreviewer(session, cfg.DebounceDelay)
	defer previewer.Close()
	store.Subscribe(func(d *model.Document, version uint64) {
		previewer.Request(d, version)
	})
	// Prime the preview with the restored document.
	initial, version := store.Snapshot()
	previewer.Request(initial, version)

	jobsPool, err := infra.NewJobsPool(ctx, cfg.JobsDatabaseURL)
	if err != nil {
		telemetry.Warn("job history unavailable", map[string]any{"error": err.Error()})
	}
	if err := migration.RunMigrations(ctx, jobsPool); err != nil {
		telemetry.Warn("job history migrations failed", map[string]any{"error": err.Error()})
		jobsPool.Close()
		jobsPool = nil
	}
	jobsRepo := repository.NewJobsRepo(jobsPool)

	processor := usecase.NewProcessor(export.NewRaster(session, 2), jobsRepo, cfg.DataDir)
	bk := backend.NewClient(cfg.BackendURL)
	panels := panel.NewGroup("sections", "templates", "export", "letter", "account")

	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // snapshots can embed photos as data URIs
	})
	h := httpadapter.NewHandler(store, previewer, processor, jobsRepo, local, bk, panels,
		cfg.GeminiModel, cfg.GeminiFallback)
	h.Register(app)

	go func() {
		telemetry.Info("server listening", map[string]any{"port": cfg.Port})
		if err := app.Listen(":" + cfg.Port); err != nil {
			telemetry.Error("server failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	telemetry.Info("shutting down", nil)
	_ = app.Shutdown()
}
