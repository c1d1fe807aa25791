// Command export renders a snapshot file to an artifact without running the
// server. Useful for batch rendering and for inspecting template output.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cv-builder/internal/config"
	"cv-builder/internal/domain"
	"cv-builder/internal/export"
	"cv-builder/internal/model"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/browser"
)

func main() {
	var (
		in       = flag.String("in", "", "snapshot JSON file (required)")
		out      = flag.String("out", "", "output file (defaults next to input)")
		kind     = flag.String("kind", "pdf-raster", "artifact kind: png, pdf-raster, pdf-native, json")
		template = flag.String("template", "", "override the snapshot's template")
	)
	flag.Parse()
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*in, *out, *kind, *template); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}

func run(in, out, kind, template string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	doc, err := model.ImportSnapshot(data)
	if err != nil {
		return err
	}
	if template != "" {
		doc.CurrentTemplate = template
	}

	ctx := context.Background()
	cfg := config.Load()

	var raster usecase.RasterExporter
	if needsBrowser(kind) {
		session, err := browser.NewSession(
			browser.WithChromePath(cfg.ChromePath),
			browser.WithTimeout(cfg.RenderTimeout),
			browser.WithSettleDelay(cfg.SettleDelay),
			browser.WithAutoDownload(),
		)
		if err != nil {
			return err
		}
		defer session.Close()
		raster = export.NewRaster(session, 2)
	}

	p := usecase.NewProcessor(raster, nil, cfg.DataDir)
	job, blob, err := p.Export(ctx, doc, kind, "")
	if err != nil {
		return err
	}
	if out == "" {
		out = job.Artifact
	} else if err := os.WriteFile(out, blob, 0o644); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func needsBrowser(kind string) bool {
	return kind == domain.KindPNG || kind == domain.KindPDFRaster
}
