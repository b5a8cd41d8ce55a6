package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"memberdoc/internal/config"
	"memberdoc/internal/deliver"
	"memberdoc/internal/images"
	"memberdoc/internal/pdfrender"
	"memberdoc/internal/pipeline"
	"memberdoc/internal/storage"
	"memberdoc/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	renderer := pdfrender.NewChromeRenderer(pdfrender.OptionsFromConfig(cfg))
	defer renderer.Close()

	var sender deliver.Sender
	if cfg.WatcherAutoDeliver {
		sender, err = deliver.New(cfg)
		must(err)
	}

	export := pipeline.NewExportService(cfg, db, images.NewLoader(cfg), renderer)
	svc := watcher.NewService(db, cfg, export, sender)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
