package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"memberdoc/internal"
	"memberdoc/internal/config"
	"memberdoc/internal/deliver"
	"memberdoc/internal/images"
	"memberdoc/internal/lookup"
	"memberdoc/internal/pdfrender"
	"memberdoc/internal/pipeline"
	"memberdoc/internal/storage"
	"memberdoc/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "registry:sync":
		svc := lookup.NewSyncService(db, cfg)
		result, err := svc.SyncAll(context.Background())
		must(err)
		fmt.Printf("registry sync complete groups=%d chapters=%d\n", result.IndustrialGroups, result.ProvincialChapters)
	case "registry:import-xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "registry xlsx path")
		table := fs.String("table", "", "industrial_groups|provincial_chapters")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" || strings.TrimSpace(*table) == "" {
			must(fmt.Errorf("--file and --table are required"))
		}
		entries, err := lookup.ImportXLSX(*file)
		must(err)
		must(db.UpsertGroupEntries(*table, entries))
		fmt.Printf("imported %d entries into %s\n", len(entries), *table)
	case "generate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "application json path")
		memberType := fs.String("type", "", "ic|oc|ac|am (default: detect from payload/filename)")
		deliverTo := fs.String("deliver-to", "", "email the result to this address")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		payload, err := readApplication(*input)
		must(err)

		detected := internal.MembershipType(strings.ToLower(strings.TrimSpace(*memberType)))
		if detected == "" {
			detected = watcher.DetectMemberType(payload, *input)
		}
		if !detected.Valid() {
			must(fmt.Errorf("cannot determine membership type, pass --type"))
		}

		renderer := pdfrender.NewChromeRenderer(pdfrender.OptionsFromConfig(cfg))
		defer renderer.Close()
		export := pipeline.NewExportService(cfg, db, images.NewLoader(cfg), renderer)

		result, err := export.Download(context.Background(), payload, detected)
		must(err)
		fmt.Printf("generated %s\n", result.Path)

		if strings.TrimSpace(*deliverTo) != "" {
			must(sendDocument(cfg, *deliverTo, result))
			must(db.UpdateDocumentStatus(result.DocumentID, string(internal.DocumentDelivered), ""))
			fmt.Printf("delivered %s to %s\n", result.Filename, *deliverTo)
		}
	case "deliver":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		documentID := fs.Int64("documentId", 0, "documents row id")
		to := fs.String("to", "", "override recipient")
		_ = fs.Parse(os.Args[2:])
		if *documentID == 0 {
			must(fmt.Errorf("--documentId is required"))
		}

		row, err := db.GetDocumentByID(*documentID)
		must(err)
		if row == nil {
			must(fmt.Errorf("no document with id %d", *documentID))
		}
		recipient := strings.TrimSpace(*to)
		if recipient == "" {
			recipient = row.Email
		}
		if recipient == "" {
			must(fmt.Errorf("document %d has no applicant email, pass --to", *documentID))
		}

		result := internal.GenerateResult{Filename: row.Filename, Path: row.FilePath, DocumentID: row.ID}
		must(sendDocument(cfg, recipient, result))
		must(db.UpdateDocumentStatus(row.ID, string(internal.DocumentDelivered), ""))
		fmt.Printf("delivered %s to %s\n", row.Filename, recipient)
	case "watch":
		renderer := pdfrender.NewChromeRenderer(pdfrender.OptionsFromConfig(cfg))
		defer renderer.Close()
		export := pipeline.NewExportService(cfg, db, images.NewLoader(cfg), renderer)

		var sender deliver.Sender
		if cfg.WatcherAutoDeliver {
			sender, err = deliver.New(cfg)
			must(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		must(watcher.NewService(db, cfg, export, sender).Run(ctx))
	default:
		usage()
		os.Exit(1)
	}
}

func readApplication(path string) (map[string]any, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode application json: %w", err)
	}
	return payload, nil
}

func sendDocument(cfg config.Config, to string, result internal.GenerateResult) error {
	sender, err := deliver.New(cfg)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(result.Path)
	if err != nil {
		return err
	}
	return sender.Send(internal.DeliveryRequest{
		To:       to,
		Subject:  deliver.DefaultSubject(result.Filename),
		Body:     deliver.DefaultBody(),
		Filename: result.Filename,
		PDF:      data,
	})
}

func usage() {
	fmt.Println("usage: memberdoc <command>")
	fmt.Println("commands:")
	fmt.Println("  registry:sync")
	fmt.Println("  registry:import-xlsx --file=./groups.xlsx --table=industrial_groups|provincial_chapters")
	fmt.Println("  generate --input=./application.json [--type=ic|oc|ac|am] [--deliver-to=mail@example.com]")
	fmt.Println("  deliver --documentId=1 [--to=mail@example.com]")
	fmt.Println("  watch")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
