package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"memberdoc/internal"
	"memberdoc/internal/config"
	"memberdoc/internal/images"
	"memberdoc/internal/pipeline"
	"memberdoc/internal/storage"
)

type stubRenderer struct{}

func (stubRenderer) Render(_ context.Context, _ string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func (stubRenderer) Close() error { return nil }

const applicationJSON = `{
  "memberType": "oc",
  "companyNameTh": "บริษัท วอตเชอร์ จำกัด",
  "taxId": "0105560000002",
  "email": "watcher@example.co.th"
}`

func testService(t *testing.T) (*Service, config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		DBPath:            filepath.Join(dir, "memberdoc.db"),
		OutputDir:         filepath.Join(dir, "out"),
		InboxDir:          filepath.Join(dir, "inbox"),
		ArchiveDir:        filepath.Join(dir, "archive"),
		LogoPath:          filepath.Join(dir, "missing-logo.png"),
		ImageTimeoutMs:    200,
		ImageRateLimitRPS: 100,
		WatcherBatch:      20,
	}
	if err := os.MkdirAll(cfg.InboxDir, 0o755); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	export := pipeline.NewExportService(cfg, db, images.NewLoader(cfg), stubRenderer{})
	return NewService(db, cfg, export, nil), cfg
}

func TestProcessBatchGeneratesAndMovesFile(t *testing.T) {
	svc, cfg := testService(t)
	if err := os.WriteFile(filepath.Join(cfg.InboxDir, "app-1.json"), []byte(applicationJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if result.Seen != 1 || result.Generated != 1 || result.Failed != 0 {
		t.Fatalf("unexpected cycle result: %+v", result)
	}

	if _, err := os.Stat(filepath.Join(cfg.InboxDir, "done", "app-1.json")); err != nil {
		t.Fatalf("processed file not moved to done/: %v", err)
	}

	archived, err := os.ReadDir(cfg.ArchiveDir)
	if err != nil || len(archived) != 1 {
		t.Fatalf("payload not archived: %v %d", err, len(archived))
	}

	rows, err := svc.db.ListDocumentsByStatus(string(internal.DocumentGenerated), 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("document row missing: %v %d", err, len(rows))
	}
	if rows[0].MemberType != "oc" {
		t.Fatalf("wrong member type recorded: %+v", rows[0])
	}
}

func TestProcessBatchRejectsMalformedJSON(t *testing.T) {
	svc, cfg := testService(t)
	if err := os.WriteFile(filepath.Join(cfg.InboxDir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected 1 failure, got %+v", result)
	}
	if _, err := os.Stat(filepath.Join(cfg.InboxDir, "failed", "broken.json")); err != nil {
		t.Fatalf("broken file not moved to failed/: %v", err)
	}
}

func TestDetectMemberType(t *testing.T) {
	cases := []struct {
		payload  map[string]any
		filename string
		want     internal.MembershipType
	}{
		{map[string]any{"memberType": "ic"}, "app.json", internal.TypeIC},
		{map[string]any{"data": map[string]any{"member_type": "AM"}}, "app.json", internal.TypeAM},
		{map[string]any{}, "oc_12345.json", internal.TypeOC},
		{map[string]any{}, "AC-67.json", internal.TypeAC},
		{map[string]any{}, "unknown.json", internal.MembershipType("")},
	}
	for _, c := range cases {
		if got := DetectMemberType(c.payload, c.filename); got != c.want {
			t.Errorf("DetectMemberType(%v, %s) = %q, want %q", c.payload, c.filename, got, c.want)
		}
	}
}
