package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"memberdoc/internal"
	"memberdoc/internal/config"
	"memberdoc/internal/images"
	"memberdoc/internal/storage"
)

type fakeRenderer struct {
	fail     bool
	lastHTML string
}

func (f *fakeRenderer) Render(_ context.Context, html string) ([]byte, error) {
	if f.fail {
		return nil, errors.New("chrome crashed")
	}
	f.lastHTML = html
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeRenderer) Close() error { return nil }

func testExportService(t *testing.T, renderer *fakeRenderer) (*ExportService, config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		DBPath:            filepath.Join(dir, "memberdoc.db"),
		OutputDir:         filepath.Join(dir, "out"),
		LogoPath:          filepath.Join(dir, "missing-logo.png"),
		LogoPublicPath:    "/assets/federation-logo.png",
		ImageTimeoutMs:    200,
		ImageRateLimitRPS: 100,
		CDNHosts:          []string{"res.cloudinary.com"},
		VerifyPDF:         false,
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewExportService(cfg, db, images.NewLoader(cfg), renderer), cfg
}

func loadFixture(t *testing.T) map[string]any {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", "application_oc.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return payload
}

func TestGenerateEndToEnd(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, cfg := testExportService(t, renderer)

	result := svc.Generate(context.Background(), loadFixture(t), internal.TypeOC)
	if !result.Success {
		t.Fatalf("generation failed: %s", result.Error)
	}

	wantPrefix := "OC_บริษัท_ส่งออกทดสอบ_จำกัด_"
	if !strings.HasPrefix(result.Filename, wantPrefix) || !strings.HasSuffix(result.Filename, ".pdf") {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	if !strings.Contains(result.Filename, time.Now().Format("2006-01-02")) {
		t.Fatalf("filename missing date: %q", result.Filename)
	}

	saved, err := os.ReadFile(filepath.Join(cfg.OutputDir, result.Filename))
	if err != nil {
		t.Fatalf("saved pdf missing: %v", err)
	}
	if string(saved) != "%PDF-1.4 fake" {
		t.Fatalf("wrong bytes on disk: %q", saved)
	}

	// The signature URL in the fixture is unreachable on purpose. The
	// document must still come out complete, with the placeholder caption.
	if !strings.Contains(renderer.lastHTML, SignatureMissingCaption) {
		t.Fatal("missing-signature placeholder absent from rendered html")
	}
	if !strings.Contains(renderer.lastHTML, "กลุ่มยานยนต์") {
		t.Fatal("industrial group names not resolved from envelope tables")
	}
	if !strings.Contains(renderer.lastHTML, "200") || !strings.Contains(renderer.lastHTML, "คลองเตย") {
		t.Fatal("delivery address missing from rendered html")
	}
}

func TestGenerateLogsDocumentRow(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, _ := testExportService(t, renderer)

	result := svc.Generate(context.Background(), loadFixture(t), internal.TypeOC)
	if !result.Success {
		t.Fatalf("generation failed: %s", result.Error)
	}

	rows, err := svc.db.ListDocumentsByStatus(string(internal.DocumentGenerated), 10)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 generated row, got %d", len(rows))
	}
	if rows[0].MemberType != "oc" || rows[0].ApplicantRef != "0105560000001" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[0].Email != "somsri@exporttest.co.th" {
		t.Fatalf("applicant email not recorded: %+v", rows[0])
	}
}

func TestGenerateRendererFailureIsStructured(t *testing.T) {
	svc, _ := testExportService(t, &fakeRenderer{fail: true})

	result := svc.Generate(context.Background(), loadFixture(t), internal.TypeOC)
	if result.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(result.Error, "chrome crashed") {
		t.Fatalf("error lost: %q", result.Error)
	}

	rows, err := svc.db.ListDocumentsByStatus(string(internal.DocumentFailed), 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("failed row not logged: %v %d", err, len(rows))
	}
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	svc, _ := testExportService(t, &fakeRenderer{})
	result := svc.Generate(context.Background(), loadFixture(t), internal.MembershipType("xx"))
	if result.Success || !strings.Contains(result.Error, "unknown membership type") {
		t.Fatalf("got %+v", result)
	}
}

func TestDownloadTranslatesFailure(t *testing.T) {
	svc, _ := testExportService(t, &fakeRenderer{fail: true})
	if _, err := svc.Download(context.Background(), loadFixture(t), internal.TypeOC); err == nil {
		t.Fatal("expected error from failed generation")
	}

	okSvc, _ := testExportService(t, &fakeRenderer{})
	result, err := okSvc.Download(context.Background(), loadFixture(t), internal.TypeOC)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if result.Filename == "" {
		t.Fatal("filename missing on success")
	}
}

func TestGenerateZeroEmployeesRendered(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, _ := testExportService(t, renderer)

	if result := svc.Generate(context.Background(), loadFixture(t), internal.TypeOC); !result.Success {
		t.Fatalf("generation failed: %s", result.Error)
	}
	if !strings.Contains(renderer.lastHTML, fmt.Sprintf("%d คน", 0)) {
		t.Fatal("zero employee count dropped from document")
	}
}
