package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"memberdoc/internal"
	"memberdoc/internal/config"
	"memberdoc/internal/images"
	"memberdoc/internal/lookup"
	"memberdoc/internal/pdfrender"
	"memberdoc/internal/record"
	"memberdoc/internal/storage"
	"memberdoc/internal/util"
)

// ExportService orchestrates one generation request: normalize, resolve
// groups and preload images concurrently, render HTML, rasterize, verify and
// save. Failures come back inside GenerateResult, never as panics.
type ExportService struct {
	cfg      config.Config
	db       *storage.DB
	loader   *images.Loader
	renderer pdfrender.Renderer

	now func() time.Time
}

func NewExportService(cfg config.Config, db *storage.DB, loader *images.Loader, renderer pdfrender.Renderer) *ExportService {
	return &ExportService{
		cfg:      cfg,
		db:       db,
		loader:   loader,
		renderer: renderer,
		now:      time.Now,
	}
}

// Generate accepts either a bare application record or the API response
// envelope ({success, data, industrialGroups, provincialChapters}) and
// produces one PDF on disk.
func (s *ExportService) Generate(ctx context.Context, payload any, memberType internal.MembershipType) (result internal.GenerateResult) {
	traceID := uuid.NewString()
	timings := map[string]int64{}

	defer func() {
		if r := recover(); r != nil {
			result = internal.GenerateResult{Success: false, Error: fmt.Sprintf("generation panic: %v", r)}
			s.logDocument(traceID, memberType, internal.CanonicalApplication{}, "", "", internal.DocumentFailed, result.Error, timings)
		}
	}()

	if !memberType.Valid() {
		return internal.GenerateResult{Success: false, Error: fmt.Sprintf("unknown membership type: %q", memberType)}
	}

	raw, groups, chapters := s.unwrapPayload(payload)
	if raw == nil {
		return internal.GenerateResult{Success: false, Error: "empty application payload"}
	}

	step := s.now()
	app := ProcessData(raw, memberType)
	timings["normalizeMs"] = s.sinceMs(step)

	// Image preloading overlaps with group resolution; neither blocks the
	// other and a failed image only leaves its placeholder.
	assetsCh := make(chan images.Assets, 1)
	go func() {
		assetsCh <- s.loader.Preload(ctx, app, s.cfg.LogoPath, s.cfg.LogoPublicPath)
	}()

	step = s.now()
	resolved := ResolveGroupNames(app, raw, groups, chapters)
	lists := LimitDisplayLists(resolved, app.Products)
	timings["resolveMs"] = s.sinceMs(step)

	step = s.now()
	assets := <-assetsCh
	timings["preloadMs"] = s.sinceMs(step)

	step = s.now()
	html, err := RenderHTML(app, lists, assets)
	if err != nil {
		return s.fail(traceID, memberType, app, err, timings)
	}
	timings["renderMs"] = s.sinceMs(step)

	step = s.now()
	filename, path, err := s.exportPDF(ctx, html, app)
	if err != nil {
		return s.fail(traceID, memberType, app, err, timings)
	}
	timings["rasterizeMs"] = s.sinceMs(step)

	docID := s.logDocument(traceID, memberType, app, filename, path, internal.DocumentGenerated, "", timings)
	return internal.GenerateResult{Success: true, Filename: filename, Path: path, DocumentID: docID}
}

// Download is the caller-convenience wrapper: a failed result becomes an
// error instead of a structured failure.
func (s *ExportService) Download(ctx context.Context, payload any, memberType internal.MembershipType) (internal.GenerateResult, error) {
	result := s.Generate(ctx, payload, memberType)
	if !result.Success {
		return result, errors.New(result.Error)
	}
	return result, nil
}

// exportPDF rasterizes the HTML, optionally verifies the output parses as a
// real PDF, and writes it under the output directory with the deterministic
// {TYPE}_{name}_{date}.pdf filename.
func (s *ExportService) exportPDF(ctx context.Context, html string, app internal.CanonicalApplication) (string, string, error) {
	data, err := s.renderer.Render(ctx, html)
	if err != nil {
		return "", "", fmt.Errorf("rasterize: %w", err)
	}
	if s.cfg.VerifyPDF {
		if err := pdfrender.Verify(data); err != nil {
			return "", "", err
		}
	}

	filename := fmt.Sprintf("%s_%s_%s.pdf",
		strings.ToUpper(string(app.Type)),
		util.SanitizeFilename(app.PrimaryName()),
		s.now().Format("2006-01-02"))

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", "", err
	}
	path := filepath.Join(s.cfg.OutputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("save pdf: %w", err)
	}
	return filename, path, nil
}

// unwrapPayload peels the API response envelope when present and builds the
// lookup tables from whichever source is available: the envelope itself, or
// the synced registries in the local database.
func (s *ExportService) unwrapPayload(payload any) (record.Record, lookup.Tables, lookup.Tables) {
	envelope := record.From(payload)
	raw := envelope
	groups := lookup.Build(nil)
	chapters := lookup.Build(nil)
	if envelope == nil {
		return nil, groups, chapters
	}

	if data := envelope.Map("data"); data != nil && (envelope.Has("success") || envelope.Has("industrialGroups") || envelope.Has("provincialChapters")) {
		raw = data
		if v, ok := envelope["industrialGroups"]; ok {
			groups = lookup.FromAny(v)
		}
		if v, ok := envelope["provincialChapters"]; ok {
			chapters = lookup.FromAny(v)
		}
	}

	if groups.Empty() && chapters.Empty() && s.db != nil {
		if dbGroups, dbChapters, err := lookup.LoadTables(s.db); err == nil {
			groups, chapters = dbGroups, dbChapters
		}
	}
	return raw, groups, chapters
}

func (s *ExportService) fail(traceID string, memberType internal.MembershipType, app internal.CanonicalApplication, err error, timings map[string]int64) internal.GenerateResult {
	s.logDocument(traceID, memberType, app, "", "", internal.DocumentFailed, err.Error(), timings)
	return internal.GenerateResult{Success: false, Error: err.Error()}
}

func (s *ExportService) logDocument(traceID string, memberType internal.MembershipType, app internal.CanonicalApplication, filename, path string, status internal.DocumentStatus, errMsg string, timings map[string]int64) int64 {
	if s.db == nil {
		return 0
	}
	timingsJSON, _ := json.Marshal(timings)
	applicantRef := util.FirstNonEmpty(app.TaxID, app.IDCard, app.PrimaryName())
	id, err := s.db.InsertDocument(traceID, string(memberType), applicantRef, app.ApplicantEmail, filename, path, string(status), string(timingsJSON))
	if err != nil {
		fmt.Printf("warn: could not log document %s: %v\n", traceID, err)
		return 0
	}
	if errMsg != "" {
		_ = s.db.UpdateDocumentStatus(id, string(status), errMsg)
	}
	return id
}

func (s *ExportService) sinceMs(start time.Time) int64 {
	return s.now().Sub(start).Milliseconds()
}
