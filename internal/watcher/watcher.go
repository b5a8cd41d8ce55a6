package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"memberdoc/internal"
	"memberdoc/internal/config"
	"memberdoc/internal/deliver"
	"memberdoc/internal/pipeline"
	"memberdoc/internal/record"
	"memberdoc/internal/storage"
)

// Service polls a drop folder for application JSON files, generates a PDF
// for each and optionally mails it to the applicant. Processed files move to
// done/ or failed/ under the inbox, with a hash-addressed copy in the
// archive.
type Service struct {
	db     *storage.DB
	cfg    config.Config
	export *pipeline.ExportService
	sender deliver.Sender
}

func NewService(db *storage.DB, cfg config.Config, export *pipeline.ExportService, sender deliver.Sender) *Service {
	return &Service{db: db, cfg: cfg, export: export, sender: sender}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.RunCycle(ctx); err != nil {
			fmt.Printf("watcher cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.WatcherIntervalSec) * time.Second):
		}
	}
}

type CycleResult struct {
	Seen      int
	Generated int
	Delivered int
	Failed    int
}

func (s *Service) RunCycle(ctx context.Context) error {
	result, err := s.processBatch(ctx)
	if err != nil {
		return err
	}
	if result.Seen > 0 {
		fmt.Printf("watcher cycle done seen=%d generated=%d delivered=%d failed=%d\n",
			result.Seen, result.Generated, result.Delivered, result.Failed)
	}
	return nil
}

func (s *Service) processBatch(ctx context.Context) (CycleResult, error) {
	var result CycleResult

	entries, err := os.ReadDir(s.cfg.InboxDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, os.MkdirAll(s.cfg.InboxDir, 0o755)
		}
		return result, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		if result.Seen >= s.cfg.WatcherBatch && s.cfg.WatcherBatch > 0 {
			break
		}
		result.Seen++

		path := filepath.Join(s.cfg.InboxDir, entry.Name())
		if err := s.processFile(ctx, path, entry.Name(), &result); err != nil {
			result.Failed++
			fmt.Printf("watcher: %s: %v\n", entry.Name(), err)
			s.moveTo(path, "failed")
		}
	}
	return result, nil
}

func (s *Service) processFile(ctx context.Context, path, name string, result *CycleResult) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := s.archive(body); err != nil {
		return err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode application json: %w", err)
	}

	memberType := DetectMemberType(payload, name)
	if !memberType.Valid() {
		return fmt.Errorf("cannot determine membership type for %s", name)
	}

	generated := s.export.Generate(ctx, payload, memberType)
	if !generated.Success {
		return fmt.Errorf("generate: %s", generated.Error)
	}
	result.Generated++

	if s.cfg.WatcherAutoDeliver && s.sender != nil {
		if err := s.deliverDocument(generated); err != nil {
			fmt.Printf("watcher: deliver %s: %v\n", generated.Filename, err)
		} else {
			result.Delivered++
		}
	}

	s.moveTo(path, "done")
	return nil
}

func (s *Service) deliverDocument(generated internal.GenerateResult) error {
	if generated.DocumentID == 0 {
		return fmt.Errorf("no document row to deliver")
	}
	row, err := s.db.GetDocumentByID(generated.DocumentID)
	if err != nil {
		return err
	}
	if row == nil || row.Email == "" {
		return fmt.Errorf("no applicant email on record")
	}

	data, err := os.ReadFile(generated.Path)
	if err != nil {
		return err
	}
	err = s.sender.Send(internal.DeliveryRequest{
		To:       row.Email,
		Subject:  deliver.DefaultSubject(generated.Filename),
		Body:     deliver.DefaultBody(),
		Filename: generated.Filename,
		PDF:      data,
	})
	if err != nil {
		_ = s.db.UpdateDocumentStatus(generated.DocumentID, string(internal.DocumentFailed), err.Error())
		return err
	}
	return s.db.UpdateDocumentStatus(generated.DocumentID, string(internal.DocumentDelivered), "")
}

// archive keeps a hash-addressed copy of every incoming payload so reruns
// and audits never depend on the inbox file surviving.
func (s *Service) archive(body []byte) error {
	hashBytes := sha256.Sum256(body)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.cfg.ArchiveDir, 0o755); err != nil {
		return err
	}
	archivePath := filepath.Join(s.cfg.ArchiveDir, hash+".json")
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		return os.WriteFile(archivePath, body, 0o644)
	}
	return nil
}

func (s *Service) moveTo(path, subdir string) {
	dir := filepath.Join(s.cfg.InboxDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	_ = os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}

// DetectMemberType reads the membership type from the payload, falling back
// to a filename prefix like "oc_12345.json".
func DetectMemberType(payload map[string]any, filename string) internal.MembershipType {
	rec := record.From(payload)
	if data := rec.Map("data"); data != nil {
		if t := internal.MembershipType(strings.ToLower(data.String("memberType", "member_type", "membershipType", "type"))); t.Valid() {
			return t
		}
	}
	if t := internal.MembershipType(strings.ToLower(rec.String("memberType", "member_type", "membershipType", "type"))); t.Valid() {
		return t
	}

	base := strings.ToLower(filepath.Base(filename))
	for _, sep := range []string{"_", "-", "."} {
		if prefix, _, ok := strings.Cut(base, sep); ok {
			if t := internal.MembershipType(prefix); t.Valid() {
				return t
			}
		}
	}
	return internal.MembershipType("")
}
