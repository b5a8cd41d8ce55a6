package lookup

import (
	"context"
	"time"

	"memberdoc/internal/config"
	"memberdoc/internal/storage"
)

type SyncService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
}

func NewSyncService(db *storage.DB, cfg config.Config) *SyncService {
	return &SyncService{db: db, client: NewClient(cfg), cfg: cfg}
}

type SyncResult struct {
	IndustrialGroups   int
	ProvincialChapters int
}

// SyncAll refreshes both registries from the federation API.
func (s *SyncService) SyncAll(ctx context.Context) (SyncResult, error) {
	groups, err := s.client.GetIndustrialGroups(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	if err := s.db.UpsertGroupEntries(storage.TableIndustrialGroups, groups); err != nil {
		return SyncResult{}, err
	}

	chapters, err := s.client.GetProvincialChapters(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	if err := s.db.UpsertGroupEntries(storage.TableProvincialChapters, chapters); err != nil {
		return SyncResult{}, err
	}

	_ = s.db.SetMetadata("registry.last_sync", time.Now().UTC().Format(time.RFC3339))
	return SyncResult{IndustrialGroups: len(groups), ProvincialChapters: len(chapters)}, nil
}

// LoadTables reads both registries out of local storage.
func LoadTables(db *storage.DB) (groups, chapters Tables, err error) {
	groupEntries, err := db.ListGroupEntries(storage.TableIndustrialGroups)
	if err != nil {
		return Tables{}, Tables{}, err
	}
	chapterEntries, err := db.ListGroupEntries(storage.TableProvincialChapters)
	if err != nil {
		return Tables{}, Tables{}, err
	}
	return Build(groupEntries), Build(chapterEntries), nil
}
