package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/session"
)

// SnapshotStore keeps session snapshots as JSON strings in a domain.Cache.
type SnapshotStore struct {
	cache domain.Cache
	ttl   time.Duration
}

var _ session.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore expires snapshots ttl after their last save; zero keeps them forever.
func NewSnapshotStore(cache domain.Cache, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{cache: cache, ttl: ttl}
}

func (s *SnapshotStore) Load(ctx context.Context, id string) (*session.Snapshot, error) {
	raw, err := s.cache.Get(ctx, SessionSnapshotKey(id))
	if err != nil {
		return nil, err
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session snapshot %s: %w", id, err)
	}
	return &snap, nil
}

func (s *SnapshotStore) Save(ctx context.Context, snap session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot %s: %w", snap.ID, err)
	}
	return s.cache.Set(ctx, SessionSnapshotKey(snap.ID), string(data), s.ttl)
}

func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, SessionSnapshotKey(id))
}
