package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/logger"

	"go.uber.org/zap"
)

// SnapshotStore persists sessions across restarts. Load returns domain.ErrCacheMiss for
// an unknown id.
type SnapshotStore interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Delete(ctx context.Context, id string) error
}

// Registry keeps live sessions in memory and falls back to the snapshot store on a miss.
// A nil store keeps sessions in memory only. Sessions not touched for idleTTL are dropped
// from memory; a zero idleTTL keeps them until Remove.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	store     SnapshotStore
	opts      []Option
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type entry struct {
	session    *Session
	lastAccess time.Time
}

func NewRegistry(store SnapshotStore, idleTTL time.Duration, opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		store:    store,
		opts:     opts,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create registers a new empty session under id. It is not persisted until Save.
func (r *Registry) Create(id string) *Session {
	s := New(id, r.opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweepLocked(now)
	r.sessions[id] = &entry{session: s, lastAccess: now}
	return s
}

// Get returns the live session, restoring it from the store if needed.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if s, ok := r.touch(id); ok {
		return s, nil
	}

	if r.store == nil {
		return nil, domain.NewSessionNotFoundError(id)
	}

	snap, err := r.store.Load(ctx, id)
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil, domain.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to load session", err)
	}

	restored, err := Restore(*snap, r.opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	// Another request may have restored it first.
	if existing, ok := r.sessions[id]; ok {
		existing.lastAccess = now
		return existing.session, nil
	}
	r.sessions[id] = &entry{session: restored, lastAccess: now}
	return restored, nil
}

// touch returns the in-memory session and refreshes its access time. An idle session
// found here is evicted instead.
func (r *Registry) touch(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.expired(e, now) {
		delete(r.sessions, id)
		return nil, false
	}
	e.lastAccess = now
	return e.session, true
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return r.idleTTL > 0 && now.Sub(e.lastAccess) >= r.idleTTL
}

// sweepLocked drops idle sessions, at most once per half TTL.
func (r *Registry) sweepLocked(now time.Time) {
	if r.idleTTL <= 0 || now.Sub(r.lastSweep) < r.idleTTL/2 {
		return
	}
	r.lastSweep = now

	evicted := 0
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Get().Debug("Evicted idle sessions",
			zap.Int("evicted", evicted),
			zap.Int("live", len(r.sessions)))
	}
}

// Save writes the session's snapshot to the store.
func (r *Registry) Save(ctx context.Context, s *Session) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(ctx, s.Snapshot()); err != nil {
		return domain.NewInternalError("failed to save session", err)
	}
	return nil
}

// Remove forgets the session in memory and in the store.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if r.store == nil {
		return nil
	}
	return r.store.Delete(ctx, id)
}

// Len reports the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
