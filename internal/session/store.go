package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

// Store is a thread-safe in-memory session registry with TTL
// eviction. Sessions opened through the store share one pass-latency
// aggregate and one debounce setting.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ctx      context.Context

	ttl      time.Duration
	debounce time.Duration
	stats    *PassStats
	log      *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStore(ttl, debounce time.Duration, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		debounce: debounce,
		stats:    NewPassStats(time.Hour),
		log:      log,
	}
}

// Start fixes the context sessions run under and launches the TTL
// janitor.
func (st *Store) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	st.cancel = cancel

	st.mu.Lock()
	st.ctx = ctx
	st.mu.Unlock()

	st.wg.Add(1)
	go func() {
		defer st.wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.Cleanup()
			}
		}
	}()
}

// Stop closes every session and waits for the janitor.
func (st *Store) Stop() {
	if st.cancel != nil {
		st.cancel()
	}

	st.mu.Lock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, sess := range st.sessions {
		sessions = append(sessions, sess)
	}
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
	st.wg.Wait()
}

// Open creates a session for a new document and runs the first pass
// synchronously, so the caller sees annotations without waiting out a
// settle window.
func (st *Store) Open(name string, kind document.Kind, content string, cfg timeline.Config, opts Options) *Session {
	id := uuid.New().String()
	doc := document.New(id, name, kind, content)

	if opts.Debounce == 0 {
		opts.Debounce = st.debounce
	}
	if opts.Stats == nil {
		opts.Stats = st.stats
	}
	sess := New(id, doc, cfg, st.log, opts)

	st.mu.Lock()
	ctx := st.ctx
	st.sessions[id] = sess
	st.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	sess.Start(ctx)
	sess.Recompute()

	st.log.Info("session opened", "session", id, "doc", name, "kind", string(kind))
	return sess
}

// Get returns a session by ID, or nil.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[id]
}

// Delete closes and removes a session, reporting whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	if !ok {
		return false
	}
	sess.Close()
	st.log.Info("session closed", "session", id)
	return true
}

// List returns snapshots of all sessions, oldest first.
func (st *Store) List() []Snapshot {
	st.mu.Lock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, sess := range st.sessions {
		sessions = append(sessions, sess)
	}
	st.mu.Unlock()

	snaps := make([]Snapshot, 0, len(sessions))
	for _, sess := range sessions {
		snaps = append(snaps, sess.Snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
	return snaps
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup evicts sessions idle past the TTL. A zero TTL disables
// eviction.
func (st *Store) Cleanup() {
	if st.ttl <= 0 {
		return
	}

	st.mu.Lock()
	now := time.Now()
	var expired []*Session
	for id, sess := range st.sessions {
		if now.Sub(sess.LastTouched()) > st.ttl {
			delete(st.sessions, id)
			expired = append(expired, sess)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
		st.log.Info("session expired", "session", sess.ID(), "doc", sess.Document().Name())
	}
}

// Stats returns the shared pass-latency aggregate.
func (st *Store) Stats() StatsSnapshot {
	return st.stats.Snapshot()
}
