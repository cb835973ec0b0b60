// Package session wires one document to the annotation pipeline: an
// outline provider, the estimator, a sink for rendered labels, and a
// debounced scheduler that re-runs the pipeline after edits.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/outline"
	"github.com/nick-skriabin/readtime/internal/schedule"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

// Notifier receives user-facing messages from a session, such as
// warnings about rejected config values.
type Notifier interface {
	Notify(level slog.Level, msg string)
}

type logNotifier struct {
	log *slog.Logger
}

func (n logNotifier) Notify(level slog.Level, msg string) {
	n.log.Log(context.Background(), level, msg)
}

// Options configures optional session collaborators. Zero values get
// working defaults.
type Options struct {
	Sink     Sink          // nil: in-memory sink
	Notifier Notifier      // nil: route messages to the session logger
	Debounce time.Duration // settle window for change notifications
	Stats    *PassStats    // nil: session-local stats
	Disabled bool          // open with annotations off

	// OnPass runs after each completed pass with the fresh timeline.
	OnPass func(*timeline.Timeline)
}

// Session owns the annotation state of one document.
type Session struct {
	mu sync.Mutex
	// runMu serializes passes: a forced recompute must not interleave
	// with a scheduled one.
	runMu sync.Mutex

	id       string
	doc      *document.Document
	provider outline.Provider
	cfg      timeline.Config
	enabled  bool

	sink     Sink
	notifier Notifier
	log      *slog.Logger
	stats    *PassStats
	onPass   func(*timeline.Timeline)

	deb      *schedule.Debouncer
	current  *timeline.Timeline
	passes   int
	lastPass time.Time
	created  time.Time
	touched  time.Time
}

// New builds a session around doc. Out-of-range config values fall
// back to defaults. The scheduler does not run until Start.
func New(id string, doc *document.Document, cfg timeline.Config, log *slog.Logger, opts Options) *Session {
	if log == nil {
		log = slog.Default()
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = timeline.DefaultConfig().WordsPerMinute
	}
	if _, err := timeline.ParseFormat(string(cfg.Format)); err != nil {
		cfg.Format = timeline.DefaultConfig().Format
	}

	s := &Session{
		id:       id,
		doc:      doc,
		provider: providerFor(doc.Kind()),
		cfg:      cfg,
		enabled:  !opts.Disabled,
		sink:     opts.Sink,
		notifier: opts.Notifier,
		log:      log.With("session", id, "doc", doc.Name()),
		stats:    opts.Stats,
		onPass:   opts.OnPass,
		created:  time.Now(),
		touched:  time.Now(),
	}
	if s.sink == nil {
		s.sink = NewMemorySink()
	}
	if s.notifier == nil {
		s.notifier = logNotifier{log: s.log}
	}
	if s.stats == nil {
		s.stats = NewPassStats(time.Hour)
	}
	s.deb = schedule.NewDebouncer(opts.Debounce, s.pass)
	return s
}

// providerFor picks the outline provider for a document kind, or nil
// when the kind has no header structure to annotate.
func providerFor(kind document.Kind) outline.Provider {
	if kind == document.KindMarkdown {
		return outline.NewMarkdown()
	}
	return nil
}

// Start launches the background scheduler. Notifications arriving
// before Start are held in the pending slot and run once started.
func (s *Session) Start(ctx context.Context) {
	s.deb.Start(ctx)
}

// Close stops the scheduler and clears the sink.
func (s *Session) Close() {
	s.deb.Stop()
	s.sink.Clear()
}

func (s *Session) ID() string { return s.id }

func (s *Session) Document() *document.Document { return s.doc }

func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *Session) Config() timeline.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Timeline returns the result of the latest pass, or nil before the
// first pass and while annotations are off.
func (s *Session) Timeline() *timeline.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Annotations returns the sink's current labels when the sink can
// report them.
func (s *Session) Annotations() []Annotation {
	if m, ok := s.sink.(interface{ Annotations() []Annotation }); ok {
		return m.Annotations()
	}
	return nil
}

// LastTouched reports the last time anything interacted with the
// session; the store's TTL janitor reads it.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) touch() {
	s.mu.Lock()
	s.touched = time.Now()
	s.mu.Unlock()
}

// Changed replaces the document content and schedules a recompute when
// the content actually differs from what the document already holds.
// It reports whether a recompute was scheduled.
func (s *Session) Changed(content string) bool {
	s.touch()
	if !s.doc.SetContent(content) {
		return false
	}
	s.deb.Notify()
	return true
}

// NotifyChange schedules a recompute without replacing content, for
// hosts that mutate the document out of band.
func (s *Session) NotifyChange() {
	s.touch()
	s.deb.Notify()
}

// Recompute runs a pass immediately, bypassing the settle window, and
// returns the fresh timeline.
func (s *Session) Recompute() *timeline.Timeline {
	s.touch()
	s.pass(context.Background())
	return s.Timeline()
}

// Toggle flips annotations on or off and reports the new state.
// Turning off clears the sink; turning back on recomputes immediately
// so labels reappear without waiting for an edit.
func (s *Session) Toggle() bool {
	s.touch()
	s.mu.Lock()
	s.enabled = !s.enabled
	enabled := s.enabled
	s.mu.Unlock()

	if enabled {
		s.notifier.Notify(slog.LevelInfo, "reading time annotations enabled")
		s.pass(context.Background())
	} else {
		s.notifier.Notify(slog.LevelInfo, "reading time annotations disabled")
		s.clearResults()
	}
	return enabled
}

// Update carries optional config changes. Nil fields keep their
// current value.
type Update struct {
	WordsPerMinute *float64 `json:"words_per_minute"`
	Format         *string  `json:"format"`
	Enabled        *bool    `json:"enabled"`
}

// Configure applies upd and returns a warning per rejected value.
// Rejected values keep their previous setting and never abort the
// accepted ones. Any applied change triggers an immediate recompute
// while annotations are on.
func (s *Session) Configure(upd Update) []string {
	s.touch()

	var warnings []string
	changed := false

	s.mu.Lock()
	if upd.WordsPerMinute != nil {
		if *upd.WordsPerMinute > 0 {
			if s.cfg.WordsPerMinute != *upd.WordsPerMinute {
				s.cfg.WordsPerMinute = *upd.WordsPerMinute
				changed = true
			}
		} else {
			warnings = append(warnings,
				fmt.Sprintf("words per minute must be positive, keeping %v", s.cfg.WordsPerMinute))
		}
	}
	if upd.Format != nil {
		f, err := timeline.ParseFormat(*upd.Format)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%v, keeping %q", err, s.cfg.Format))
		} else if s.cfg.Format != f {
			s.cfg.Format = f
			changed = true
		}
	}
	if upd.Enabled != nil && *upd.Enabled != s.enabled {
		s.enabled = *upd.Enabled
		changed = true
	}
	enabled := s.enabled
	s.mu.Unlock()

	for _, w := range warnings {
		s.notifier.Notify(slog.LevelWarn, w)
	}

	if changed {
		if enabled {
			s.pass(context.Background())
		} else {
			s.clearResults()
		}
	}
	return warnings
}

// SetWordsPerMinute updates the reading rate, keeping the old rate if
// wpm is not positive.
func (s *Session) SetWordsPerMinute(wpm float64) []string {
	return s.Configure(Update{WordsPerMinute: &wpm})
}

// SetFormat updates the label format, keeping the old format if the
// name is unknown.
func (s *Session) SetFormat(format string) []string {
	return s.Configure(Update{Format: &format})
}

func (s *Session) clearResults() {
	s.sink.Clear()
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// pass runs the full pipeline once: snapshot the document, extract the
// outline, compute the timeline, and rewrite the sink wholesale.
func (s *Session) pass(context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	cfg := s.cfg
	enabled := s.enabled
	provider := s.provider
	s.mu.Unlock()

	if !enabled || provider == nil {
		return
	}

	start := time.Now()
	snap := s.doc.Snapshot()
	headings := provider.Outline([]byte(snap.Content()))
	tl := timeline.Compute(headings, snap.Lines, cfg)

	s.sink.Clear()
	for _, e := range tl.Entries {
		s.sink.Set(e.Row, e.Label)
	}

	elapsed := time.Since(start)
	s.stats.Record(elapsed.Milliseconds())

	s.mu.Lock()
	s.current = tl
	s.passes++
	s.lastPass = time.Now()
	onPass := s.onPass
	s.mu.Unlock()

	s.log.Debug("pass complete",
		"version", snap.Version,
		"sections", len(tl.Entries),
		"words", tl.TotalWords,
		"elapsed_ms", elapsed.Milliseconds())

	if onPass != nil {
		onPass(tl)
	}
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID        string            `json:"id"`
	Document  document.Snapshot `json:"document"`
	Enabled   bool              `json:"enabled"`
	Config    timeline.Config   `json:"config"`
	Passes    int               `json:"passes"`
	LastPass  time.Time         `json:"last_pass"`
	CreatedAt time.Time         `json:"created_at"`
}

func (s *Session) Snapshot() Snapshot {
	doc := s.doc.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.id,
		Document:  doc,
		Enabled:   s.enabled,
		Config:    s.cfg,
		Passes:    s.passes,
		LastPass:  s.lastPass,
		CreatedAt: s.created,
	}
}
