package session

import (
	"sort"
	"sync"
)

// Sink receives rendered labels for a document. A recompute pass
// always calls Clear before any Set, so a sink never holds a mix of
// two passes.
type Sink interface {
	Clear()
	Set(row int, text string)
}

// Annotation is one rendered label bound to a document row.
type Annotation struct {
	Row  int    `json:"row"`
	Text string `json:"text"`
}

// MemorySink keeps the latest annotations in memory for hosts that
// poll instead of pushing into an editor surface.
type MemorySink struct {
	mu   sync.Mutex
	rows map[int]string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{rows: make(map[int]string)}
}

func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make(map[int]string)
}

func (s *MemorySink) Set(row int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row] = text
}

// Annotations returns the current labels sorted by row.
func (s *MemorySink) Annotations() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Annotation, 0, len(s.rows))
	for row, text := range s.rows {
		out = append(out, Annotation{Row: row, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}
