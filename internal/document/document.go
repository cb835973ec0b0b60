// Package document holds the mutable text buffer a session annotates.
package document

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Kind tells a session which outline provider understands the
// document. Unrecognized kinds are held but never annotated.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindPlain    Kind = "plain"
)

// KindForName guesses a document kind from its file name.
func KindForName(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".mdown":
		return KindMarkdown
	}
	return KindPlain
}

// SplitLines splits content into rows. LF and CRLF both terminate a
// row; terminators are not part of any row. Empty content is a single
// empty row.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ContentHashHex computes SHA-256 of content and returns a hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// Document is a named, versioned line buffer. All access goes through
// the mutex so a recompute pass can snapshot while a writer replaces
// content.
type Document struct {
	mu sync.Mutex

	id   string
	name string
	kind Kind

	lines   []string
	hash    string
	version int
	updated time.Time
}

func New(id, name string, kind Kind, content string) *Document {
	d := &Document{id: id, name: name, kind: kind}
	d.lines = SplitLines(content)
	d.hash = ContentHashHex([]byte(content))
	d.version = 1
	d.updated = time.Now()
	return d
}

func (d *Document) ID() string { return d.id }

func (d *Document) Name() string { return d.name }

func (d *Document) Kind() Kind { return d.kind }

// SetContent replaces the buffer and bumps the version. It reports
// false, leaving version and timestamp alone, when content hashes
// identical to what is already held.
func (d *Document) SetContent(content string) bool {
	hash := ContentHashHex([]byte(content))

	d.mu.Lock()
	defer d.mu.Unlock()
	if hash == d.hash {
		return false
	}
	d.lines = SplitLines(content)
	d.hash = hash
	d.version++
	d.updated = time.Now()
	return true
}

// Snapshot is a read-only, JSON-safe copy of document state. Lines is
// a private copy; mutating it does not touch the document.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Version   int       `json:"version"`
	Hash      string    `json:"content_hash"`
	LineCount int       `json:"line_count"`
	UpdatedAt time.Time `json:"updated_at"`

	Lines []string `json:"-"`
}

func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines := make([]string, len(d.lines))
	copy(lines, d.lines)
	return Snapshot{
		ID:        d.id,
		Name:      d.name,
		Kind:      d.kind,
		Version:   d.version,
		Hash:      d.hash,
		LineCount: len(lines),
		UpdatedAt: d.updated,
		Lines:     lines,
	}
}

// Content joins the snapshot rows back into a single string.
func (s Snapshot) Content() string {
	return strings.Join(s.Lines, "\n")
}
