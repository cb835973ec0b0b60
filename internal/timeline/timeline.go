// Package timeline turns a document's headings and body text into
// cumulative reading-time annotations.
//
// A pass partitions the document's rows into sections, one per
// heading, counts the prose words in each, converts counts to time at
// a configured reading rate, and renders one label per section whose
// start offset is the total reading time of everything above it.
package timeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nick-skriabin/readtime/internal/markup"
	"github.com/nick-skriabin/readtime/internal/outline"
)

// Config controls estimation and label rendering.
type Config struct {
	WordsPerMinute float64 `json:"words_per_minute"`
	Format         Format  `json:"format"`
}

// DefaultConfig returns the stock reading rate and label format.
func DefaultConfig() Config {
	return Config{WordsPerMinute: 200, Format: FormatFull}
}

// Section is the contiguous run of body rows owned by one heading.
// Start and End are inclusive row indexes.
type Section struct {
	Heading outline.Heading
	Start   int
	End     int
}

// Entry is one computed annotation, anchored to its heading's start
// row.
type Entry struct {
	Heading      outline.Heading `json:"heading"`
	Row          int             `json:"row"`
	Words        int             `json:"words"`
	Minutes      float64         `json:"minutes"`
	StartMinutes float64         `json:"start_minutes"`
	Label        string          `json:"label"`
}

// Timeline is the annotation set produced by one document pass.
type Timeline struct {
	Entries      []Entry `json:"entries"`
	TotalWords   int     `json:"total_words"`
	TotalMinutes float64 `json:"total_minutes"`
}

var atxLine = regexp.MustCompile(`^#{1,6}\s`)

// Sections partitions lines among headings. Headings are re-sorted by
// start row first, since providers make no ordering promise. The first
// heading is skipped when it is level 1: a leading top-level title is
// front matter, not a section. Each remaining heading owns the rows
// from just below its last header row down to the row above the next
// heading, or the end of the document.
//
// A section whose first row still looks like a header line is a sign
// the heading rows have drifted from the text; the row is dropped
// rather than counted. Sections left with no non-blank rows are not
// emitted.
func Sections(headings []outline.Heading, lines []string) []Section {
	ordered := make([]outline.Heading, len(headings))
	copy(ordered, headings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Row < ordered[j].Start.Row
	})

	var sections []Section
	for i, h := range ordered {
		if i == 0 && h.Level == 1 {
			continue
		}

		start := h.End.Row + 1
		if start < 0 {
			start = 0
		}
		end := len(lines) - 1
		if i+1 < len(ordered) && ordered[i+1].Start.Row-1 < end {
			end = ordered[i+1].Start.Row - 1
		}
		if start <= end && atxLine.MatchString(lines[start]) {
			start++
		}
		if start > end || !hasContent(lines, start, end) {
			continue
		}
		sections = append(sections, Section{Heading: h, Start: start, End: end})
	}
	return sections
}

func hasContent(lines []string, start, end int) bool {
	for row := start; row <= end && row < len(lines); row++ {
		if strings.TrimSpace(lines[row]) != "" {
			return true
		}
	}
	return false
}

// Compute runs a full pass over the document. Out-of-range config
// values fall back to defaults so a pass always yields a usable
// timeline.
//
// The fence state carries from one section into the next, so a code
// block opened under one heading keeps later sections' fenced rows out
// of their counts until it closes. Sections whose prose rounds to zero
// time produce no entry and do not advance the running offset.
func Compute(headings []outline.Heading, lines []string, cfg Config) *Timeline {
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = DefaultConfig().WordsPerMinute
	}
	if _, err := ParseFormat(string(cfg.Format)); err != nil {
		cfg.Format = DefaultConfig().Format
	}

	tl := &Timeline{}
	inFence := false
	for _, sec := range Sections(headings, lines) {
		words, next := markup.CountLines(lines[sec.Start:sec.End+1], inFence)
		inFence = next

		minutes := float64(words) / cfg.WordsPerMinute
		if minutes <= 0 {
			continue
		}
		tl.Entries = append(tl.Entries, Entry{
			Heading:      sec.Heading,
			Row:          sec.Heading.Start.Row,
			Words:        words,
			Minutes:      minutes,
			StartMinutes: tl.TotalMinutes,
			Label:        Label(tl.TotalMinutes, minutes, cfg.Format),
		})
		tl.TotalWords += words
		tl.TotalMinutes += minutes
	}
	return tl
}
