// Package render prints annotated documents and outlines for
// terminals.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/outline"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

// scheme defines consistent colors for rendered output.
// Cyan: annotation labels. Green: headings. Yellow: totals.
type scheme struct {
	label   *color.Color
	heading *color.Color
	total   *color.Color
	dim     *color.Color
}

func newScheme() *scheme {
	return &scheme{
		label:   color.New(color.FgCyan),
		heading: color.New(color.FgGreen, color.Bold),
		total:   color.New(color.FgYellow),
		dim:     color.New(color.Faint),
	}
}

// Renderer writes annotated output. Color is applied only when the
// destination is a terminal and not explicitly disabled.
type Renderer struct {
	out    io.Writer
	scheme *scheme
	color  bool
}

func New(out io.Writer, noColor bool) *Renderer {
	return &Renderer{
		out:    out,
		scheme: newScheme(),
		color:  !noColor && isTerminal(out),
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) paint(c *color.Color, format string, args ...any) string {
	if r.color {
		return c.Sprintf(format, args...)
	}
	return fmt.Sprintf(format, args...)
}

// Document prints every line of the snapshot, appending each
// annotation to its header row.
func (r *Renderer) Document(snap document.Snapshot, tl *timeline.Timeline) {
	labels := make(map[int]string, len(tl.Entries))
	for _, e := range tl.Entries {
		labels[e.Row] = e.Label
	}

	for row, line := range snap.Lines {
		if label, ok := labels[row]; ok {
			fmt.Fprintf(r.out, "%s  %s\n", line, r.paint(r.scheme.label, "%s", label))
		} else {
			fmt.Fprintln(r.out, line)
		}
	}
}

// Outline prints the heading tree indented by level, annotated
// headings carrying their label and word count, then a total line.
func (r *Renderer) Outline(name string, headings []outline.Heading, tl *timeline.Timeline) {
	byRow := make(map[int]timeline.Entry, len(tl.Entries))
	for _, e := range tl.Entries {
		byRow[e.Row] = e
	}

	fmt.Fprintln(r.out, name)
	for _, h := range headings {
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		title := r.paint(r.scheme.heading, "%s", h.Title)
		if e, ok := byRow[h.Start.Row]; ok {
			fmt.Fprintf(r.out, "%s%s %s %s\n",
				indent, title,
				r.paint(r.scheme.label, "%s", e.Label),
				r.paint(r.scheme.dim, "(%d words)", e.Words))
		} else {
			fmt.Fprintf(r.out, "%s%s\n", indent, title)
		}
	}

	fmt.Fprintln(r.out, r.paint(r.scheme.total,
		"total %s (%d words)", timeline.DurationStamp(tl.TotalMinutes), tl.TotalWords))
}
