package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/outline"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

func annotated(t *testing.T, src string) (document.Snapshot, []outline.Heading, *timeline.Timeline) {
	t.Helper()
	doc := document.New("d1", "notes.md", document.KindMarkdown, src)
	snap := doc.Snapshot()
	headings := outline.NewMarkdown().Outline([]byte(src))
	tl := timeline.Compute(headings, snap.Lines, timeline.Config{WordsPerMinute: 200, Format: timeline.FormatShort})
	return snap, headings, tl
}

func TestDocumentAppendsLabelsToHeaderRows(t *testing.T) {
	snap, _, tl := annotated(t, "# Title\n## A\none two three four five\n## B\nsix seven")

	var buf bytes.Buffer
	New(&buf, false).Document(snap, tl)

	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "# Title" {
		t.Errorf("expected title row untouched, got %q", lines[0])
	}
	if lines[1] != "## A  [00:00:00]" {
		t.Errorf("expected annotated header, got %q", lines[1])
	}
	if lines[2] != "one two three four five" {
		t.Errorf("expected body row untouched, got %q", lines[2])
	}
	if lines[3] != "## B  [00:00:01]" {
		t.Errorf("expected annotated header, got %q", lines[3])
	}
}

func TestDocumentBufferOutputHasNoEscapeCodes(t *testing.T) {
	snap, _, tl := annotated(t, "## A\nwords here")

	var buf bytes.Buffer
	New(&buf, false).Document(snap, tl)

	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected plain output for non-terminal writer, got %q", buf.String())
	}
}

func TestOutlineIndentsByLevel(t *testing.T) {
	src := "# Guide\n## Setup\nten words of setup text here right now okay done\n### Deep\nmore words"
	_, headings, tl := annotated(t, src)

	var buf bytes.Buffer
	New(&buf, true).Outline("guide.md", headings, tl)

	out := buf.String()
	lines := strings.Split(out, "\n")
	if lines[0] != "guide.md" {
		t.Errorf("expected name first, got %q", lines[0])
	}
	if lines[1] != "Guide" {
		t.Errorf("expected unannotated title, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  Setup [00:00:00] (10 words)") {
		t.Errorf("expected indented annotated heading, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "    Deep ") {
		t.Errorf("expected deeper indent, got %q", lines[3])
	}
	if !strings.Contains(out, "total ") {
		t.Errorf("expected total line, got %q", out)
	}
}
