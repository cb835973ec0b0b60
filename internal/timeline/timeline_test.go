package timeline

import (
	"math"
	"strings"
	"testing"

	"github.com/nick-skriabin/readtime/internal/outline"
)

func computeSource(t *testing.T, src string, cfg Config) *Timeline {
	t.Helper()
	headings := outline.NewMarkdown().Outline([]byte(src))
	return Compute(headings, strings.Split(src, "\n"), cfg)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTwoSectionScenario(t *testing.T) {
	src := "# Title\n## A\none two three four five\n## B\n```\nignored code\n```\nsix seven"
	tl := computeSource(t, src, Config{WordsPerMinute: 200, Format: FormatShort})

	if len(tl.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tl.Entries))
	}

	a, b := tl.Entries[0], tl.Entries[1]
	if a.Heading.Title != "A" || a.Row != 1 {
		t.Errorf("expected first entry for A at row 1, got %q at row %d", a.Heading.Title, a.Row)
	}
	if a.Words != 5 || !near(a.Minutes, 0.025) || !near(a.StartMinutes, 0) {
		t.Errorf("A: expected 5 words, 0.025 min at 0, got %d words, %v min at %v",
			a.Words, a.Minutes, a.StartMinutes)
	}
	if a.Label != "[00:00:00]" {
		t.Errorf("A: expected label %q, got %q", "[00:00:00]", a.Label)
	}

	if b.Heading.Title != "B" || b.Row != 3 {
		t.Errorf("expected second entry for B at row 3, got %q at row %d", b.Heading.Title, b.Row)
	}
	if b.Words != 2 || !near(b.Minutes, 0.01) || !near(b.StartMinutes, 0.025) {
		t.Errorf("B: expected 2 words, 0.01 min at 0.025, got %d words, %v min at %v",
			b.Words, b.Minutes, b.StartMinutes)
	}
	if b.Label != "[00:00:01]" {
		t.Errorf("B: expected label %q, got %q", "[00:00:01]", b.Label)
	}

	if tl.TotalWords != 7 || !near(tl.TotalMinutes, 0.035) {
		t.Errorf("expected totals 7 words / 0.035 min, got %d / %v", tl.TotalWords, tl.TotalMinutes)
	}
}

func TestComputeFullLabels(t *testing.T) {
	src := "# Title\n## A\none two three four five\n## B\n```\nignored code\n```\nsix seven"
	tl := computeSource(t, src, Config{WordsPerMinute: 200, Format: FormatFull})

	if len(tl.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tl.Entries))
	}
	if got := tl.Entries[0].Label; got != "[00:00:00 - 00:00:01 @ 00:01]" {
		t.Errorf("A: got %q", got)
	}
	if got := tl.Entries[1].Label; got != "[00:00:01 - 00:00:02 @ 00:00]" {
		t.Errorf("B: got %q", got)
	}
}

func TestComputeLeadingTitleIsFrontMatter(t *testing.T) {
	tl := computeSource(t, "# Only\nwords here below", Config{WordsPerMinute: 200, Format: FormatFull})
	if len(tl.Entries) != 0 {
		t.Fatalf("expected no entries under a lone title, got %d", len(tl.Entries))
	}

	tl = computeSource(t, "## Sub\nwords here below", Config{WordsPerMinute: 200, Format: FormatFull})
	if len(tl.Entries) != 1 {
		t.Fatalf("expected a level-2 first heading to get a section, got %d entries", len(tl.Entries))
	}
}

func TestComputeLaterTopLevelHeadingIsAnnotated(t *testing.T) {
	src := "# T\n## A\nwords\n# Later\nmore words"
	tl := computeSource(t, src, Config{WordsPerMinute: 200, Format: FormatFull})

	if len(tl.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tl.Entries))
	}
	if tl.Entries[1].Heading.Title != "Later" {
		t.Errorf("expected second entry for %q, got %q", "Later", tl.Entries[1].Heading.Title)
	}
}

func TestComputeFenceCarriesAcrossSections(t *testing.T) {
	lines := []string{
		"## A",
		"```",
		"## B",
		"text hidden by fence",
		"```",
		"## C",
		"one two",
	}
	headings := []outline.Heading{
		{Level: 2, Title: "A", Start: outline.Position{Row: 0}, End: outline.Position{Row: 0}},
		{Level: 2, Title: "B", Start: outline.Position{Row: 2}, End: outline.Position{Row: 2}},
		{Level: 2, Title: "C", Start: outline.Position{Row: 5}, End: outline.Position{Row: 5}},
	}

	tl := Compute(headings, lines, Config{WordsPerMinute: 200, Format: FormatShort})
	if len(tl.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tl.Entries))
	}
	c := tl.Entries[0]
	if c.Heading.Title != "C" || c.Words != 2 {
		t.Errorf("expected C with 2 words, got %q with %d", c.Heading.Title, c.Words)
	}
	if !near(c.StartMinutes, 0) {
		t.Errorf("expected fenced sections to leave the offset at 0, got %v", c.StartMinutes)
	}
}

func TestComputeCumulativeOffsets(t *testing.T) {
	counts := []int{10, 20, 30}
	var sb strings.Builder
	for i, n := range counts {
		sb.WriteString("## S")
		sb.WriteByte(byte('1' + i))
		sb.WriteByte('\n')
		sb.WriteString(strings.TrimSpace(strings.Repeat("w ", n)))
		sb.WriteByte('\n')
	}

	tl := computeSource(t, sb.String(), Config{WordsPerMinute: 200, Format: FormatFull})
	if len(tl.Entries) != len(counts) {
		t.Fatalf("expected %d entries, got %d", len(counts), len(tl.Entries))
	}

	var running float64
	for i, e := range tl.Entries {
		if e.Words != counts[i] {
			t.Errorf("entry %d: expected %d words, got %d", i, counts[i], e.Words)
		}
		if !near(e.StartMinutes, running) {
			t.Errorf("entry %d: expected start %v, got %v", i, running, e.StartMinutes)
		}
		want := float64(counts[i]) / 200
		if !near(e.Minutes, want) {
			t.Errorf("entry %d: expected %v minutes, got %v", i, want, e.Minutes)
		}
		running += e.Minutes
	}
	if !near(tl.TotalMinutes, running) {
		t.Errorf("expected total %v, got %v", running, tl.TotalMinutes)
	}
}

func TestSectionsReorderHeadings(t *testing.T) {
	lines := []string{"## A", "one", "## B", "two"}
	shuffled := []outline.Heading{
		{Level: 2, Title: "B", Start: outline.Position{Row: 2}, End: outline.Position{Row: 2}},
		{Level: 2, Title: "A", Start: outline.Position{Row: 0}, End: outline.Position{Row: 0}},
	}

	sections := Sections(shuffled, lines)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Heading.Title != "A" || sections[1].Heading.Title != "B" {
		t.Errorf("expected sections ordered A then B, got %q then %q",
			sections[0].Heading.Title, sections[1].Heading.Title)
	}
	if sections[0].Start != 1 || sections[0].End != 1 {
		t.Errorf("A: expected rows 1-1, got %d-%d", sections[0].Start, sections[0].End)
	}
}

func TestSectionsAdjacentHeadingsYieldNoSection(t *testing.T) {
	src := "## A\n## B\nwords for b"
	tl := computeSource(t, src, Config{WordsPerMinute: 200, Format: FormatFull})

	if len(tl.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tl.Entries))
	}
	if tl.Entries[0].Heading.Title != "B" {
		t.Errorf("expected entry for B, got %q", tl.Entries[0].Heading.Title)
	}
}

func TestSectionsDropStaleHeaderRow(t *testing.T) {
	lines := []string{"## A", "# stale header text", "real words here"}
	headings := []outline.Heading{
		{Level: 2, Title: "A", Start: outline.Position{Row: 0}, End: outline.Position{Row: 0}},
	}

	sections := Sections(headings, lines)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Start != 2 {
		t.Errorf("expected content to start at row 2, got %d", sections[0].Start)
	}

	tl := Compute(headings, lines, Config{WordsPerMinute: 200, Format: FormatFull})
	if len(tl.Entries) != 1 || tl.Entries[0].Words != 3 {
		t.Fatalf("expected 3 counted words, got %+v", tl.Entries)
	}
}

func TestSectionsBlankContentNotEmitted(t *testing.T) {
	src := "## A\n\n   \n## B\nword"
	tl := computeSource(t, src, Config{WordsPerMinute: 200, Format: FormatFull})

	if len(tl.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tl.Entries))
	}
	if tl.Entries[0].Heading.Title != "B" || !near(tl.Entries[0].StartMinutes, 0) {
		t.Errorf("expected B starting at 0, got %q at %v",
			tl.Entries[0].Heading.Title, tl.Entries[0].StartMinutes)
	}
}

func TestComputeTinySectionKeepsEntry(t *testing.T) {
	tl := computeSource(t, "## A\none", Config{WordsPerMinute: 200, Format: FormatShort})

	if len(tl.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tl.Entries))
	}
	e := tl.Entries[0]
	if !near(e.Minutes, 0.005) {
		t.Errorf("expected 0.005 minutes, got %v", e.Minutes)
	}
	if e.Label != "[00:00:00]" {
		t.Errorf("expected %q, got %q", "[00:00:00]", e.Label)
	}
}

func TestComputeConfigFallbacks(t *testing.T) {
	src := "## A\n" + strings.TrimSpace(strings.Repeat("w ", 200))

	tl := Compute(outline.NewMarkdown().Outline([]byte(src)), strings.Split(src, "\n"),
		Config{WordsPerMinute: 0, Format: "bogus"})
	if len(tl.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tl.Entries))
	}
	e := tl.Entries[0]
	if !near(e.Minutes, 1) {
		t.Errorf("expected default rate to give 1 minute, got %v", e.Minutes)
	}
	if e.Label != "[00:00:00 - 00:01:00 @ 01:00]" {
		t.Errorf("expected default full label, got %q", e.Label)
	}
}
