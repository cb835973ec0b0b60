package outline

import "testing"

func TestOutlineATXHeadings(t *testing.T) {
	src := "# Title\n\n## Section A\nbody text\n### Sub\n"
	headings := NewMarkdown().Outline([]byte(src))

	if len(headings) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(headings))
	}

	want := []struct {
		level int
		title string
		row   int
	}{
		{1, "Title", 0},
		{2, "Section A", 2},
		{3, "Sub", 4},
	}
	for i, w := range want {
		h := headings[i]
		if h.Level != w.level {
			t.Errorf("heading %d: expected level %d, got %d", i, w.level, h.Level)
		}
		if h.Title != w.title {
			t.Errorf("heading %d: expected title %q, got %q", i, w.title, h.Title)
		}
		if h.Start.Row != w.row || h.End.Row != w.row {
			t.Errorf("heading %d: expected rows %d-%d, got %d-%d", i, w.row, w.row, h.Start.Row, h.End.Row)
		}
	}
}

func TestOutlineTitleDropsInlineMarkup(t *testing.T) {
	headings := NewMarkdown().Outline([]byte("## Hello *World*\n"))
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if headings[0].Title != "Hello World" {
		t.Errorf("expected title %q, got %q", "Hello World", headings[0].Title)
	}
}

func TestOutlineSetextSpansUnderline(t *testing.T) {
	src := "Title\n=====\nbody\n\nSecond\n------\n"
	headings := NewMarkdown().Outline([]byte(src))

	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}
	first, second := headings[0], headings[1]

	if first.Level != 1 || first.Start.Row != 0 || first.End.Row != 1 {
		t.Errorf("expected level 1 spanning rows 0-1, got level %d rows %d-%d",
			first.Level, first.Start.Row, first.End.Row)
	}
	if second.Level != 2 || second.Start.Row != 4 || second.End.Row != 5 {
		t.Errorf("expected level 2 spanning rows 4-5, got level %d rows %d-%d",
			second.Level, second.Start.Row, second.End.Row)
	}
}

func TestOutlineSetextAbsorbsPrecedingParagraph(t *testing.T) {
	src := "body\nSecond\n------\n"
	headings := NewMarkdown().Outline([]byte(src))

	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	h := headings[0]
	if h.Level != 2 || h.Start.Row != 0 || h.End.Row != 2 {
		t.Errorf("expected level 2 spanning rows 0-2, got level %d rows %d-%d",
			h.Level, h.Start.Row, h.End.Row)
	}
}

func TestOutlineIgnoresHeadingsInsideFences(t *testing.T) {
	src := "# Real\n```\n# Not a heading\n```\n"
	headings := NewMarkdown().Outline([]byte(src))

	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if headings[0].Title != "Real" {
		t.Errorf("expected title %q, got %q", "Real", headings[0].Title)
	}
}

func TestOutlineSkipsEmptyHeading(t *testing.T) {
	src := "##\n# Real\n"
	headings := NewMarkdown().Outline([]byte(src))

	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if headings[0].Title != "Real" || headings[0].Start.Row != 1 {
		t.Errorf("expected %q at row 1, got %q at row %d",
			"Real", headings[0].Title, headings[0].Start.Row)
	}
}

func TestOutlineEmptySource(t *testing.T) {
	if headings := NewMarkdown().Outline(nil); len(headings) != 0 {
		t.Fatalf("expected no headings, got %d", len(headings))
	}
}

func TestOutlineIndentedHeadingColumn(t *testing.T) {
	headings := NewMarkdown().Outline([]byte("  ## Indented\n"))
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if headings[0].Start.Col != 2 {
		t.Errorf("expected start column 2, got %d", headings[0].Start.Col)
	}
}
