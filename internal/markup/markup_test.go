package markup

import "testing"

func TestCleanStripsMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "one two three", "one two three"},
		{"link dropped whole", "see [the docs](https://example.com) here", "see  here"},
		{"bold keeps text", "a **bold** word", "a bold word"},
		{"italic keeps text", "an *italic* word", "an italic word"},
		{"inline code dropped", "run `go build` now", "run  now"},
		{"bullet marker", "- item one", "item one"},
		{"indented bullet", "  - nested item", "nested item"},
		{"ordered marker", "1. first step", "first step"},
		{"ordered two digits", "12. later step", "later step"},
		{"mixed", "- see [link](u) and **bold** plus `code`", "see  and bold plus "},
	}
	for _, tc := range cases {
		got, fence := Clean(tc.in, false)
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
		if fence {
			t.Errorf("%s: expected fence flag to stay false", tc.name)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"plain prose line",
		"see [the docs](https://example.com) here",
		"a **bold** and *italic* mix",
		"run `go build` now",
		"- 1. listy [l](u) **b**",
		"",
		"   ",
	}
	for _, in := range inputs {
		once, _ := Clean(in, false)
		twice, _ := Clean(once, false)
		if once != twice {
			t.Errorf("input %q: first pass %q, second pass %q", in, once, twice)
		}
	}
}

func TestCleanFenceDelimiterTogglesAndYieldsNothing(t *testing.T) {
	got, fence := Clean("```go", false)
	if got != "" {
		t.Fatalf("expected empty prose for delimiter, got %q", got)
	}
	if !fence {
		t.Fatal("expected fence to open")
	}

	got, fence = Clean("```", true)
	if got != "" {
		t.Fatalf("expected empty prose for closing delimiter, got %q", got)
	}
	if fence {
		t.Fatal("expected fence to close")
	}
}

func TestCleanIndentedFenceDelimiter(t *testing.T) {
	if !IsFence("   ```") {
		t.Fatal("expected indented delimiter to count as a fence")
	}
	if IsFence("text ```") {
		t.Fatal("expected mid-line backticks not to count as a fence")
	}
}

func TestCleanInsideFenceContributesNothing(t *testing.T) {
	got, fence := Clean("func main() { panic(1) }", true)
	if got != "" {
		t.Fatalf("expected empty prose inside fence, got %q", got)
	}
	if !fence {
		t.Fatal("expected fence to stay open")
	}
}

func TestCountLinesCarriesFenceAcrossLines(t *testing.T) {
	lines := []string{
		"one two",
		"```",
		"ignored words here",
		"```",
		"three",
	}
	words, fence := CountLines(lines, false)
	if words != 3 {
		t.Fatalf("expected 3 words, got %d", words)
	}
	if fence {
		t.Fatal("expected fence closed after matched delimiters")
	}
}

func TestCountLinesFenceParity(t *testing.T) {
	lines := []string{"```", "code", "```", "```", "more"}
	_, fence := CountLines(lines, false)
	if !fence {
		t.Fatal("expected odd delimiter count to leave fence open")
	}

	_, fence = CountLines(append(lines, "```"), false)
	if fence {
		t.Fatal("expected even delimiter count to leave fence closed")
	}
}

func TestCountWords(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"  spaced\tout\nwords  ", 3},
	}
	for _, tc := range cases {
		if got := CountWords(tc.in); got != tc.want {
			t.Errorf("CountWords(%q): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}
