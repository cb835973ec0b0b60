// Package outline extracts the ordered header structure of a document.
package outline

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Position is a zero-based row and column in a document.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Heading is one document header and the rows its source occupies.
// End covers the final header line, so a setext heading spans its
// underline row.
type Heading struct {
	Level int      `json:"level"`
	Title string   `json:"title"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Provider extracts headings from document source. Implementations
// must return headings usable in any order; callers re-sort by start
// row before partitioning a document.
type Provider interface {
	Outline(src []byte) []Heading
}

// Markdown extracts ATX and setext headings using goldmark.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New()}
}

// Outline parses src and returns every heading ordered by start row.
// Headings with no source text (a bare "##" line) are dropped since
// they have no span to anchor an annotation to.
func (m *Markdown) Outline(src []byte) []Heading {
	reader := text.NewReader(src)
	doc := m.md.Parser().Parse(reader)

	starts := lineStarts(src)
	var headings []Heading

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		node, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := node.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}

		startRow := rowAt(starts, lines.At(0).Start)
		stop := lines.At(lines.Len() - 1).Stop
		if stop > lines.At(lines.Len()-1).Start {
			stop--
		}
		endRow := rowAt(starts, stop)

		startLine := lineAt(src, starts, startRow)
		if !isATX(startLine) && endRow+1 < len(starts) && isUnderline(lineAt(src, starts, endRow+1)) {
			endRow++
		}

		headings = append(headings, Heading{
			Level: node.Level,
			Title: string(node.Text(src)),
			Start: Position{Row: startRow, Col: indentOf(startLine)},
			End:   Position{Row: endRow, Col: len(lineAt(src, starts, endRow))},
		})
		return ast.WalkContinue, nil
	})

	sort.SliceStable(headings, func(i, j int) bool {
		return headings[i].Start.Row < headings[j].Start.Row
	})
	return headings
}

// lineStarts returns the byte offset of the first character of each
// line. Offset 0 is always present, so every document has at least one
// row.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// rowAt maps a byte offset to the row containing it.
func rowAt(starts []int, off int) int {
	row := sort.Search(len(starts), func(i int) bool { return starts[i] > off })
	return row - 1
}

func lineAt(src []byte, starts []int, row int) string {
	if row < 0 || row >= len(starts) {
		return ""
	}
	start := starts[row]
	end := len(src)
	if row+1 < len(starts) {
		end = starts[row+1] - 1
	}
	if end < start {
		end = start
	}
	return strings.TrimSuffix(string(src[start:end]), "\r")
}

func isATX(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

// isUnderline reports whether line is a setext underline: nothing but
// equals signs or dashes after trimming.
func isUnderline(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	for _, r := range t {
		if r != '=' && r != '-' {
			return false
		}
	}
	return true
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
