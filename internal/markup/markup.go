// Package markup reduces structured text lines to countable prose.
//
// Cleaning is line-oriented and carries a single piece of state, the
// open-fence flag, so callers can stream a document in order and keep
// fenced code invisible to word counts even when a fence spans many
// sections.
package markup

import (
	"regexp"
	"strings"
)

var (
	linkRe       = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	strongRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	emphasisRe   = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCodeRe = regexp.MustCompile("`[^`]*`")
	bulletRe     = regexp.MustCompile(`^\s*-\s+`)
	orderedRe    = regexp.MustCompile(`^\s*\d+\.\s+`)
)

// IsFence reports whether line delimits a code fence: three backticks
// after optional leading whitespace. Both opening and closing
// delimiters (and any info string after the backticks) satisfy it.
func IsFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "```")
}

// Clean returns the prose content of line together with the fence flag
// to carry into the next line.
//
// A fence delimiter toggles the flag and contributes no prose. A line
// inside an open fence contributes no prose. Everywhere else the
// markup that would inflate word counts is removed: links drop whole
// (their URLs are not prose), emphasis markers drop but keep the
// wrapped text, inline code spans drop whole, and leading list markers
// drop. The output of Clean passes through Clean unchanged.
func Clean(line string, inFence bool) (string, bool) {
	if IsFence(line) {
		return "", !inFence
	}
	if inFence {
		return "", true
	}

	s := linkRe.ReplaceAllString(line, "")
	s = strongRe.ReplaceAllString(s, "$1")
	s = emphasisRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "")
	s = bulletRe.ReplaceAllString(s, "")
	s = orderedRe.ReplaceAllString(s, "")
	return s, false
}

// CountWords counts whitespace-separated tokens. Runs of any
// whitespace act as one separator; a blank string counts zero.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// CountLines cleans a run of lines in order, starting from the given
// fence state, and returns the total word count plus the fence state
// after the last line.
func CountLines(lines []string, inFence bool) (int, bool) {
	words := 0
	for _, line := range lines {
		cleaned, next := Clean(line, inFence)
		inFence = next
		words += CountWords(cleaned)
	}
	return words, inFence
}
