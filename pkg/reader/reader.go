// Package reader defines the single-file read primitive the packing core
// consumes, plus the line-windowing helper shared by implementations.
package reader

import (
	"context"
	"strings"
	"unicode/utf8"
)

// MaxLineLength is the per-line byte cap applied by Window. Lines longer than
// this are clipped rather than returned whole.
const MaxLineLength = 2000

// Request identifies one file read.
type Request struct {
	Path   string
	Offset int // 1-based first line to return; 0 reads from the beginning
	Limit  int // maximum number of lines; 0 means no limit
}

// Fragment is one piece of a read's content: either text or an opaque image
// payload with its media type.
type Fragment struct {
	Text      string
	Image     []byte // raw payload; nil for text fragments
	MediaType string // e.g. "image/png"; set only for image fragments
}

// IsImage reports whether the fragment is an image payload.
func (f Fragment) IsImage() bool {
	return f.Image != nil || f.MediaType != ""
}

// Truncation describes content the reader itself left out. This is
// read-level truncation, distinct from the pack-level budget truncation.
type Truncation struct {
	TotalLines    int // lines in the underlying content
	ReturnedLines int
	ClippedLines  int // lines shortened to MaxLineLength
}

// Result is the outcome of one successful file read.
type Result struct {
	Fragments  []Fragment
	Truncation *Truncation // nil when nothing was left out
}

// Reader is the read primitive. Implementations may fail with any error;
// callers surface only the message text.
type Reader interface {
	ReadFile(ctx context.Context, req Request) (*Result, error)
}

// Window applies the request's 1-based line offset and line limit to content
// and clips over-long lines. The returned Truncation is nil when the window
// covers the whole content and no line was clipped.
func Window(content string, offset, limit int) (string, *Truncation) {
	lines := strings.Split(content, "\n")
	total := len(lines)

	start := 0
	if offset > 1 {
		start = offset - 1
		if start > total {
			start = total
		}
	}
	end := total
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	window := lines[start:end]

	clipped := 0
	out := make([]string, len(window))
	for i, line := range window {
		if len(line) > MaxLineLength {
			line = clipLine(line, MaxLineLength)
			clipped++
		}
		out[i] = line
	}

	if len(window) == total && clipped == 0 {
		return content, nil
	}
	return strings.Join(out, "\n"), &Truncation{
		TotalLines:    total,
		ReturnedLines: len(window),
		ClippedLines:  clipped,
	}
}

// clipLine cuts a line to at most max bytes at a rune boundary.
func clipLine(line string, max int) string {
	line = line[:max]
	for len(line) > 0 && !utf8.ValidString(line) {
		line = line[:len(line)-1]
	}
	return line
}
