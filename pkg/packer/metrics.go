package packer

import "strings"

// TextMetrics is the measured size of a text blob.
type TextMetrics struct {
	Bytes int // UTF-8 byte length
	Lines int // newline-delimited segment count
}

// Measure computes the metrics of text. A string with no newline is one line;
// a trailing newline adds an empty final line.
func Measure(text string) TextMetrics {
	return TextMetrics{
		Bytes: len(text),
		Lines: strings.Count(text, "\n") + 1,
	}
}

// FitsWithin reports whether these metrics fit inside the budget.
func (m TextMetrics) FitsWithin(b Budget) bool {
	return m.Bytes <= b.MaxBytes && m.Lines <= b.MaxLines
}
