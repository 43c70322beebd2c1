package packer

import (
	"strings"
	"unicode/utf8"
)

const (
	// Budget reserved for the block wrapper (header + both marker lines)
	// before any body text is admitted.
	wrapperLineReserve = 3
	wrapperByteReserve = 96

	// Below this floor a partial block is not worth emitting.
	minPartialBodyLines = 1
	minPartialBytes     = 32

	// The wrapper's exact size isn't known until the block is formatted
	// (it depends on path and delimiter length), so fitting is an iterative
	// shrink. 16 attempts is the contract, not a tuning knob.
	maxFitAttempts   = 16
	byteShrinkMargin = 16
)

// buildPartial produces the largest line-prefix of body whose rendered block
// fits within the remaining budget. The rendered block (header + markers +
// truncated body) is what is measured against the budget, not the body alone.
// ok is false when no usable partial exists.
func buildPartial(path, body string, position, remainingBytes, remainingLines int) (text string, m TextMetrics, ok bool) {
	lineCap := remainingLines - wrapperLineReserve
	byteCap := remainingBytes - wrapperByteReserve
	if lineCap < minPartialBodyLines || remainingBytes < minPartialBytes {
		return "", TextMetrics{}, false
	}

	for attempt := 0; attempt < maxFitAttempts; attempt++ {
		if lineCap < minPartialBodyLines || byteCap < 1 {
			return "", TextMetrics{}, false
		}

		truncated := headOf(body, lineCap, byteCap)
		text = FormatBlock(path, truncated, position)
		m = Measure(text)
		if m.Bytes <= remainingBytes && m.Lines <= remainingLines {
			return text, m, true
		}

		if m.Lines > remainingLines {
			lineCap -= m.Lines - remainingLines
		}
		if m.Bytes > remainingBytes {
			byteCap -= (m.Bytes - remainingBytes) + byteShrinkMargin
		}
	}
	return "", TextMetrics{}, false
}

// headOf keeps at most maxLines leading lines of s, then clips the result to
// maxBytes at a rune boundary. Truncation always drops from the tail.
func headOf(s string, maxLines, maxBytes int) string {
	if strings.Count(s, "\n")+1 > maxLines {
		seen := 0
		for i, c := range s {
			if c != '\n' {
				continue
			}
			seen++
			if seen == maxLines {
				s = s[:i]
				break
			}
		}
	}
	if len(s) > maxBytes {
		s = s[:maxBytes]
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return s
}
