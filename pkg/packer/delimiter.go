package packer

import (
	"fmt"
	"strconv"
	"strings"
)

// delimiterWords maps a file's 1-based position to a readable marker word.
// Positions beyond the table fall back to a plain FILE<n> token.
var delimiterWords = [26]string{
	"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO", "FOXTROT", "GOLF",
	"HOTEL", "INDIA", "JULIET", "KILO", "LIMA", "MIKE", "NOVEMBER",
	"OSCAR", "PAPA", "QUEBEC", "ROMEO", "SIERRA", "TANGO", "UNIFORM",
	"VICTOR", "WHISKEY", "XRAY", "YANKEE", "ZULU",
}

// Delimiter derives the heredoc marker used to frame one file's content.
// The marker is deterministic in (path, position) and is guaranteed not to
// appear as an exact line anywhere in content, so a consumer can split the
// framed block back apart without any body escaping.
func Delimiter(path string, position int, content string) string {
	base := positionWord(position) + "_" + strconv.Itoa(position) + "_" + pathHash(path)

	lines := lineSet(content)
	if _, taken := lines[base]; !taken {
		return base
	}

	// The base collides with a content line. Probe numeric suffixes first;
	// 256 attempts is far more than any real content will exhaust.
	for i := 1; i <= 256; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if _, taken := lines[candidate]; !taken {
			return candidate
		}
	}

	// Content contains all 256 probes. Mix in the content length and probe
	// again, unbounded this time: content is finite and every candidate is
	// distinct, so this terminates.
	fallback := base + "_" + strings.ToUpper(strconv.FormatInt(int64(len(content)), 36))
	if _, taken := lines[fallback]; !taken {
		return fallback
	}
	for i := 1; ; i++ {
		candidate := fallback + "_" + strconv.Itoa(i)
		if _, taken := lines[candidate]; !taken {
			return candidate
		}
	}
}

// pathHash returns a short fixed-width fingerprint of path: djb2 over the
// code points, rendered as 6 uppercase hex digits. It only needs to be
// collision-resistant enough that two files in one request get distinct
// markers.
func pathHash(path string) string {
	var h uint32 = 5381
	for _, r := range path {
		h = h*33 + uint32(r)
	}
	hex := fmt.Sprintf("%06X", h)
	return hex[:6]
}

func positionWord(position int) string {
	if position >= 1 && position <= len(delimiterWords) {
		return delimiterWords[position-1]
	}
	return fmt.Sprintf("FILE%d", position)
}

// lineSet returns every line of content for O(1) collision lookup. Trailing
// carriage returns are stripped so CRLF content can't hide a collision.
func lineSet(content string) map[string]struct{} {
	lines := strings.Split(content, "\n")
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		set[strings.TrimSuffix(line, "\r")] = struct{}{}
	}
	return set
}
