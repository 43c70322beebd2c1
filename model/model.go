// Package model defines the domain types shared across readpack packages.
// It has zero dependencies on other readpack packages.
package model

import "time"

// Invocation records one pack call: what was requested, which strategy won,
// and how much of the budget the output used.
type Invocation struct {
	ID           string    `json:"id"`
	RequestJSON  string    `json:"request_json"` // the file list as submitted
	Strategy     string    `json:"strategy"`
	Switched     bool      `json:"switched"`
	Processed    int       `json:"processed"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	FullCount    int       `json:"full_count"`
	PartialCount int       `json:"partial_count"`
	OmittedCount int       `json:"omitted_count"`
	UsedBytes    int       `json:"used_bytes"`
	UsedLines    int       `json:"used_lines"`
	CreatedAt    time.Time `json:"created_at"`
}

// FileOutcome records one file's result within an invocation.
type FileOutcome struct {
	ID           int64  `json:"id"`
	InvocationID string `json:"invocation_id"`
	FileIndex    int    `json:"file_index"`
	Path         string `json:"path"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
	ImageCount   int    `json:"image_count,omitempty"`
	Inclusion    string `json:"inclusion"` // "full", "partial", or "omitted"
}

// Truncate shortens a string to maxLen runes, adding "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
