// Package packer reads several files through a reader.Reader and packs their
// contents into one bounded text blob. Each file's content is framed by a
// deterministic, content-collision-free delimiter so a downstream consumer
// (typically an LLM) can split the blob back apart losslessly.
//
// Packing runs under a combined byte/line budget. Candidates are evaluated
// under two orderings (request order and smallest-first) and the orchestrator
// keeps whichever plan fully includes more successfully-read files, preferring
// request order on ties.
package packer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/readpack/readpack/pkg/reader"
)

// MaxFiles is the most files one pack call accepts; it matches the size of
// the delimiter word table.
const MaxFiles = 26

// FileRequest is one entry in a pack call.
type FileRequest struct {
	Path   string `json:"path"`
	Offset int    `json:"offset,omitempty"` // 1-based first line; 0 reads from the start
	Limit  int    `json:"limit,omitempty"`  // max lines; 0 means no limit
}

// Options control a pack call.
type Options struct {
	// StopOnError halts the read loop immediately after the first failing
	// file. The failure is still recorded as an error block; files after it
	// are never read.
	StopOnError bool `json:"stop_on_error,omitempty"`
}

// FileStatus is the per-file outcome of a pack call.
type FileStatus struct {
	Index         int    `json:"index"`
	Path          string `json:"path"`
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
	ImageCount    int    `json:"image_count,omitempty"`
	ReadTruncated bool   `json:"read_truncated,omitempty"` // the reader itself left lines out
	Inclusion     string `json:"inclusion"`                // "full", "partial", or "omitted"
}

// Inclusion values for FileStatus.
const (
	IncludedFull    = "full"
	IncludedPartial = "partial"
	Omitted         = "omitted"
)

// Result is the outcome of one pack call.
type Result struct {
	Text  string       `json:"text"`
	Files []FileStatus `json:"files"`

	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// Packing diagnostics.
	Strategy     string   `json:"strategy"`
	Switched     bool     `json:"switched"` // smallest-first beat request order
	FullPaths    []string `json:"full_paths,omitempty"`
	PartialPath  string   `json:"partial_path,omitempty"`
	OmittedPaths []string `json:"omitted_paths,omitempty"`
	UsedBytes    int      `json:"used_bytes"`
	UsedLines    int      `json:"used_lines"`

	// SafetyTruncated reports that the final backstop truncation altered the
	// assembled text. The planner's accounting should make this impossible;
	// a true value means the accounting drifted.
	SafetyTruncated bool `json:"safety_truncated,omitempty"`
}

// Packer packs batches of files read through a reader.Reader.
type Packer struct {
	reader reader.Reader
	budget Budget
}

// New creates a Packer that reads through r and packs under budget.
func New(r reader.Reader, budget Budget) (*Packer, error) {
	if r == nil {
		return nil, errors.New("packer: reader is required")
	}
	if budget.MaxBytes <= 0 || budget.MaxLines <= 0 {
		return nil, fmt.Errorf("packer: budget must be positive, got %d bytes / %d lines", budget.MaxBytes, budget.MaxLines)
	}
	return &Packer{reader: r, budget: budget}, nil
}

// Budget returns the combined ceiling this packer packs under.
func (p *Packer) Budget() Budget { return p.budget }

// Pack reads each requested file sequentially, in request order, and returns
// the combined framed text plus per-file outcomes and packing diagnostics.
// Reads are never retried; a failed read becomes an error block. Cancellation
// is checked before each read and aborts the whole call.
func (p *Packer) Pack(ctx context.Context, files []FileRequest, opts Options) (*Result, error) {
	if len(files) == 0 {
		return nil, errors.New("packer: at least one file is required")
	}
	if len(files) > MaxFiles {
		return nil, fmt.Errorf("packer: at most %d files per call, got %d", MaxFiles, len(files))
	}

	candidates := make([]FileCandidate, 0, len(files))
	statuses := make([]FileStatus, 0, len(files))

	for i, req := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("packer: canceled before reading %s: %w", req.Path, err)
		}

		res, err := p.reader.ReadFile(ctx, reader.Request{Path: req.Path, Offset: req.Offset, Limit: req.Limit})
		position := i + 1
		if err != nil {
			body := fmt.Sprintf("[Error: %s]", err.Error())
			full := FormatBlock(req.Path, body, position)
			candidates = append(candidates, FileCandidate{
				Index:       i,
				Path:        req.Path,
				FullText:    full,
				FullMetrics: Measure(full),
			})
			statuses = append(statuses, FileStatus{Index: i, Path: req.Path, Error: err.Error()})
			if opts.StopOnError {
				break
			}
			continue
		}

		body, images := bodyFromFragments(res.Fragments)
		full := FormatBlock(req.Path, body, position)
		candidates = append(candidates, FileCandidate{
			Index:       i,
			Path:        req.Path,
			OK:          true,
			FullText:    full,
			FullMetrics: Measure(full),
			Body:        body,
			HasBody:     true,
		})
		statuses = append(statuses, FileStatus{
			Index:         i,
			Path:          req.Path,
			OK:            true,
			ImageCount:    images,
			ReadTruncated: res.Truncation != nil,
		})
	}

	reqPlan := Plan(StrategyRequestOrder, RequestOrder(len(candidates)), candidates, p.budget)
	smallPlan := Plan(StrategySmallestFirst, SmallestFirstOrder(candidates), candidates, p.budget)

	chosen := reqPlan
	switched := false
	if smallPlan.SuccessCount > reqPlan.SuccessCount {
		chosen = smallPlan
		switched = true
	}

	text := renderPlan(candidates, &chosen)
	text, clipped := truncateToBudget(text, p.budget)

	result := &Result{
		Text:            text,
		Files:           statuses,
		Processed:       len(statuses),
		Strategy:        chosen.Strategy,
		Switched:        switched,
		UsedBytes:       chosen.UsedBytes,
		UsedLines:       chosen.UsedLines,
		SafetyTruncated: clipped,
	}
	for i := range result.Files {
		st := &result.Files[i]
		if st.OK {
			result.Succeeded++
		} else {
			result.Failed++
		}
		included, partial := chosen.Includes(st.Index)
		switch {
		case included && partial:
			st.Inclusion = IncludedPartial
			result.PartialPath = st.Path
		case included:
			st.Inclusion = IncludedFull
			result.FullPaths = append(result.FullPaths, st.Path)
		default:
			st.Inclusion = Omitted
			result.OmittedPaths = append(result.OmittedPaths, st.Path)
		}
	}
	return result, nil
}

// bodyFromFragments joins the text fragments of one read into the block body
// and counts image fragments. Reads with no text get a placeholder body so
// the output shape stays uniform.
func bodyFromFragments(fragments []reader.Fragment) (string, int) {
	var texts []string
	images := 0
	for _, f := range fragments {
		if f.IsImage() {
			images++
			continue
		}
		texts = append(texts, f.Text)
	}

	body := strings.Join(texts, "\n")
	switch {
	case len(texts) == 0 && images > 0:
		body = fmt.Sprintf("[%d image(s) returned, not rendered as text]", images)
	case len(texts) == 0:
		body = "[No text content returned]"
	case images > 0:
		body += fmt.Sprintf("\n[+%d image(s) not rendered]", images)
	}
	return body, images
}

// renderPlan assembles the chosen plan's sections in original request order,
// joined by blank lines. Omitted candidates emit nothing.
func renderPlan(candidates []FileCandidate, plan *PackingPlan) string {
	sections := make([]string, 0, plan.FullCount+1)
	for i := range candidates {
		included, partial := plan.Includes(i)
		switch {
		case included && partial:
			sections = append(sections, plan.Partial.Text)
		case included:
			sections = append(sections, candidates[i].FullText)
		}
	}
	return strings.Join(sections, "\n\n")
}

// truncateToBudget clips text to the budget as a last-resort backstop. The
// planner's accounting keeps the assembly within budget, so this is expected
// to be a no-op; it exists to guard against accounting drift.
func truncateToBudget(text string, b Budget) (string, bool) {
	if Measure(text).FitsWithin(b) {
		return text, false
	}
	return headOf(text, b.MaxLines, b.MaxBytes), true
}
