package packer

import "sort"

// Budget is the combined ceiling the assembled output must stay within.
type Budget struct {
	MaxBytes int
	MaxLines int
}

// Packing strategies. Request order is the default; smallest-first is adopted
// only when it fully includes strictly more successfully-read files.
const (
	StrategyRequestOrder  = "request-order"
	StrategySmallestFirst = "smallest-first"
)

// Blocks are joined by one blank line.
const (
	separatorBytes = 2
	separatorLines = 1
)

// FileCandidate is one requested file's contribution, built exactly once per
// invocation and never mutated afterward.
type FileCandidate struct {
	Index       int    // 0-based position in the request
	Path        string // as requested, not canonicalized
	OK          bool   // whether the underlying read succeeded
	FullText    string // the fully-framed block (success body or error message)
	FullMetrics TextMetrics

	// Body is the raw unframed content, present only for successful reads.
	// Failed reads are fully included or omitted, never partial.
	Body    string
	HasBody bool
}

// PackedSection is the single partially-included block of a plan.
type PackedSection struct {
	Index   int
	Text    string
	Metrics TextMetrics
}

// PackingPlan is the outcome of evaluating one traversal order against the
// budget. Immutable once built.
type PackingPlan struct {
	Strategy     string
	FullIndexes  []int          // fully included, ascending
	Partial      *PackedSection // at most one per plan
	Omitted      []int          // neither full nor partial, ascending
	UsedBytes    int
	UsedLines    int
	FullCount    int
	SuccessCount int // fully included candidates whose read succeeded
}

// Includes reports whether the candidate at index appears in the plan, and
// whether its inclusion is partial.
func (p *PackingPlan) Includes(index int) (included, partial bool) {
	if p.Partial != nil && p.Partial.Index == index {
		return true, true
	}
	for _, i := range p.FullIndexes {
		if i == index {
			return true, false
		}
	}
	return false, false
}

// Plan walks candidates in the given traversal order and decides which blocks
// fit in full, which single block (if any) fits partially, and which are
// omitted.
//
// The two strategies share this loop and differ only in overflow policy:
// request-order stops at the first candidate that does not fit, preserving a
// simple prefix-cutoff semantic; smallest-first skips it and keeps checking
// the remaining (no larger) candidates.
func Plan(strategy string, order []int, candidates []FileCandidate, budget Budget) PackingPlan {
	plan := PackingPlan{Strategy: strategy}
	included := make([]bool, len(candidates))

	for _, idx := range order {
		c := candidates[idx]
		sepBytes, sepLines := 0, 0
		if plan.FullCount > 0 {
			sepBytes, sepLines = separatorBytes, separatorLines
		}
		fits := plan.UsedBytes+sepBytes+c.FullMetrics.Bytes <= budget.MaxBytes &&
			plan.UsedLines+sepLines+c.FullMetrics.Lines <= budget.MaxLines
		if !fits {
			if strategy == StrategyRequestOrder {
				break
			}
			continue
		}
		included[idx] = true
		plan.FullIndexes = append(plan.FullIndexes, idx)
		plan.UsedBytes += sepBytes + c.FullMetrics.Bytes
		plan.UsedLines += sepLines + c.FullMetrics.Lines
		plan.FullCount++
		if c.OK {
			plan.SuccessCount++
		}
	}
	sort.Ints(plan.FullIndexes)

	// Partial pass: original index order regardless of strategy. The first
	// excluded candidate whose body yields a fitting partial claims the
	// single partial slot.
	for i := range candidates {
		if included[i] || !candidates[i].HasBody {
			continue
		}
		sepBytes, sepLines := 0, 0
		if plan.FullCount > 0 {
			sepBytes, sepLines = separatorBytes, separatorLines
		}
		remBytes := budget.MaxBytes - plan.UsedBytes - sepBytes
		remLines := budget.MaxLines - plan.UsedLines - sepLines
		text, m, ok := buildPartial(candidates[i].Path, candidates[i].Body, i+1, remBytes, remLines)
		if !ok {
			continue
		}
		plan.Partial = &PackedSection{Index: i, Text: text, Metrics: m}
		plan.UsedBytes += sepBytes + m.Bytes
		plan.UsedLines += sepLines + m.Lines
		included[i] = true
		break
	}

	for i := range candidates {
		if !included[i] {
			plan.Omitted = append(plan.Omitted, i)
		}
	}
	return plan
}

// RequestOrder returns the identity traversal 0..n-1.
func RequestOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// SmallestFirstOrder returns candidate indexes sorted ascending by full-block
// bytes, then lines, then original index.
func SmallestFirstOrder(candidates []FileCandidate) []int {
	order := RequestOrder(len(candidates))
	sort.SliceStable(order, func(a, b int) bool {
		ma, mb := candidates[order[a]].FullMetrics, candidates[order[b]].FullMetrics
		if ma.Bytes != mb.Bytes {
			return ma.Bytes < mb.Bytes
		}
		if ma.Lines != mb.Lines {
			return ma.Lines < mb.Lines
		}
		return order[a] < order[b]
	})
	return order
}
