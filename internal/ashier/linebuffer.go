package ashier

import "strings"

// LineBuffer is a FIFO of completed lines plus one partial (not yet
// newline-terminated) tail, indexed by a monotonically increasing line
// number in [baseline, bound). See spec.md §4.4 for the invariants.
type LineBuffer struct {
	baseline int
	lines    []string // lines[0] is the line numbered baseline; lines[len-1] is the partial tail
}

// NewLineBuffer returns a LineBuffer in its initial state: baseline 1,
// bound 2, with an empty partial tail.
func NewLineBuffer() *LineBuffer {
	return &LineBuffer{baseline: 1, lines: []string{""}}
}

// Baseline returns the index of the earliest buffered line.
func (b *LineBuffer) Baseline() int {
	return b.baseline
}

// Bound returns the non-inclusive upper line-number limit of the buffer.
func (b *LineBuffer) Bound() int {
	return b.baseline + len(b.lines)
}

// AppendRaw splits raw PTY bytes into completed lines and a new partial
// tail, per spec.md §4.4: the incoming chunk is appended to the current
// tail, the result is split on '\n', and every completed segment has its
// trailing '\r' runs stripped (the last, still-partial segment is left
// untouched, since a lone '\r' there might still be the first half of a
// future CRLF).
func (b *LineBuffer) AppendRaw(chunk string) {
	combined := b.lines[len(b.lines)-1] + chunk
	parts := strings.Split(combined, "\n")
	for i := 0; i < len(parts)-1; i++ {
		parts[i] = strings.TrimRight(parts[i], "\r")
	}
	b.lines = append(b.lines[:len(b.lines)-1], parts...)
}

// UpdateBaseline discards every buffered line numbered below newBaseline
// and raises the baseline to it. newBaseline must be within
// [baseline, Bound()]; violating that is a program bug, not a user error.
func (b *LineBuffer) UpdateBaseline(newBaseline int) {
	if newBaseline < b.baseline {
		panic("ashier: internal invariant violated: new_baseline < baseline")
	}
	if newBaseline > b.Bound() {
		panic("ashier: internal invariant violated: new_baseline > bound")
	}
	b.lines = b.lines[newBaseline-b.baseline:]
	b.baseline = newBaseline
	if len(b.lines) == 0 {
		// bound - baseline must always stay >= 1 (spec.md §3): flushing
		// all the way to bound still leaves a fresh empty partial tail,
		// mirroring the sentinel element _lines always keeps in the
		// original implementation.
		b.lines = []string{""}
	}
}

// GetLine returns the (possibly partial, if lineno == Bound()-1) line
// content at the given line number. lineno must be within
// [baseline, Bound()); violating that is a program bug.
func (b *LineBuffer) GetLine(lineno int) string {
	if lineno < b.baseline {
		panic("ashier: internal invariant violated: lineno < baseline")
	}
	if lineno >= b.Bound() {
		panic("ashier: internal invariant violated: lineno >= bound")
	}
	return b.lines[lineno-b.baseline]
}
