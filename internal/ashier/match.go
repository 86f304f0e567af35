package ashier

// React applies the reactive's patterns to buf at the given bound,
// reading and writing the shared nesting state, and firing any matched
// Sends to channels. It returns the advance directive described in
// spec.md §4.7: a non-negative value is a permissive upper hint on how
// far the baseline may advance; a negative value's absolute value is a
// mandatory flush target.
func (r *Reactive) React(nesting *[]NestingEntry, buf *LineBuffer, bound int, channels Channels) int {
	// A reactive is active only once every enclosing group has matched:
	// its shared nesting state must equal this reactive's own ancestry
	// (its nesting vector minus its own final entry). Python's slice
	// semantics silently truncate a short nesting list rather than
	// erroring, so a nesting shorter than the ancestry can never compare
	// equal and the reactive is correctly treated as inactive.
	ancestry := r.nesting[:len(r.nesting)-1]
	current := *nesting
	if len(current) > len(ancestry) {
		current = current[:len(ancestry)]
	}
	if !nestingEqual(current, ancestry) {
		return buf.Bound()
	}

	start := bound - len(r.Patterns)
	if start < buf.Baseline() {
		return buf.Baseline()
	}

	bindings := make(Bindings)
	for index := start; index < bound; index++ {
		pattern := r.Patterns[index-start]
		if !pattern.Match(buf.GetLine(index), bindings) {
			definiteMismatch := index < buf.Bound()-1
			if definiteMismatch {
				return start + 1
			}
			return start
		}
	}

	for _, send := range r.Actions {
		fireSend(send, channels, bindings)
	}
	*nesting = append((*nesting)[:0:0], r.nesting...)

	if r.Patterns[len(r.Patterns)-1].Source == "" {
		return 1 - bound
	}
	return -bound
}

func nestingEqual(a, b []NestingEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
