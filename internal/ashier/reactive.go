package ashier

// Reactive is a group of Patterns followed by zero or more Sends at a
// single indentation level — the unit of matching (spec.md §3, §4.6).
type Reactive struct {
	Patterns []*Pattern
	Actions  []SendDirective
	nesting  []NestingEntry
}

// compileGroup builds a Reactive from one contiguous, same-indent run of
// directives, threading the shared mutable nesting stack per spec.md
// §4.6. sink receives every semantic error the group produces; the
// returned Reactive may still be nil if the group has no templates.
func compileGroup(group []Directive, nesting *[]NestingEntry, sink *Sink) *Reactive {
	if len(group) == 0 {
		panic("ashier: internal invariant violated: compileGroup called with empty group")
	}

	indent := group[0].SourceLine().Indent()
	for _, d := range group[1:] {
		if d.SourceLine().Indent() != indent {
			sink.ReportAt(d.SourceLine(), "indentation change in a group")
			break
		}
	}

	stack := *nesting
	for len(stack) > 0 && stack[len(stack)-1].Indent >= indent {
		stack = stack[:len(stack)-1]
	}
	stack = append(stack, NestingEntry{Indent: indent, Lineno: group[0].SourceLine().Lineno})
	*nesting = stack

	myNesting := make([]NestingEntry, len(stack))
	copy(myNesting, stack)

	var patterns []*Pattern
	var actions []SendDirective
	i := 0

	for i < len(group) {
		tmpl, ok := group[i].(TemplateDirective)
		if !ok {
			break
		}
		i++
		var markers []MarkerDirective
		for i < len(group) {
			m, ok := group[i].(MarkerDirective)
			if !ok {
				break
			}
			markers = append(markers, m)
			i++
		}
		patterns = append(patterns, compilePattern(tmpl, markers, sink))
	}

	for i < len(group) {
		s, ok := group[i].(SendDirective)
		if !ok {
			break
		}
		actions = append(actions, s)
		i++
	}

	if len(patterns) == 0 {
		sink.ReportAt(group[0].SourceLine(), "group has no templates")
	}

	if i < len(group) {
		sink.ReportAt(group[i].SourceLine(), "template/marker after action")
	}

	for idx := 0; idx < len(patterns)-1; idx++ {
		patterns[idx].AttachEOL(sink)
	}

	bound := make(map[string]struct{})
	for _, p := range patterns {
		for _, name := range p.BoundNames {
			if name != "" {
				bound[name] = struct{}{}
			}
		}
	}
	for _, send := range actions {
		for _, name := range unboundNames(send, bound) {
			sink.ReportAt(send.Line, formatUnbound(name))
		}
	}

	if len(patterns) == 0 {
		return nil
	}

	return &Reactive{Patterns: patterns, Actions: actions, nesting: myNesting}
}

// Nesting returns the reactive's ancestry vector, outermost first.
func (r *Reactive) Nesting() []NestingEntry {
	return r.nesting
}
