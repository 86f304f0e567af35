package ashier

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Pattern is the compiled regular expression for one Template directive
// and its associated Marker directives, together with the ordered
// capture names (possibly "" for unnamed markers) in left-to-right group
// order.
type Pattern struct {
	Source     string
	BoundNames []string
	regex      *regexp.Regexp
	line       SourceLine
}

// neverMatchRegex is substituted for a compiled pattern whenever the
// composed regex source turns out ill-formed, so that a bad user-supplied
// marker regex (spec.md §4.2) is reported to the sink and loading
// continues to the abort gate (spec.md §7) instead of panicking. It is
// valid RE2 syntax that cannot match any rune.
const neverMatchRegex = `[^\x{0}-\x{10FFFF}]`

// compileAnchored compiles source anchored at the start, reporting an
// ill-formed regex to the sink and falling back to neverMatchRegex rather
// than panicking: the regex source embeds user-supplied marker fragments,
// so a compile failure here is a user error, not a bug.
func compileAnchored(source string, line SourceLine, sink *Sink) *regexp.Regexp {
	re, err := regexp.Compile("^" + source)
	if err != nil {
		sink.ReportAt(line, "ill-formed regular expression")
		return regexp.MustCompile("^" + neverMatchRegex)
	}
	return re
}

// compilePattern builds a Pattern from one template and its markers, per
// spec.md §4.3: markers are walked in start-ascending order, skip-regexes
// fill the gaps between them, and each marker contributes one capturing
// group.
func compilePattern(tmpl TemplateDirective, markers []MarkerDirective, sink *Sink) *Pattern {
	sorted := make([]MarkerDirective, len(markers))
	copy(sorted, markers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b strings.Builder
	var boundNames []string
	index := 0

	for _, m := range sorted {
		if m.Finish > len(tmpl.Sample) {
			sink.ReportAt(m.Line, "marker extends beyond template")
			continue
		}

		if index < m.Start {
			b.WriteString(inferSkip(tmpl, index, m.Start, sink))
			index = m.Start
		}

		if index == m.Start {
			b.WriteByte('(')
			b.WriteString(inferRegex(tmpl, m, sink))
			b.WriteByte(')')
			boundNames = append(boundNames, m.Name)
			index = m.Finish
		} else {
			sink.ReportAt(m.Line, "overlap with another marker")
			index = m.Finish
		}
	}

	if index < len(tmpl.Sample) {
		b.WriteString(inferSkip(tmpl, index, len(tmpl.Sample), sink))
	}

	source := b.String()
	return &Pattern{
		Source:     source,
		BoundNames: boundNames,
		regex:      compileAnchored(source, tmpl.Line, sink),
		line:       tmpl.Line,
	}
}

// AttachEOL recompiles the pattern with a trailing '$' anchor, marking it
// as a full-line (rather than partial-tail) pattern.
func (p *Pattern) AttachEOL(sink *Sink) {
	p.Source += "$"
	p.regex = compileAnchored(p.Source, p.line, sink)
}

// Match attempts an anchored-at-start match of text (trailing-anchored
// only if AttachEOL was called). On success it fills bindings for every
// non-empty bound name and reports true.
func (p *Pattern) Match(text string, bindings Bindings) bool {
	m := p.regex.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	for i, name := range p.BoundNames {
		if name != "" {
			bindings[name] = m[i+1]
		}
	}
	return true
}

// inferSkip computes a regex that skips the fixed sample[start:finish],
// tolerating growth/shrinkage of whitespace runs (spec.md §4.2).
func inferSkip(tmpl TemplateDirective, start, finish int, sink *Sink) string {
	collapsed := collapseWhitespace(tmpl.Sample[start:finish])
	var b strings.Builder
	for _, ch := range collapsed {
		if ch == ' ' {
			b.WriteString(`\s+`)
		} else {
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	regex := b.String()

	re, err := regexp.Compile("^" + regex)
	if err != nil {
		panic("ashier: internal invariant violated: ill-formed skip regex: " + err.Error())
	}
	loc := re.FindStringIndex(tmpl.Sample[start:])
	if loc == nil || loc[1] < finish-start {
		panic("ashier: internal invariant violated: " +
			tmpl.Line.WithHeader("skip pattern matches too few characters"))
	}
	if loc[1] > finish-start {
		sink.ReportAt(tmpl.Line, "invalid boundary at column "+strconv.Itoa(finish))
	}

	return regex
}

// inferRegex produces the regex for one marker's variable region,
// deriving it from the user-supplied regex, end-of-sample shorthand, or
// the delimiter heuristic, per spec.md §4.2.
func inferRegex(tmpl TemplateDirective, m MarkerDirective, sink *Sink) string {
	sample := tmpl.Sample
	if m.Finish > len(sample) {
		panic("ashier: internal invariant violated: marker extends beyond template")
	}

	regex := m.Regex
	if regex == "" {
		if m.Finish == len(sample) {
			regex = ".+"
		} else {
			delimiter := sample[m.Finish]
			if strings.Count(sample[m.Start:m.Finish], string(delimiter)) != 0 {
				sink.ReportAt(m.Line, "delimiter appears in the marker")
				return ""
			}
			if isSpace(delimiter) {
				regex = `[^\s]+`
			} else {
				regex = "[^" + regexp.QuoteMeta(string(delimiter)) + "]+"
			}
		}
	}

	if regex == "" {
		return regex
	}

	re, err := regexp.Compile("^" + regex)
	if err != nil {
		sink.ReportAt(m.Line, "ill-formed regular expression")
		return neverMatchRegex
	}
	loc := re.FindStringIndex(sample[m.Start:])
	if loc == nil || loc[1] != m.Finish-m.Start {
		sink.ReportAt(m.Line, "regex does not match marker")
	}

	return regex
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	inSpace := false
	for _, ch := range s {
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		} else {
			b.WriteRune(ch)
			inSpace = false
		}
	}
	return b.String()
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

