package ashier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplate(sample string) TemplateDirective {
	return TemplateDirective{Line: SourceLine{File: "fn", Lineno: 9}, Sample: sample}
}

func TestInferSkip(t *testing.T) {
	tests := []struct {
		sample       string
		start, finish int
		regex        string
	}{
		{"abc", 0, 2, "ab"},
		{"abc", 0, 3, "abc"},
		{"abc def", 2, 4, `c\s+`},
		{"abc def", 2, 5, `c\s+d`},
		{"abc  def", 2, 6, `c\s+d`},
	}
	for _, tt := range tests {
		sink := &Sink{}
		got := inferSkip(newTemplate(tt.sample), tt.start, tt.finish, sink)
		assert.Equal(t, tt.regex, got, "sample %q [%d:%d]", tt.sample, tt.start, tt.finish)
		assert.True(t, sink.Empty(), "sample %q [%d:%d]", tt.sample, tt.start, tt.finish)
	}
}

func TestInferSkipError(t *testing.T) {
	// A substring that ends mid-whitespace-run has no well-defined end
	// delimiter: the collapsed "\s+" skip regex matches further than
	// the requested boundary, which inferSkip reports as an error.
	tests := []struct {
		sample        string
		start, finish int
	}{
		{"ab  ", 1, 3},
		{"ab   ", 1, 3},
	}
	for _, tt := range tests {
		sink := &Sink{}
		inferSkip(newTemplate(tt.sample), tt.start, tt.finish, sink)
		assert.False(t, sink.Empty(), "sample %q [%d:%d]", tt.sample, tt.start, tt.finish)
	}
}

func TestInferRegex(t *testing.T) {
	tests := []struct {
		sample        string
		start, finish int
		regex         string
	}{
		{"abc", 0, 2, "[^c]+"},
		{"abc", 0, 3, ".+"},
		{"abc def", 0, 3, `[^\s]+`},
		{"abc  def", 0, 3, `[^\s]+`},
	}
	for _, tt := range tests {
		sink := &Sink{}
		tmpl := newTemplate(tt.sample)
		m := MarkerDirective{Line: SourceLine{File: "fn", Lineno: 2}, Start: tt.start, Finish: tt.finish}
		got := inferRegex(tmpl, m, sink)
		assert.Equal(t, tt.regex, got, "sample %q [%d:%d]", tt.sample, tt.start, tt.finish)
		assert.True(t, sink.Empty(), "sample %q [%d:%d]", tt.sample, tt.start, tt.finish)
	}
}

func TestInferRegexError(t *testing.T) {
	// The delimiter following the marker ("b" at index 4) also appears
	// inside the variable region itself, so there is no unambiguous end
	// delimiter.
	sink := &Sink{}
	tmpl := newTemplate("abcabc")
	m := MarkerDirective{Line: SourceLine{File: "fn", Lineno: 2}, Start: 0, Finish: 4}
	inferRegex(tmpl, m, sink)
	assert.False(t, sink.Empty())
}

func TestCompilePatternMatchAndBindings(t *testing.T) {
	sink := &Sink{}
	tmpl := newTemplate("login: alice uid 501")
	markers := []MarkerDirective{
		{Line: tmpl.Line, Start: 7, Finish: 12, Name: "user"},
		{Line: tmpl.Line, Start: 17, Finish: 20, Name: "uid"},
	}
	p := compilePattern(tmpl, markers, sink)
	require.True(t, sink.Empty())

	bindings := make(Bindings)
	ok := p.Match("login: bob   uid 7", bindings)
	require.True(t, ok)
	assert.Equal(t, "bob", bindings["user"])
	assert.Equal(t, "7", bindings["uid"])
}

func TestCompilePatternUnnamedMarkerNotBound(t *testing.T) {
	sink := &Sink{}
	tmpl := newTemplate("count: 42")
	markers := []MarkerDirective{{Line: tmpl.Line, Start: 7, Finish: 9}}
	p := compilePattern(tmpl, markers, sink)
	require.True(t, sink.Empty())
	require.Equal(t, []string{""}, p.BoundNames)

	bindings := make(Bindings)
	ok := p.Match("count: 99", bindings)
	require.True(t, ok)
	assert.Empty(t, bindings)
}

func TestCompilePatternOverlapReportsError(t *testing.T) {
	sink := &Sink{}
	tmpl := newTemplate("abcdef")
	markers := []MarkerDirective{
		{Line: tmpl.Line, Start: 0, Finish: 3},
		{Line: tmpl.Line, Start: 2, Finish: 5},
	}
	compilePattern(tmpl, markers, sink)
	assert.False(t, sink.Empty())
}

func TestCompilePatternIllFormedMarkerRegexDoesNotPanic(t *testing.T) {
	// An ill-formed user-supplied marker regex is a user error (spec.md
	// §4.2), reported to the sink, not a panic: compilation must still
	// produce a usable (if never-matching) Pattern so Load can reach the
	// abort gate.
	sink := &Sink{}
	tmpl := newTemplate("abc")
	markers := []MarkerDirective{{Line: tmpl.Line, Start: 0, Finish: 3, Regex: "["}}

	var p *Pattern
	assert.NotPanics(t, func() { p = compilePattern(tmpl, markers, sink) })
	require.NotNil(t, p)
	assert.False(t, sink.Empty())

	bindings := make(Bindings)
	assert.False(t, p.Match("abc", bindings))
}

func TestAttachEOLAnchorsTrailingPattern(t *testing.T) {
	sink := &Sink{}
	tmpl := newTemplate("abc")
	p := compilePattern(tmpl, nil, sink)
	require.True(t, sink.Empty())
	p.AttachEOL(sink)

	bindings := make(Bindings)
	assert.True(t, p.Match("abc", bindings))
	assert.False(t, p.Match("abcdef", bindings))
}
