package ashier

import (
	"regexp"
	"strings"
)

// Directive is the parsed form of one non-blank, non-comment Ashier
// configuration line: a Template, a Marker, or a Send.
type Directive interface {
	isDirective()
	SourceLine() SourceLine
}

// TemplateDirective represents a ">sample" line: a concrete example of a
// terminal output line Ashier should try to match. Sample is the text
// after the leading '>' with no trimming of internal or trailing spaces.
type TemplateDirective struct {
	Line   SourceLine
	Sample string
}

func (TemplateDirective) isDirective()              {}
func (d TemplateDirective) SourceLine() SourceLine { return d.Line }

// MarkerDirective represents a "?...." line labelling a variable-width
// column range of the preceding template, optionally named and/or
// regex-constrained. Start and Finish are 0-based column indices within
// the template's Sample.
type MarkerDirective struct {
	Line   SourceLine
	Start  int
	Finish int
	Name   string // "" if unnamed
	Regex  string // "" requests inference
}

func (MarkerDirective) isDirective()              {}
func (d MarkerDirective) SourceLine() SourceLine { return d.Line }

// SendDirective represents a "!channel \"message\"" line.
type SendDirective struct {
	Line    SourceLine
	Channel string
	Message string
}

func (SendDirective) isDirective()              {}
func (d SendDirective) SourceLine() SourceLine { return d.Line }

var (
	markerSyntax = regexp.MustCompile(`^ *(\.+) *(\w+)? *(?:/(.+)/)? *$`)
	sendSyntax   = regexp.MustCompile(`^ *(\w+) +"(.*)" *$`)
)

// ParseDirective classifies one SourceLine into a Directive, reporting
// any lexical/grammatical error to sink. It returns nil when the line is
// blank, a comment, or malformed.
func ParseDirective(line SourceLine, sink *Sink) Directive {
	source := line.Stripped()

	switch {
	case source == "" || strings.HasPrefix(source, "#"):
		return nil

	case strings.Contains(source, "\t"):
		sink.ReportAt(line, "unexpected TAB in directive")
		return nil

	case strings.HasPrefix(source, ">"):
		return TemplateDirective{Line: line, Sample: source[1:]}

	case strings.HasPrefix(source, "?"):
		return parseMarker(line, source[1:], sink)

	case strings.HasPrefix(source, "!"):
		return parseSend(line, source[1:], sink)

	default:
		sink.ReportAt(line, "unrecognized directive syntax")
		return nil
	}
}

func parseMarker(line SourceLine, payload string, sink *Sink) Directive {
	if payload == "" {
		sink.ReportAt(line, "empty marker directive")
		return nil
	}

	m := markerSyntax.FindStringSubmatchIndex(payload)
	if m == nil {
		sink.ReportAt(line, "malformed marker directive")
		return nil
	}

	start, finish := m[2], m[3]
	name := submatch(payload, m, 4)
	regex := submatch(payload, m, 6)
	regex = RemoveRegexBindingGroups(regex)

	return MarkerDirective{
		Line:   line,
		Start:  start,
		Finish: finish,
		Name:   name,
		Regex:  regex,
	}
}

func parseSend(line SourceLine, payload string, sink *Sink) Directive {
	if payload == "" {
		sink.ReportAt(line, "empty action directive")
		return nil
	}

	m := sendSyntax.FindStringSubmatch(payload)
	if m == nil {
		sink.ReportAt(line, "malformed action directive")
		return nil
	}

	channel, message := m[1], m[2]
	if channel != "controller" && channel != "terminal" {
		sink.ReportAt(line, "invalid channel name: "+channel)
	}

	return SendDirective{Line: line, Channel: channel, Message: message}
}

// submatch returns the text of submatch group index idx/idx+1 from
// FindStringSubmatchIndex offsets, or "" if the group did not
// participate in the match.
func submatch(s string, indices []int, idx int) string {
	if idx+1 >= len(indices) || indices[idx] < 0 {
		return ""
	}
	return s[indices[idx]:indices[idx+1]]
}
