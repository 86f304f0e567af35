package ashier

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// Config is the compiled result of one Ashier configuration file: its
// Reactives, in file order.
type Config struct {
	Reactives []*Reactive
}

// Load reads filename, parses it into directives, and compiles its
// indentation groups into Reactives. It returns the compiled Config
// together with the Sink that accumulated every user error found along
// the way; callers must check sink.Empty() before using the Config.
func Load(filename string) (*Config, *Sink, error) {
	lines, err := readSourceLines(filename)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "ashier: read config %q", filename)
	}

	sink := &Sink{}
	var directives []Directive
	for _, line := range lines {
		if d := ParseDirective(line, sink); d != nil {
			directives = append(directives, d)
		}
	}

	var nesting []NestingEntry
	var reactives []*Reactive
	for _, group := range groupByIndent(directives) {
		if r := compileGroup(group, &nesting, sink); r != nil {
			reactives = append(reactives, r)
		}
	}

	return &Config{Reactives: reactives}, sink, nil
}

func readSourceLines(filename string) ([]SourceLine, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []SourceLine
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineno := 1
	for scanner.Scan() {
		lines = append(lines, SourceLine{File: filename, Lineno: lineno, Content: scanner.Text() + "\n"})
		lineno++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// groupByIndent splits directives into maximal runs sharing the same
// indentation level (spec.md §4.6, §6): a group boundary falls wherever
// indentation changes. Directives at strictly-increasing indentation
// become ancestor/descendant via the nesting stack compileGroup
// maintains; this function only finds the group boundaries.
func groupByIndent(directives []Directive) [][]Directive {
	var groups [][]Directive
	var current []Directive
	indent := -1

	for _, d := range directives {
		di := d.SourceLine().Indent()
		if current != nil && di != indent {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, d)
		indent = di
	}
	if current != nil {
		groups = append(groups, current)
	}
	return groups
}

// ReactOnce runs every Reactive in c over buf at buf.Bound(), aggregating
// their advance directives by the componentwise-minimum rule of spec.md
// §4.7: a mandatory (negative) value from any reactive binds; otherwise
// the smallest permissive value wins.
func (c *Config) ReactOnce(nesting *[]NestingEntry, buf *LineBuffer, channels Channels) int {
	bound := buf.Bound()
	best := bound
	for i, r := range c.Reactives {
		v := r.React(nesting, buf, bound, channels)
		if i == 0 || v < best {
			best = v
		}
	}
	return best
}
