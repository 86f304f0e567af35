package ashier

import (
	"fmt"
	"io"
	"regexp"
)

var varRefPattern = regexp.MustCompile(`\$\w+`)

// references returns the set of variable names (without the leading '$')
// referenced by msg. Note that "$$def" is not a literal-dollar escape: it
// references "def", because the split only ever looks for "$\w+" runs
// (spec.md §9, Open Question (a)).
func references(msg string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, tok := range varRefPattern.FindAllString(msg, -1) {
		names[tok[1:]] = struct{}{}
	}
	return names
}

// expand substitutes every "$name" token in msg with its binding.
func expand(msg string, bindings Bindings) string {
	return varRefPattern.ReplaceAllStringFunc(msg, func(tok string) string {
		return bindings[tok[1:]]
	})
}

// fireSend writes the expanded message, followed by a newline, to the
// send's channel. Write errors are swallowed: the controller or child
// may close its end of the channel at any time, and that is not a
// program error (spec.md §4.8).
func fireSend(send SendDirective, channels Channels, bindings Bindings) {
	w, ok := channels[send.Channel]
	if !ok || w == nil {
		return
	}
	_, _ = io.WriteString(w, expand(send.Message, bindings)+"\n")
}

// unboundNames returns the names referenced in send.Message that are not
// present in bound, without the leading '$' (formatUnbound turns one into
// an error message).
func unboundNames(send SendDirective, bound map[string]struct{}) []string {
	var out []string
	for name := range references(send.Message) {
		if _, ok := bound[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func formatUnbound(name string) string {
	return fmt.Sprintf("unbound name: %s", name)
}
