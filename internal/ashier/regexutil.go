package ashier

// RemoveRegexBindingGroups rewrites every non-escaped literal '(' in regex
// to the non-capturing form '(?:', so that a user-supplied marker regex
// never disturbs the capture-group numbering the Pattern compiler
// controls. Already-escaped parentheses are left unchanged. Called once
// per marker regex at compile time; it is not meant to be reapplied to
// its own output (the '(' in the emitted "(?:" would be rewrapped too).
func RemoveRegexBindingGroups(regex string) string {
	var out []byte
	escaped := false
	for i := 0; i < len(regex); i++ {
		ch := regex[i]
		if ch == '(' && !escaped {
			out = append(out, '(', '?', ':')
		} else {
			out = append(out, ch)
		}
		escaped = ch == '\\' && !escaped
	}
	return string(out)
}
