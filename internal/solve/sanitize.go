package solve

import "strings"

// Sanitize prepares raw model output for JSON parsing: trims surrounding
// code fences and escapes raw control characters the model sometimes leaves
// inside string literals.
func Sanitize(raw string) string {
	return escapeControlChars(StripCodeFences(raw))
}

// StripCodeFences removes a surrounding ```json ... ``` block if present.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// escapeControlChars walks the payload and, inside string literals, turns
// raw newlines/tabs/carriage returns into their escape sequences. Other
// control bytes inside strings are dropped. Everything outside string
// literals passes through untouched.
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				b.WriteByte(c)
				escaped = false
				continue
			}
			switch {
			case c == '\\':
				b.WriteByte(c)
				escaped = true
			case c == '"':
				b.WriteByte(c)
				inString = false
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			case c < 0x20:
				// other raw control bytes would break the parser
			default:
				b.WriteByte(c)
			}
			continue
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}
