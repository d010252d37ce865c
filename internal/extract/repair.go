package extract

import (
	"regexp"
	"strings"
)

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	fenceRe         = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	// valueTailRe matches what may legally follow the last string of a
	// truncated document: a separator, a closer, or a complete scalar value.
	valueTailRe = regexp.MustCompile(`^\s*(?:[,}\]]|:\s*(?:true|false|null|-?\d[\d.eE+-]*|[\[{]))`)
)

// ExtractJSON returns the JSON object embedded in a model response: markdown
// fences are dropped and the text is cut from the first "{" to the last "}".
// A response truncated before its final brace keeps everything after the
// first "{". ok is false when there is no "{" at all.
func ExtractJSON(text string) (string, bool) {
	text = fenceRe.ReplaceAllString(text, "")
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return strings.TrimSpace(text[start:]), true
	}
	return text[start : end+1], true
}

// RepairJSON is a best-effort fix for truncated or sloppy model output. It
// removes trailing commas, drops a dangling unterminated entry back to the
// last complete "}," and closes every open array and object. The result is
// not guaranteed to be valid JSON.
func RepairJSON(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = strings.TrimRight(s, " \t\r\n,")

	stack, inString := openBrackets(s)
	if inString || danglingTail(s) {
		if cut := strings.LastIndex(s, "},"); cut > 0 {
			s = s[:cut+1]
			stack, _ = openBrackets(s)
		} else if inString {
			s += `"`
			stack, _ = openBrackets(s)
		}
	}

	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// openBrackets returns the unclosed brackets of s in opening order and
// whether s ends inside a string literal.
func openBrackets(s string) ([]byte, bool) {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if n := len(stack); n > 0 && matches(stack[n-1], c) {
				stack = stack[:n-1]
			}
		}
	}
	return stack, inString
}

func matches(open, closer byte) bool {
	return (open == '{' && closer == '}') || (open == '[' && closer == ']')
}

// danglingTail reports whether the text after the last quote is an
// incomplete value, such as a key with no value or a cut-off literal.
func danglingTail(s string) bool {
	last := strings.LastIndex(s, `"`)
	if last < 0 {
		return false
	}
	tail := s[last+1:]
	if strings.TrimSpace(tail) == "" {
		return false
	}
	return !valueTailRe.MatchString(tail)
}
