package engine

import "strings"

// kwPrefix marks a keyword that preprocessSource turned into a string.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene script source into something zygomys
// accepts:
//
//   - :keyword becomes the string "__kw_keyword", so builtins can tell
//     keyword arguments apart without registering symbols.
//   - kebab-case identifiers become snake_case; zygomys reads a bare
//     hyphen as subtraction.
//   - ; comments become // comments.
//
// String literals pass through untouched. := is left alone.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	src := source
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '`':
			end := skipString(src, i)
			out.WriteString(src[i:end])
			i = end

		case c == ';':
			j := i
			for j < len(src) && src[j] == ';' {
				j++
			}
			end := strings.IndexByte(src[j:], '\n')
			if end < 0 {
				end = len(src) - j
			}
			out.WriteString("//")
			out.WriteString(src[j : j+end])
			i = j + end

		case c == ':' && i+1 < len(src) && isLetter(src[i+1]):
			j := i + 1
			for j < len(src) && isKWChar(src[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(src[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(src) && isIdentChar(src[i-1]) && isLetter(src[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipString returns the index just past the string literal starting at i.
// Double-quoted strings honor backslash escapes; backtick strings do not.
func skipString(src string, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) && src[j] != quote {
		if quote == '"' && src[j] == '\\' && j+1 < len(src) {
			j += 2
			continue
		}
		j++
	}
	if j < len(src) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
