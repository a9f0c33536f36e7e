// File: pkg/consolidate/patterns.go
package consolidate

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// globKey identifies one compiled glob in globCache.
type globKey struct {
	pattern    string
	ignoreCase bool
}

// globCache memoizes compiled globs across runs; pattern lists are small and
// reused on every file of every run.
var globCache sync.Map // globKey -> *regexp.Regexp

// compileGlob compiles a shell-style glob into a regular expression anchored
// at both ends of the relative path.
func compileGlob(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	key := globKey{pattern: pattern, ignoreCase: ignoreCase}
	if re, ok := globCache.Load(key); ok {
		return re.(*regexp.Regexp), nil
	}

	expr := globToRegex(pattern)
	if ignoreCase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	globCache.Store(key, re)
	return re, nil
}

// globToRegex translates a glob into a regular expression.
//
// The path is treated as an opaque string: '*' matches any run of characters
// including '/', so "*.py" matches "src/app.py" and "node_modules/*" matches
// every path below node_modules/, but only when it starts the path.
func globToRegex(pattern string) string {
	runes := []rune(pattern)

	var b strings.Builder
	b.WriteString(`(?s)^`)
	for i := 0; i < len(runes); {
		r := runes[i]
		i++
		switch r {
		case '*':
			for i < len(runes) && runes[i] == '*' {
				i++
			}
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			class, next, ok := translateCharClass(runes, i)
			if !ok {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class)
			i = next
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return b.String()
}

// translateCharClass converts the bracket expression that begins right after
// a '[' at runes[start]. ok is false when the bracket is never closed, in
// which case the '[' is a literal.
func translateCharClass(runes []rune, start int) (class string, next int, ok bool) {
	j := start
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	// A ']' first in the class is a member, not the terminator.
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for j < len(runes) && runes[j] != ']' {
		j++
	}
	if j >= len(runes) {
		return "", start, false
	}

	body := runes[start:j]
	negate := false
	if len(body) > 0 && body[0] == '!' {
		negate = true
		body = body[1:]
	}

	var items strings.Builder
	for k := 0; k < len(body); {
		lo := body[k]
		if k+2 < len(body) && body[k+1] == '-' {
			hi := body[k+2]
			k += 3
			if lo > hi {
				continue // reversed ranges match nothing
			}
			items.WriteString(escapeClassRune(lo))
			items.WriteByte('-')
			items.WriteString(escapeClassRune(hi))
			continue
		}
		items.WriteString(escapeClassRune(lo))
		k++
	}

	next = j + 1
	switch {
	case items.Len() == 0 && negate:
		return `.`, next, true
	case items.Len() == 0:
		return `[^\x00-\x{10FFFF}]`, next, true
	case negate:
		return "[^" + items.String() + "]", next, true
	default:
		return "[" + items.String() + "]", next, true
	}
}

// escapeClassRune escapes characters that are special inside a regexp class.
func escapeClassRune(r rune) string {
	switch r {
	case '\\', ']', '[', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}
