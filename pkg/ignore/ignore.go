// Package ignore implements gitignore-style rules used to prune whole
// directories from a consolidation walk. Rules come only from a file the
// caller names explicitly.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// IgnorePattern encapsulates one compiled rule and metadata about its origin.
type IgnorePattern struct {
	self    *regexp.Regexp // Matches the path itself.
	below   *regexp.Regexp // Matches any path underneath it.
	Negate  bool           // Rule started with '!'.
	DirOnly bool           // Rule ended with '/'.
	Line    string         // Original rule line.
	LineNo  int            // Line number in the source (1-based).
	Source  string         // File the rule came from, empty for inline rules.
}

// matches reports whether the rule applies to rel.
func (p *IgnorePattern) matches(rel string, isDir bool) bool {
	if p.below.MatchString(rel) {
		return true
	}
	return p.self.MatchString(rel) && (isDir || !p.DirOnly)
}

// Rules is an ordered collection of ignore patterns; the last match wins.
type Rules struct {
	Patterns []*IgnorePattern
	logger   *zap.Logger
}

// New returns an empty rule set.
func New(logger *zap.Logger) *Rules {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rules{logger: logger}
}

// LoadIgnoreFile compiles the rules file at path. The file must exist; rules
// are only ever applied when the caller names a file explicitly.
func LoadIgnoreFile(path string, logger *zap.Logger) (*Rules, error) {
	rules := New(logger)
	if err := rules.CompileIgnoreFile(path); err != nil {
		return nil, err
	}
	return rules, nil
}

// CompileIgnoreFile reads and compiles a rules file.
func (r *Rules) CompileIgnoreFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ignore file %s: %w", path, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	r.compile(path, lines)
	r.logger.Debug("Compiled ignore file", zap.String("filePath", path), zap.Int("lineCount", len(lines)))
	return nil
}

func (r *Rules) compile(source string, lines []string) {
	for i, line := range lines {
		p := parsePatternLine(line)
		if p == nil {
			continue
		}
		p.LineNo = i + 1
		p.Source = source
		r.Patterns = append(r.Patterns, p)
	}
}

// Empty reports whether the rule set has no patterns.
func (r *Rules) Empty() bool {
	return r == nil || len(r.Patterns) == 0
}

// MatchesPathWithPattern reports whether rel ('/'-separated, relative to the
// root) is ignored, and returns the rule that decided it.
func (r *Rules) MatchesPathWithPattern(rel string, isDir bool) (bool, *IgnorePattern) {
	if r.Empty() {
		return false, nil
	}
	rel = strings.Trim(filepath.ToSlash(rel), "/")

	matched := false
	var decided *IgnorePattern
	for _, p := range r.Patterns {
		if p.matches(rel, isDir) {
			matched = !p.Negate
			decided = p
		}
	}
	return matched, decided
}

// parsePatternLine turns one rule line into a pattern, or nil for blanks and comments.
func parsePatternLine(line string) *IgnorePattern {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	p := &IgnorePattern{Line: line}
	if strings.HasPrefix(trimmed, "!") {
		p.Negate = true
		trimmed = trimmed[1:]
	}
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}
	if strings.HasSuffix(trimmed, "/") {
		p.DirOnly = true
	}

	body := strings.Trim(trimmed, "/")
	if body == "" {
		return nil
	}

	// A slash anywhere but the end anchors the rule to the root.
	prefix := `^(?:.*/)?`
	if strings.Contains(strings.TrimSuffix(trimmed, "/"), "/") {
		prefix = `^`
	}

	expr := wildcardToRegex(body)
	p.self = regexp.MustCompile(prefix + expr + `$`)
	p.below = regexp.MustCompile(prefix + expr + `/.*$`)
	return p
}

// wildcardToRegex converts '*', '**' and '?' to their regexp equivalents and
// quotes everything else.
func wildcardToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString(`(?:.*/)?`)
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(`.*`)
			i += 2
		case pattern[i] == '*':
			b.WriteString(`[^/]*`)
			i++
		case pattern[i] == '?':
			b.WriteString(`[^/]`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}
	return b.String()
}
