package consolidate

import (
	"path/filepath"
	"regexp"
)

// compiledGlob pairs a source glob with its compiled form.
type compiledGlob struct {
	pattern string
	re      *regexp.Regexp
}

// Matcher evaluates relative paths against a compiled PatternSet.
type Matcher struct {
	include []compiledGlob
	exclude []compiledGlob
}

// Compile compiles every glob of ps. Matching is case-sensitive unless
// ignoreCase is set.
func Compile(ps PatternSet, ignoreCase bool) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range ps.Exclude {
		re, err := compileGlob(p, ignoreCase)
		if err != nil {
			return nil, err
		}
		m.exclude = append(m.exclude, compiledGlob{pattern: p, re: re})
	}
	for _, p := range ps.Include {
		re, err := compileGlob(p, ignoreCase)
		if err != nil {
			return nil, err
		}
		m.include = append(m.include, compiledGlob{pattern: p, re: re})
	}
	return m, nil
}

// ShouldInclude reports whether rel belongs in the consolidated output.
func (m *Matcher) ShouldInclude(rel string) bool {
	included, _ := m.MatchWithPattern(rel)
	return included
}

// MatchWithPattern is ShouldInclude that also returns the glob that decided
// the outcome. The pattern is empty when nothing matched.
func (m *Matcher) MatchWithPattern(rel string) (bool, string) {
	rel = filepath.ToSlash(rel)
	for _, g := range m.exclude {
		if g.re.MatchString(rel) {
			return false, g.pattern
		}
	}
	for _, g := range m.include {
		if g.re.MatchString(rel) {
			return true, g.pattern
		}
	}
	return false, ""
}

// ShouldInclude reports whether relativePath passes patterns: any exclude
// match rejects it, otherwise any include match accepts it, otherwise it is
// rejected. Matching is case-sensitive. A glob that fails to compile never
// matches.
func ShouldInclude(relativePath string, patterns PatternSet) bool {
	rel := filepath.ToSlash(relativePath)
	for _, p := range patterns.Exclude {
		if re, err := compileGlob(p, false); err == nil && re.MatchString(rel) {
			return false
		}
	}
	for _, p := range patterns.Include {
		if re, err := compileGlob(p, false); err == nil && re.MatchString(rel) {
			return true
		}
	}
	return false
}
