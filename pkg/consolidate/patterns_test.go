package consolidate

import "testing"

func TestCompileGlobSemantics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.py", "a.py", true},
		{"*.py", "src/app.py", true},
		{"*.py", "a.pyc", false},
		{"*.py", "py", false},
		{"node_modules/*", "node_modules/lib.py", true},
		{"node_modules/*", "node_modules/a/b.js", true},
		{"node_modules/*", "src/node_modules/x.js", false},
		{"node_modules/*", "node_modules", false},
		{"*.git/*", ".git/config", true},
		{"*.git/*", "vendor/x.git/HEAD", true},
		{"?.c", "a.c", true},
		{"?.c", "ab.c", false},
		{"?.c", "/.c", true},
		{"[abc].h", "b.h", true},
		{"[abc].h", "d.h", false},
		{"[!abc].h", "d.h", true},
		{"[!abc].h", "a.h", false},
		{"[a-c]x", "bx", true},
		{"[a-c]x", "dx", false},
		{"[z-a]x", "zx", false},
		{"[]]", "]", true},
		{"[^a]", "^", true},
		{"[^a]", "b", false},
		{"a[b", "a[b", true},
		{"a.b", "axb", false},
		{"a+b(c)|d", "a+b(c)|d", true},
		{"**", "deep/nested/file.txt", true},
		{"", "", true},
		{"", "a", false},
	}

	for _, tt := range tests {
		re, err := compileGlob(tt.pattern, false)
		if err != nil {
			t.Fatalf("compileGlob(%q): %v", tt.pattern, err)
		}
		if got := re.MatchString(tt.path); got != tt.want {
			t.Errorf("glob %q against %q = %v, want %v (regexp %s)", tt.pattern, tt.path, got, tt.want, re)
		}
	}
}

func TestCompileGlobCaseSensitivity(t *testing.T) {
	t.Parallel()

	sensitive, err := compileGlob("*.PY", false)
	if err != nil {
		t.Fatalf("compileGlob: %v", err)
	}
	if sensitive.MatchString("main.py") {
		t.Fatalf("case-sensitive glob must not match different case")
	}

	insensitive, err := compileGlob("*.PY", true)
	if err != nil {
		t.Fatalf("compileGlob: %v", err)
	}
	if !insensitive.MatchString("main.py") {
		t.Fatalf("case-insensitive glob must match different case")
	}
}

func TestCompileGlobCachesRegexp(t *testing.T) {
	t.Parallel()

	first, err := compileGlob("cache/*.go", false)
	if err != nil {
		t.Fatalf("compileGlob: %v", err)
	}
	second, err := compileGlob("cache/*.go", false)
	if err != nil {
		t.Fatalf("compileGlob: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached regexp to be reused")
	}
}
