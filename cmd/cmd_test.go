package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"consolidator/pkg/settings"
)

// execute runs the command tree with args and captures both output streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestGenerateCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "x=1")
	writeFile(t, filepath.Join(root, "b.txt"), "skip")
	out := filepath.Join(t.TempDir(), "out.txt")
	settingsPath := filepath.Join(t.TempDir(), "settings.json")

	stdout, _, err := execute(t, "--settings", settingsPath, "generate", root, "-o", out, "-i", "*.py", "--header", "H")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(stdout, "Generated consolidated code file: "+out) {
		t.Fatalf("missing success message, stdout = %q", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	rule := strings.Repeat("=", 80)
	if want := "H\n\n" + rule + "\n\nFile: a.py\n" + rule + "\nx=1\n\n"; string(data) != want {
		t.Fatalf("output = %q, want %q", data, want)
	}
}

func TestGenerateCommandUsesSettings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")
	writeFile(t, filepath.Join(root, "vendor/dep.go"), "package dep")
	writeFile(t, filepath.Join(root, "header.md"), "From file")
	out := filepath.Join(t.TempDir(), "out.txt")

	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	if err := settings.Save(settingsPath, settings.Settings{
		IncludePatterns: []string{"*.go"},
		ExcludePatterns: []string{"vendor/*"},
		DefaultHeader:   "Saved header",
		Theme:           "flatly",
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, _, err := execute(t, "--settings", settingsPath, "generate", "-d", root, "-o", out); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "Saved header\n\n") || !strings.Contains(got, "File: main.go\n") || strings.Contains(got, "vendor/dep.go") {
		t.Fatalf("settings not applied:\n%s", got)
	}

	if _, _, err := execute(t, "--settings", settingsPath, "generate", "-d", root, "-o", out, "--header-file", filepath.Join(root, "header.md")); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err = os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "From file\n\n") {
		t.Fatalf("header file not used:\n%s", data)
	}
}

func TestGenerateCommandMissingDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	_, stderr, err := execute(t, "--settings", filepath.Join(t.TempDir(), "s.json"), "generate", "-o", out)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(stderr, "Please select a project directory") {
		t.Fatalf("stderr = %q", stderr)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output must not be created")
	}
}

func TestGenerateCommandOutputError(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "missing", "out.txt")

	_, stderr, err := execute(t, "--settings", filepath.Join(t.TempDir(), "s.json"), "generate", root, "-o", out)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(stderr, "Failed to generate file: ") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestPreviewCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "a")
	writeFile(t, filepath.Join(root, "node_modules/x.js"), "x")
	writeFile(t, filepath.Join(root, "web/app.js"), "app")
	settingsPath := filepath.Join(t.TempDir(), "s.json")

	stdout, _, err := execute(t, "--settings", settingsPath, "preview", root)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, want := range []string{
		"Include patterns:", "*.py", "Exclude patterns:", "node_modules/*",
		"Files that will be included (2):", "• a.py", "• web/app.js",
		`As flags: --include "*.py, *.js, *.jsx`, `--exclude "node_modules/*, venv/*`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("preview output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "• node_modules/x.js") {
		t.Errorf("excluded file listed:\n%s", stdout)
	}

	_, stderr, err := execute(t, "--settings", settingsPath, "preview", filepath.Join(root, "missing"))
	if !errors.Is(err, errReported) || !strings.Contains(stderr, "invalid root directory") {
		t.Fatalf("expected reported invalid directory, got %v / %q", err, stderr)
	}
}

func TestSettingsCommands(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.json")

	stdout, _, err := execute(t, "--settings", settingsPath, "settings", "save", "-i", " *.go , go.mod ", "--theme", "solar")
	if err != nil {
		t.Fatalf("settings save: %v", err)
	}
	if !strings.Contains(stdout, "Settings saved successfully to "+settingsPath) {
		t.Fatalf("stdout = %q", stdout)
	}

	saved, err := settings.Read(settingsPath)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(saved.IncludePatterns, []string{"*.go", "go.mod"}) || saved.Theme != "solar" {
		t.Fatalf("saved settings = %+v", saved)
	}
	if !reflect.DeepEqual(saved.ExcludePatterns, settings.Default().ExcludePatterns) {
		t.Fatalf("unchanged fields must keep their values, got %v", saved.ExcludePatterns)
	}

	stdout, stderr, err := execute(t, "--settings", settingsPath, "settings", "show")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if !strings.Contains(stdout, `"include_patterns"`) || !strings.Contains(stdout, `"go.mod"`) {
		t.Fatalf("show stdout = %q", stdout)
	}
	if !strings.Contains(stderr, settingsPath) {
		t.Fatalf("show stderr = %q", stderr)
	}

	if _, _, err := execute(t, "--settings", settingsPath, "settings", "reset"); err != nil {
		t.Fatalf("settings reset: %v", err)
	}
	reset, err := settings.Read(settingsPath)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(reset, settings.Default()) {
		t.Fatalf("reset settings = %+v", reset)
	}
}

func TestSettingsSaveFailure(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "no", "such", "settings.json")

	_, stderr, err := execute(t, "--settings", settingsPath, "settings", "save", "--theme", "cyborg")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(stderr, "Failed to save settings: ") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestSettingsPathFromEnvironment(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "env.toml")
	t.Setenv(settings.EnvPath, settingsPath)

	if _, _, err := execute(t, "settings", "save", "--header", "From env"); err != nil {
		t.Fatalf("settings save: %v", err)
	}
	saved, err := settings.Read(settingsPath)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if saved.DefaultHeader != "From env" {
		t.Fatalf("DefaultHeader = %q", saved.DefaultHeader)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "--settings", filepath.Join(t.TempDir(), "s.json"), "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(stdout) != "dev" {
		t.Fatalf("version --short = %q", stdout)
	}

	stdout, _, err = execute(t, "--settings", filepath.Join(t.TempDir(), "s.json"), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "consolidator version dev") {
		t.Fatalf("version = %q", stdout)
	}
}
