// Package settings persists the consolidator's user defaults: pattern lists,
// the default header and the notification theme.
//
// The canonical file is JSON with the keys include_patterns,
// exclude_patterns, default_header and theme. Files ending in .yaml, .yml or
// .toml are read and written in those formats with the same keys.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"consolidator/pkg/consolidate"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the settings file used when none is configured.
	DefaultPath = "consolidator_settings.json"
	// EnvPath names the environment variable that overrides DefaultPath.
	EnvPath = "CONSOLIDATOR_SETTINGS"
	// DefaultTheme is the notification theme used when none is configured.
	DefaultTheme = "darkly"
	// DefaultHeader is the instructional paragraph placed atop the output.
	DefaultHeader = "# Code Review Instructions\n\nPlease review the following codebase and provide feedback on:"
)

var (
	// ErrLoad wraps failures reading or parsing a settings file.
	ErrLoad = errors.New("settings load failed")
	// ErrSave wraps failures encoding or writing a settings file.
	ErrSave = errors.New("settings save failed")
)

var (
	defaultInclude = []string{"*.py", "*.js", "*.jsx", "*.ts", "*.tsx", "*.html", "*.css", "*.java", "*.cpp", "*.h", "*.c"}
	defaultExclude = []string{"node_modules/*", "venv/*", "*.pyc", "__pycache__/*", "*.git/*", "build/*", "dist/*"}
)

// Settings is the persisted configuration. It is loaded once per process and
// passed explicitly to whatever needs it.
type Settings struct {
	IncludePatterns []string `json:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`
	DefaultHeader   string   `json:"default_header" yaml:"default_header" toml:"default_header"`
	Theme           string   `json:"theme" yaml:"theme" toml:"theme"`
}

// Default returns the built-in settings. Slices are fresh copies.
func Default() Settings {
	return Settings{
		IncludePatterns: append([]string(nil), defaultInclude...),
		ExcludePatterns: append([]string(nil), defaultExclude...),
		DefaultHeader:   DefaultHeader,
		Theme:           DefaultTheme,
	}
}

// Patterns returns the pattern lists as a consolidate.PatternSet.
func (s Settings) Patterns() consolidate.PatternSet {
	return consolidate.PatternSet{
		Include: append([]string(nil), s.IncludePatterns...),
		Exclude: append([]string(nil), s.ExcludePatterns...),
	}
}

// ResolvePath picks the settings path: an explicit flag value, then the
// CONSOLIDATOR_SETTINGS environment variable, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads settings from path. Any read or parse failure, including a
// missing file, silently yields Default(); the cause is only logged at debug
// level. Keys absent from the file keep their default values.
func Load(path string, logger *zap.Logger) Settings {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := Read(path)
	if err != nil {
		logger.Debug("Using default settings", zap.String("path", path), zap.Error(err))
		return Default()
	}
	logger.Debug("Loaded settings", zap.String("path", path))
	return s
}

// Read is the strict form of Load: it reports failures wrapped in ErrLoad.
func Read(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	s := Default()
	if err := codecFor(path).unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: parse %s: %w", ErrLoad, path, err)
	}

	def := Default()
	if s.IncludePatterns == nil {
		s.IncludePatterns = def.IncludePatterns
	}
	if s.ExcludePatterns == nil {
		s.ExcludePatterns = def.ExcludePatterns
	}
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	return s, nil
}

// Save writes s to path, replacing any existing file.
func Save(path string, s Settings) error {
	data, err := codecFor(path).marshal(s)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrSave, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// ParsePatterns splits a comma-separated glob list, trimming whitespace
// around each entry and dropping empty entries.
func ParsePatterns(list string) []string {
	patterns := []string{}
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// JoinPatterns renders a pattern list in the comma-separated input format.
func JoinPatterns(patterns []string) string {
	return strings.Join(patterns, ", ")
}

// codec encodes settings in one file format.
type codec struct {
	marshal   func(Settings) ([]byte, error)
	unmarshal func([]byte, *Settings) error
}

// codecFor selects the file format from the path's extension; JSON unless
// the file ends in .yaml, .yml or .toml.
func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec{
			marshal:   func(s Settings) ([]byte, error) { return yaml.Marshal(s) },
			unmarshal: func(b []byte, s *Settings) error { return yaml.Unmarshal(b, s) },
		}
	case ".toml":
		return codec{
			marshal:   func(s Settings) ([]byte, error) { return toml.Marshal(s) },
			unmarshal: func(b []byte, s *Settings) error { return toml.Unmarshal(b, s) },
		}
	default:
		return codec{
			marshal:   func(s Settings) ([]byte, error) { return json.MarshalIndent(s, "", "  ") },
			unmarshal: func(b []byte, s *Settings) error { return json.Unmarshal(b, s) },
		}
	}
}
