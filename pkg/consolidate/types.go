package consolidate

import (
	"errors"
	"strings"
	"time"
)

// RuleWidth is the number of '=' characters in every rule line of the output.
const RuleWidth = 80

// DefaultOutput is the output file used when the caller does not name one.
const DefaultOutput = "consolidated_code.txt"

// rule is the separator line written after the header and after each file label.
var rule = strings.Repeat("=", RuleWidth)

// PatternSet holds the ordered include and exclude glob lists.
// Exclusion is evaluated first; a path matching neither list is excluded.
type PatternSet struct {
	Include []string // Globs a relative path must match to be written.
	Exclude []string // Globs that reject a relative path outright.
}

// FileCandidate is a regular file discovered under the scan root.
type FileCandidate struct {
	Rel  string // Path relative to the root, always '/'-separated.
	Path string // Walkable path used for reading.
}

// Request describes one consolidation run. It is built fresh per invocation.
type Request struct {
	Root       string     // Directory to scan.
	Patterns   PatternSet // Include/exclude globs.
	Header     string     // Text written verbatim at the top of the output.
	Output     string     // File to create or truncate.
	IgnoreCase bool       // Match globs case-insensitively.
	IgnoreFile string     // Optional extra gitignore-style rules file.
}

// Result is the outcome of a successful run. Files skipped because they
// could not be read are reported only through the run's log.
type Result struct {
	RunID        string // Identifier attached to every log line of the run.
	OutputPath   string // The file that was written.
	FilesWritten int    // Number of File: blocks in the output.
	Elapsed      time.Duration
}

// Notification is the single terminal message a Runner delivers per run.
type Notification struct {
	Result Result
	Err    error
}

// OK reports whether the run succeeded.
func (n Notification) OK() bool {
	return n.Err == nil
}

// Message returns the human-readable text shown to the user.
func (n Notification) Message() string {
	switch {
	case n.Err == nil:
		return "Generated consolidated code file: " + n.Result.OutputPath
	case errors.Is(n.Err, ErrMissingDirectory):
		return "Please select a project directory"
	default:
		return "Failed to generate file: " + n.Err.Error()
	}
}
