// File: pkg/consolidate/errors.go
package consolidate

import "errors"

// Sentinel errors for consolidation runs. Every error returned by Generate,
// Preview or Runner.Start wraps exactly one of them, so callers branch with
// errors.Is while the message keeps the underlying cause text.
var (
	// ErrMissingDirectory means no root directory was supplied.
	ErrMissingDirectory = errors.New("missing root directory")
	// ErrInvalidDirectory means the root does not exist or is not a directory.
	ErrInvalidDirectory = errors.New("invalid root directory")
	// ErrInvalidPattern means an include or exclude glob could not be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrIgnoreFile means an explicitly requested ignore file could not be loaded.
	ErrIgnoreFile = errors.New("ignore file unavailable")
	// ErrOutputWrite means the output file could not be created, written or closed.
	ErrOutputWrite = errors.New("output write failed")
	// ErrWalk means the directory walk failed at the root level.
	ErrWalk = errors.New("directory walk failed")
	// ErrSourceRead marks a single unreadable source file. It is only ever
	// logged, never returned from a run.
	ErrSourceRead = errors.New("source read failed")
	// ErrCanceled means the run's context was canceled between files.
	ErrCanceled = errors.New("consolidation canceled")
	// ErrRunInProgress means another run already targets the same output file.
	ErrRunInProgress = errors.New("run already in progress")
)
