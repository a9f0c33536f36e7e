// Package consolidate walks a directory tree, filters files with include and
// exclude globs and concatenates the survivors into a single text document.
//
// The output layout is fixed:
//
//	<header>
//
//	================================================================================
//
//	File: <relative/path>
//	================================================================================
//	<raw content>
//
// with one such block per included file, in lexical walk order.
package consolidate

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"os"
	"time"

	"consolidator/pkg/ignore"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Consolidator runs consolidation requests. It holds no per-run state and is
// safe for concurrent use on distinct output files.
type Consolidator struct {
	logger *zap.Logger
}

// New returns a Consolidator logging to logger, or nowhere when logger is nil.
func New(logger *zap.Logger) *Consolidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consolidator{logger: logger}
}

// Generate writes the consolidated document described by req.
//
// Only run-level problems are returned: a missing or invalid root, an output
// that cannot be written, a failed walk or cancellation. Files that cannot be
// read are skipped and logged at warn level; the result does not list them.
// Output already written before a failure is left in place.
func (c *Consolidator) Generate(ctx context.Context, req Request) (Result, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := c.logger.With(zap.String("runID", runID))

	if req.Root == "" {
		logger.Error("No root directory supplied")
		return Result{}, ErrMissingDirectory
	}
	if req.Output == "" {
		req.Output = DefaultOutput
	}
	logger.Info("Starting consolidation",
		zap.String("directory", req.Root),
		zap.String("output", req.Output),
		zap.Strings("include", req.Patterns.Include),
		zap.Strings("exclude", req.Patterns.Exclude))

	matcher, opts, err := c.prepare(req, logger)
	if err != nil {
		logger.Error("Failed to prepare consolidation", zap.Error(err))
		return Result{}, err
	}

	outFile, err := os.Create(req.Output)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", req.Output), zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	res := Result{RunID: runID, OutputPath: req.Output}
	skipped, err := c.writeDocument(ctx, outFile, req, matcher, opts, &res, logger)
	if closeErr := outFile.Close(); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: close %s: %w", ErrOutputWrite, req.Output, closeErr))
	}
	if err != nil {
		logger.Error("Consolidation failed", zap.String("file", req.Output), zap.Error(err))
		return Result{}, err
	}

	res.Elapsed = time.Since(startTime)
	logger.Info("Consolidation completed",
		zap.String("outputFile", req.Output),
		zap.Int("totalFiles", res.FilesWritten),
		zap.Int("skippedFiles", skipped),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// writeDocument streams the header and every included file into outFile and
// returns the number of files skipped as unreadable.
func (c *Consolidator) writeDocument(ctx context.Context, outFile *os.File, req Request, matcher *Matcher, opts []WalkOption, res *Result, logger *zap.Logger) (int, error) {
	outInfo, err := outFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	writer := bufio.NewWriter(outFile)
	if err := writeHeader(writer, req.Header); err != nil {
		return 0, fmt.Errorf("%w: write header: %w", ErrOutputWrite, err)
	}

	skipped := 0
	for candidate, err := range c.selected(ctx, req.Root, matcher, outInfo, opts, logger) {
		if err != nil {
			return skipped, err
		}

		content, err := readSource(candidate)
		if err != nil {
			logger.Warn("Skipping unreadable file", zap.String("path", candidate.Rel), zap.Error(err))
			skipped++
			continue
		}

		if err := writeFileBlock(writer, candidate.Rel, content); err != nil {
			return skipped, fmt.Errorf("%w: write %s: %w", ErrOutputWrite, candidate.Rel, err)
		}
		res.FilesWritten++
		logger.Debug("Wrote file block", zap.String("path", candidate.Rel), zap.Int("contentSizeBytes", len(content)))
	}

	if err := writer.Flush(); err != nil {
		return skipped, fmt.Errorf("%w: flush: %w", ErrOutputWrite, err)
	}
	return skipped, nil
}

// Preview returns the files a Generate call with the same request would
// write, without reading their contents or touching the output file.
func (c *Consolidator) Preview(ctx context.Context, req Request) ([]FileCandidate, error) {
	logger := c.logger.With(zap.String("preview", req.Root))
	if req.Root == "" {
		return nil, ErrMissingDirectory
	}

	matcher, opts, err := c.prepare(req, logger)
	if err != nil {
		return nil, err
	}

	var outInfo os.FileInfo
	if req.Output != "" {
		if info, err := os.Stat(req.Output); err == nil {
			outInfo = info
		}
	}

	var files []FileCandidate
	for candidate, err := range c.selected(ctx, req.Root, matcher, outInfo, opts, logger) {
		if err != nil {
			return nil, err
		}
		files = append(files, candidate)
	}
	return files, nil
}

// prepare validates the root and builds the matcher and walk options.
func (c *Consolidator) prepare(req Request, logger *zap.Logger) (*Matcher, []WalkOption, error) {
	info, err := os.Stat(req.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, req.Root)
	}

	matcher, err := Compile(req.Patterns, req.IgnoreCase)
	if err != nil {
		return nil, nil, err
	}

	opts := []WalkOption{WithWalkLogger(logger)}
	if req.IgnoreFile == "" {
		return matcher, opts, nil
	}

	rules, err := ignore.LoadIgnoreFile(req.IgnoreFile, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIgnoreFile, err)
	}
	if !rules.Empty() {
		logger.Debug("Applying ignore rules", zap.String("file", req.IgnoreFile), zap.Int("patterns", len(rules.Patterns)))
		opts = append(opts, WithSkip(ignoreSkip(rules, logger)))
	}
	return matcher, opts, nil
}

// ignoreSkip adapts rules to a walk filter that logs the deciding rule.
func ignoreSkip(rules *ignore.Rules, logger *zap.Logger) func(rel string, isDir bool) bool {
	return func(rel string, isDir bool) bool {
		ignored, p := rules.MatchesPathWithPattern(rel, isDir)
		if ignored {
			logger.Debug("Path ignored by rule",
				zap.String("path", rel),
				zap.String("rule", p.Line),
				zap.String("source", p.Source),
				zap.Int("line", p.LineNo))
		}
		return ignored
	}
}

// selected yields the walk candidates that pass the matcher, excluding the
// file described by exclude. Cancellation is checked before every candidate.
func (c *Consolidator) selected(ctx context.Context, root string, matcher *Matcher, exclude os.FileInfo, opts []WalkOption, logger *zap.Logger) iter.Seq2[FileCandidate, error] {
	return func(yield func(FileCandidate, error) bool) {
		for candidate, err := range Walk(root, opts...) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(FileCandidate{}, fmt.Errorf("%w: %w", ErrCanceled, ctxErr))
				return
			}
			if err != nil {
				yield(FileCandidate{}, fmt.Errorf("%w: %w", ErrWalk, err))
				return
			}

			included, pattern := matcher.MatchWithPattern(candidate.Rel)
			if !included {
				logger.Debug("File filtered out", zap.String("path", candidate.Rel), zap.String("pattern", pattern))
				continue
			}
			if exclude != nil && isSameFile(candidate.Path, exclude) {
				logger.Debug("Skipping output file", zap.String("path", candidate.Rel))
				continue
			}
			if !yield(candidate, nil) {
				return
			}
		}
	}
}

func isSameFile(path string, target os.FileInfo) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(info, target)
}
