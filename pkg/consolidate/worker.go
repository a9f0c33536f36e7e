// File: pkg/consolidate/worker.go
package consolidate

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Runner executes Generate on a worker goroutine and reports completion on a
// channel, so an interactive caller never blocks on filesystem I/O.
// At most one run per output file is in flight at any time.
type Runner struct {
	consolidator *Consolidator
	logger       *zap.Logger

	mu     sync.Mutex
	active map[string]struct{} // absolute output paths of running jobs
}

// NewRunner returns a Runner backed by c.
func NewRunner(c *Consolidator, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		consolidator: c,
		logger:       logger,
		active:       make(map[string]struct{}),
	}
}

// Start launches req in the background. The returned channel receives
// exactly one Notification and is then closed. Start fails with
// ErrRunInProgress when a run for the same output file is still active.
func (r *Runner) Start(ctx context.Context, req Request) (<-chan Notification, error) {
	if req.Output == "" {
		req.Output = DefaultOutput
	}
	key := outputKey(req.Output)

	r.mu.Lock()
	if _, busy := r.active[key]; busy {
		r.mu.Unlock()
		r.logger.Warn("Rejected overlapping run", zap.String("output", req.Output))
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, req.Output)
	}
	r.active[key] = struct{}{}
	r.mu.Unlock()

	done := make(chan Notification, 1)
	go r.worker(ctx, key, req, done)
	return done, nil
}

// busy reports whether a run targeting output is in flight.
func (r *Runner) busy(output string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, busy := r.active[outputKey(output)]
	return busy
}

// worker runs one request and publishes its single terminal notification.
// The output slot is released before publishing so a caller reacting to the
// notification can immediately start the next run.
func (r *Runner) worker(ctx context.Context, key string, req Request, done chan<- Notification) {
	r.logger.Debug("Worker started", zap.String("output", req.Output))

	res, err := r.consolidator.Generate(ctx, req)

	r.mu.Lock()
	delete(r.active, key)
	r.mu.Unlock()

	done <- Notification{Result: res, Err: err}
	close(done)
	r.logger.Debug("Worker finished", zap.String("output", req.Output), zap.Bool("ok", err == nil))
}

func outputKey(output string) string {
	abs, err := filepath.Abs(output)
	if err != nil {
		return filepath.Clean(output)
	}
	return abs
}
