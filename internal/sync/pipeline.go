package sync

import (
	"context"
	"log/slog"
	"sync"
)

// RunFunc executes one full synchronization run.
type RunFunc func(ctx context.Context) error

// Pipeline serializes synchronization runs. A trigger arriving while a run is
// in flight queues exactly one follow-up run instead of racing; further
// triggers coalesce into that one.
type Pipeline struct {
	mu     sync.Mutex
	busy   bool
	queued bool
	run    RunFunc
	logger *slog.Logger
}

// NewPipeline creates a pipeline around the given run function.
func NewPipeline(run RunFunc, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{run: run, logger: logger}
}

// Trigger starts a run, or queues one when a run is already in flight. The
// calling goroutine that wins the busy flag drains all queued triggers before
// returning; losers return immediately.
func (p *Pipeline) Trigger(ctx context.Context) error {
	p.mu.Lock()
	if p.busy {
		p.queued = true
		p.mu.Unlock()
		p.logger.Debug("run in flight, trigger queued")
		return nil
	}
	p.busy = true
	p.mu.Unlock()

	var err error
	for {
		err = p.run(ctx)
		if err != nil {
			p.logger.Warn("run failed", "error", err)
		}

		p.mu.Lock()
		if !p.queued || ctx.Err() != nil {
			p.busy = false
			p.mu.Unlock()
			return err
		}
		p.queued = false
		p.mu.Unlock()
	}
}
