// Package orchestrator runs the sync pipeline across a whole manifest.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/glorpus-work/modsync/internal/logger"
	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/glorpus-work/modsync/pkg/pipeline"
	"github.com/google/uuid"
)

// New constructs an Orchestrator around runner. Hooks can be zero if no event
// handling is needed.
func New(runner Runner, hooks Hooks) *Orchestrator {
	return &Orchestrator{Runner: runner, Hooks: hooks}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Run starts one goroutine per entry and waits for all of them. The result has
// exactly one outcome per entry, in input order. A failed entry never affects
// its siblings; cancelling ctx makes pending entries fail at their next network
// call rather than disappearing from the result.
func (o *Orchestrator) Run(ctx context.Context, entries []manifest.Entry, opts Options) []pipeline.Outcome {
	runID := uuid.NewString()
	log := logger.WithFields(logger.Fields{"run_id": runID})
	log.Info("sync started", "entries", len(entries), "concurrency", opts.Concurrency)
	start := time.Now()

	outcomes := make([]pipeline.Outcome, len(entries))

	var sem chan struct{}
	if opts.Concurrency > 0 {
		sem = make(chan struct{}, opts.Concurrency)
	}

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			emit(o.Hooks, Event{Phase: "started", ID: entry.String()})
			out := o.Runner.Run(ctx, entry)
			outcomes[i] = out
			emit(o.Hooks, Event{Phase: "finished", ID: entry.String(), Msg: out.Kind.String()})

			if out.Kind == pipeline.KindFailed {
				log.Error("entry failed",
					"project_id", entry.ProjectID,
					"file_id", entry.FileID,
					"stage", string(out.Stage),
					"error", out.Err)
				return
			}
			log.Debug("entry "+out.Kind.String(),
				"project_id", entry.ProjectID,
				"file_id", entry.FileID,
				"path", out.Path)
		}()
	}
	wg.Wait()

	s := Summarize(outcomes)
	log.Info("sync finished",
		"downloaded", s.Downloaded,
		"skipped", s.Skipped,
		"failed", s.Failed,
		"duration", time.Since(start).Round(time.Millisecond).String())
	emit(o.Hooks, Event{Phase: "done", Msg: s.String()})
	return outcomes
}

// Summarize counts outcomes by kind.
func Summarize(outcomes []pipeline.Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Kind {
		case pipeline.KindSkipped:
			s.Skipped++
		case pipeline.KindDownloaded:
			s.Downloaded++
		case pipeline.KindFailed:
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d downloaded, %d up to date, %d failed (%d total)", s.Downloaded, s.Skipped, s.Failed, s.Total)
}
