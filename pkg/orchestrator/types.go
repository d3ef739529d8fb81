//go:generate mockgen -destination=./mocks/orchestrator.go . Runner

package orchestrator

import (
	"context"

	"github.com/glorpus-work/modsync/pkg/manifest"
	"github.com/glorpus-work/modsync/pkg/pipeline"
)

// Runner syncs one manifest entry. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, entry manifest.Entry) pipeline.Outcome
}

// Orchestrator runs a Runner for every manifest entry concurrently.
type Orchestrator struct {
	Runner Runner
	Hooks  Hooks // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // started|finished|done
	ID    string // entry "projectID/fileID", empty for run-level events
	Msg   string
}

// Hooks carries callbacks for progress events. OnEvent is called from the
// entry goroutines and must be safe for concurrent use.
type Hooks struct {
	OnEvent func(Event)
}

// Options control orchestrator execution.
type Options struct {
	Concurrency int // maximum in-flight entries, <= 0 means unbounded
}

// Summary counts outcomes by kind.
type Summary struct {
	Total      int
	Skipped    int
	Downloaded int
	Failed     int
}
