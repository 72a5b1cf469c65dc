package tasks

import (
	"context"

	"github.com/techunar/stockwire/app/enrich"
)

// Enricher produces the sentiment/recommendation/stock verdict for an
// article's body text. Implementations never fail: they degrade to the
// UNKNOWN verdict instead.
type Enricher interface {
	Analyze(ctx context.Context, text string) enrich.Result
}

// TaskSchedulerInterface defines the interface for the background ingestion
// supervisor. Start launches the worker pool and the periodic cycle loop;
// Stop cancels the loop and waits for in-flight tasks to finish.
type TaskSchedulerInterface interface {
	Start()
	Stop()
}
