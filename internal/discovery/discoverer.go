package discovery

import (
	"context"

	"genesis/internal/logging"
	"genesis/internal/pipeline"
)

// DefaultMaxResults caps how many tool candidates reach concept synthesis,
// regardless of how many the external index returns.
const DefaultMaxResults = 3

// Discoverer implements pipeline.ToolDiscoverer: it dispatches the searcher
// through the bounded pool and waits with the pool's timeout. Discovery is
// explicitly best-effort; the returned error exists for observability only
// and callers must not treat it as fatal.
type Discoverer struct {
	searcher   Searcher
	pool       *Pool
	maxResults int
}

// NewDiscoverer wires a searcher to a pool. A maxResults of zero or less
// selects the default cap.
func NewDiscoverer(searcher Searcher, pool *Pool, maxResults int) *Discoverer {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Discoverer{searcher: searcher, pool: pool, maxResults: maxResults}
}

var _ pipeline.ToolDiscoverer = (*Discoverer)(nil)

// Discover searches for tools matching the scaffold keywords. The result is
// possibly empty; network, parse, and timeout failures all surface as
// (nil, err) and never block past the pool timeout.
func (d *Discoverer) Discover(ctx context.Context, scaffold pipeline.Scaffold) ([]pipeline.Tool, error) {
	if scaffold.Empty() {
		return nil, nil
	}

	tools, err := d.pool.Submit(ctx, func(taskCtx context.Context) ([]pipeline.Tool, error) {
		return d.searcher.Search(taskCtx, scaffold.Keywords, d.maxResults)
	})
	if err != nil {
		logging.DiscoveryWarn("tool discovery failed: %v", err)
		return nil, err
	}

	if len(tools) > d.maxResults {
		tools = tools[:d.maxResults]
	}
	logging.Discovery("discovered %d tools for keywords %v", len(tools), scaffold.Keywords)
	return tools, nil
}
