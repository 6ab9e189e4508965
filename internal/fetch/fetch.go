// Package fetch defines the source-collaborator boundary and the fail-soft
// fan-out that collects raw records from every enabled source.
package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kgrajski/neurotech-newshound/internal/record"
	"github.com/kgrajski/neurotech-newshound/internal/scope"
	"github.com/kgrajski/neurotech-newshound/internal/sources"
)

// Window bounds one fetch pass.
type Window struct {
	Days     int
	MaxItems int
}

// Fetcher is one source collaborator. A failure is a single error for the
// whole source; it never carries partial results.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, window Window) ([]record.Record, error)
}

// Result is the combined raw pool plus per-source named errors.
type Result struct {
	Records []record.Record
	Errors  []string
}

// Pool fans fetchers out concurrently. One source failing contributes zero
// records and one named error; the rest are unaffected.
type Pool struct {
	filter  *scope.Filter
	timeout time.Duration
	logger  zerolog.Logger
}

func NewPool(filter *scope.Filter, timeout time.Duration, logger zerolog.Logger) *Pool {
	if filter == nil {
		filter = scope.NewFilter(nil)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pool{
		filter:  filter,
		timeout: timeout,
		logger:  logger,
	}
}

// FetchAll runs every fetcher, appends their records into one pool, and
// updates per-source registry stats (fetched and in-scope counts, run dates).
// The append-only collection and the registry are guarded by one mutex since
// fetchers run concurrently.
func (p *Pool) FetchAll(ctx context.Context, fetchers []Fetcher, registry *sources.Registry, window Window) Result {
	var (
		mu     sync.Mutex
		result Result
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, fetcher := range fetchers {
		fetcher := fetcher
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			items, err := fetcher.Fetch(fetchCtx, window)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				p.logger.Warn().Err(err).Str("source", fetcher.ID()).Msg("source fetch failed")
				result.Errors = append(result.Errors, "fetch "+fetcher.ID()+": "+err.Error())
				if registry != nil {
					registry.RecordStats(fetcher.ID(), 0, 0, 0)
				}
				return nil
			}

			inScope := 0
			for _, item := range items {
				if p.filter.InScope(item.Title, item.Summary, item.SourceID) {
					inScope++
				}
			}

			result.Records = append(result.Records, items...)
			if registry != nil {
				registry.RecordStats(fetcher.ID(), len(items), inScope, 0)
			}

			p.logger.Info().
				Str("source", fetcher.ID()).
				Int("fetched", len(items)).
				Int("in_scope", inScope).
				Msg("source fetched")
			return nil
		})
	}
	// Failures are contained per source; workers never return errors.
	_ = g.Wait()

	return result
}
