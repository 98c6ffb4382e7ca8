// Package hybrid executes compiled queries against the relational and graph
// stores concurrently and merges the results by vendor identity. One degraded
// store yields a partial result; losing both is the only fatal outcome.
package hybrid

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/pkg/fn"
	"github.com/ProcuraAI/procura-mvp/pkg/metrics"
	"github.com/ProcuraAI/procura-mvp/pkg/resilience"
)

// RelationalStore runs the SQL fragment of a compiled query.
type RelationalStore interface {
	QueryFragment(ctx context.Context, frag domain.SQLFragment) ([]domain.Row, error)
}

// GraphStore runs the Cypher fragment of a compiled query.
type GraphStore interface {
	QueryFragment(ctx context.Context, frag domain.GraphFragment) ([]domain.Row, error)
}

// Options configures the executor.
type Options struct {
	// FragmentTimeout bounds each store fragment independently.
	FragmentTimeout time.Duration
	// Transient classifies store errors worth one retry.
	Transient func(error) bool
}

// DefaultOptions uses a 3s per-fragment budget.
func DefaultOptions() Options {
	return Options{FragmentTimeout: 3 * time.Second}
}

// Executor fans a compiled query out to both stores. Each store sits behind
// its own circuit breaker so a flapping store degrades results instead of
// adding latency to every request.
type Executor struct {
	rel        RelationalStore
	graph      GraphStore
	relBreak   *resilience.Breaker
	graphBreak *resilience.Breaker
	opts       Options
	logger     *slog.Logger
}

// New creates an executor. graph may be nil when no graph store is deployed;
// graph fragments are then reported as degraded.
func New(rel RelationalStore, graph GraphStore, opts Options, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FragmentTimeout <= 0 {
		opts.FragmentTimeout = DefaultOptions().FragmentTimeout
	}
	return &Executor{
		rel:        rel,
		graph:      graph,
		relBreak:   resilience.NewBreaker(resilience.DefaultBreakerOpts),
		graphBreak: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		opts:       opts,
		logger:     logger,
	}
}

// fragmentOutcome is one store's contribution to the merge barrier.
type fragmentOutcome struct {
	source domain.Source
	rows   []domain.Row
	err    error
}

// Execute runs both fragments concurrently and merges the survivors. A failed
// or timed-out fragment marks the result partial with its source listed in
// Degraded; if every fragment fails the merged error wraps
// ErrBothFragmentsFailed. Caller cancellation discards everything.
func (e *Executor) Execute(ctx context.Context, q domain.CompiledQuery) (domain.ExecutionResult, error) {
	fragments := []func() fragmentOutcome{
		func() fragmentOutcome { return e.runRelational(ctx, q.Relational) },
	}
	if q.Graph != nil {
		frag := *q.Graph
		fragments = append(fragments, func() fragmentOutcome { return e.runGraph(ctx, frag) })
	}

	outcomes := fn.FanOut(fragments...)

	if err := ctx.Err(); err != nil {
		return domain.ExecutionResult{}, err
	}

	var (
		merged   []domain.Row
		degraded []domain.Source
		failures int
	)
	for _, o := range outcomes {
		if o.err != nil {
			e.logger.Warn("query fragment degraded", "source", o.source, "error", o.err)
			metrics.DegradedResults.Inc(string(o.source))
			degraded = append(degraded, o.source)
			failures++
			continue
		}
		merged = MergeRows(merged, o.rows)
	}

	if failures == len(outcomes) {
		return domain.ExecutionResult{}, domain.ErrBothFragmentsFailed
	}
	return domain.ExecutionResult{
		Rows:     merged,
		Partial:  failures > 0,
		Degraded: degraded,
	}, nil
}

func (e *Executor) runRelational(ctx context.Context, frag domain.SQLFragment) fragmentOutcome {
	rows, err := runFragment(ctx, e.opts, e.relBreak, func(ctx context.Context) ([]domain.Row, error) {
		return e.rel.QueryFragment(ctx, frag)
	})
	return fragmentOutcome{source: domain.SourceRelational, rows: rows, err: err}
}

func (e *Executor) runGraph(ctx context.Context, frag domain.GraphFragment) fragmentOutcome {
	if e.graph == nil {
		return fragmentOutcome{source: domain.SourceGraph, err: domain.ErrFragmentFailure}
	}
	rows, err := runFragment(ctx, e.opts, e.graphBreak, func(ctx context.Context) ([]domain.Row, error) {
		return e.graph.QueryFragment(ctx, frag)
	})
	return fragmentOutcome{source: domain.SourceGraph, rows: rows, err: err}
}

// runFragment applies the per-fragment timeout, the store's breaker, and one
// retry for transient errors.
func runFragment(ctx context.Context, opts Options, breaker *resilience.Breaker,
	query func(context.Context) ([]domain.Row, error)) ([]domain.Row, error) {

	fragCtx, cancel := context.WithTimeout(ctx, opts.FragmentTimeout)
	defer cancel()
	defer metrics.FragmentSeconds.Since(time.Now())

	retry := fn.DefaultRetry
	retry.ShouldRetry = opts.Transient

	result := fn.Retry(fragCtx, retry, func(ctx context.Context) fn.Result[[]domain.Row] {
		return resilience.CallResult(breaker, ctx, func(ctx context.Context) fn.Result[[]domain.Row] {
			return fn.FromPair(query(ctx))
		})
	})

	rows, err := result.Unwrap()
	if err != nil {
		// Distinguish the deadline we imposed from the caller's cancellation;
		// only the former is a fragment timeout.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, domain.ErrFragmentTimeout
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Join(domain.ErrFragmentFailure, err)
	}
	return rows, nil
}
