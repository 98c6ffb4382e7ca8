package route

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
)

// Embedder turns text into a vector. Production uses the Ollama client; tests
// use the deterministic hash embedder.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DefaultThreshold is the minimum cosine similarity for a routing decision to
// stand; below it the default agent takes the turn.
const DefaultThreshold = 0.35

const embedCacheSize = 512

// Router picks agents for inbound turns. The index is swapped wholesale via
// an atomic pointer: readers always see either the old or the new snapshot,
// never a partial rebuild.
type Router struct {
	idx       atomic.Pointer[Index]
	embedder  Embedder
	cache     *lru.Cache[string, []float32]
	threshold float64
	defaultID string
	logger    *slog.Logger
}

// NewRouter creates a router. defaultID names the agent that takes turns no
// other agent is confident about.
func NewRouter(embedder Embedder, defaultID string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	cache, _ := lru.New[string, []float32](embedCacheSize)
	return &Router{
		embedder:  embedder,
		cache:     cache,
		threshold: DefaultThreshold,
		defaultID: defaultID,
		logger:    logger,
	}
}

// Rebuild embeds the given descriptors into a fresh index and swaps it in.
// Administrative changes (activating or deactivating an agent) go through
// here; the running index is never mutated in place.
func (r *Router) Rebuild(ctx context.Context, descs []Descriptor) error {
	idx, err := BuildIndex(descs, func(text string) ([]float32, error) {
		return r.embed(ctx, text)
	})
	if err != nil {
		return err
	}
	r.idx.Store(idx)
	r.logger.Info("capability index rebuilt", "agents", len(descs))
	return nil
}

// Index returns the current snapshot, nil before the first Rebuild.
func (r *Router) Index() *Index {
	return r.idx.Load()
}

// Route picks the agent for text. Deterministic for a fixed index and text:
// the same input always routes to the same agent. When no active agent
// reaches the threshold the default agent is returned and the miss is logged,
// not surfaced to the user.
func (r *Router) Route(ctx context.Context, text string) (Descriptor, error) {
	idx := r.idx.Load()
	if idx == nil {
		return Descriptor{}, fmt.Errorf("route: index not built")
	}

	vec, err := r.embed(ctx, text)
	if err != nil {
		return Descriptor{}, fmt.Errorf("route: embed query: %w", err)
	}

	best, score, found := idx.Nearest(vec)
	if !found || score < r.threshold {
		r.logger.Info("routing below threshold, using default agent",
			"score", score, "threshold", r.threshold, "error", domain.ErrRoutingThresholdMiss)
		return r.fallback(idx)
	}
	r.logger.Debug("routed turn", "agent", best.ID, "score", score)
	return best, nil
}

// Fallback returns the default agent from the current index.
func (r *Router) Fallback() (Descriptor, error) {
	idx := r.idx.Load()
	if idx == nil {
		return Descriptor{}, fmt.Errorf("route: index not built")
	}
	return r.fallback(idx)
}

func (r *Router) fallback(idx *Index) (Descriptor, error) {
	for _, d := range idx.Descriptors() {
		if d.ID == r.defaultID {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("route: default agent %q not registered", r.defaultID)
}

func (r *Router) embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := r.cache.Get(text); ok {
		return vec, nil
	}
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	r.cache.Add(text, vec)
	return vec, nil
}
