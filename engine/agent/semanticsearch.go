package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/engine/route"
	"github.com/ProcuraAI/procura-mvp/engine/semantic"
	"github.com/ProcuraAI/procura-mvp/pkg/fn"
)

// SemanticAgentID is the routing id of the semantic search agent.
const SemanticAgentID = "semantic-search"

const semanticTopK = 5

// ProfileSearcher abstracts the vector store; satisfied by
// semantic.VectorStore.
type ProfileSearcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]semantic.ProfileHit, error)
}

// SemanticAgent answers fuzzy "find me someone like" questions by similarity
// over vendor profile embeddings.
type SemanticAgent struct {
	embedder route.Embedder
	searcher ProfileSearcher
	logger   *slog.Logger
}

// NewSemanticAgent creates the semantic search agent.
func NewSemanticAgent(embedder route.Embedder, searcher ProfileSearcher, logger *slog.Logger) *SemanticAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticAgent{embedder: embedder, searcher: searcher, logger: logger}
}

func (a *SemanticAgent) Descriptor() route.Descriptor {
	return route.Descriptor{
		ID:   SemanticAgentID,
		Name: "Semantic Search Agent",
		Keywords: []string{
			"similar", "like", "recommend", "find someone", "who could",
			"best fit", "suggest a vendor", "semantic search",
		},
		Active: true,
	}
}

func (a *SemanticAgent) Handle(ctx context.Context, turn domain.Turn) (domain.Response, error) {
	vec, err := a.embedder.Embed(ctx, turn.Content)
	if err != nil {
		return domain.Response{}, fmt.Errorf("semantic agent: embed: %w", err)
	}

	hits, err := a.searcher.Search(ctx, vec, semanticTopK)
	if err != nil {
		return domain.Response{}, fmt.Errorf("semantic agent: search: %w", err)
	}

	tbl := domain.Table{
		Headers: []string{"Vendor", "Category", "Similarity"},
		Rows: fn.Map(hits, func(h semantic.ProfileHit) []string {
			return []string{h.Name, h.Category, fmt.Sprintf("%.2f", h.Score)}
		}),
	}
	if len(hits) == 0 {
		tbl.Summary = "No similar vendor profiles found."
	} else {
		tbl.Summary = fmt.Sprintf("Found %d vendors with similar profiles.", len(hits))
	}
	return reply(SemanticAgentID, turn, tbl.Summary, &tbl), nil
}
