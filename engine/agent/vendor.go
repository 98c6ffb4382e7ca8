package agent

import (
	"context"
	"log/slog"

	"github.com/ProcuraAI/procura-mvp/engine/criteria"
	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/engine/plan"
	"github.com/ProcuraAI/procura-mvp/engine/route"
	"github.com/ProcuraAI/procura-mvp/engine/table"
)

// VendorAgentID is the routing id of the vendor query agent.
const VendorAgentID = "vendor-query"

// QueryExecutor runs a compiled query; satisfied by hybrid.Executor.
type QueryExecutor interface {
	Execute(ctx context.Context, q domain.CompiledQuery) (domain.ExecutionResult, error)
}

// VendorAgent answers structured vendor questions: it extracts criteria,
// compiles them, executes against both stores and renders a table.
type VendorAgent struct {
	executor QueryExecutor
	logger   *slog.Logger
}

// NewVendorAgent creates the vendor query agent.
func NewVendorAgent(executor QueryExecutor, logger *slog.Logger) *VendorAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &VendorAgent{executor: executor, logger: logger}
}

func (a *VendorAgent) Descriptor() route.Descriptor {
	return route.Descriptor{
		ID:   VendorAgentID,
		Name: "Vendor Query Agent",
		Keywords: []string{
			"vendors", "vendor", "suppliers", "pricing", "cost", "price",
			"rating", "ratings", "services", "locations", "compare vendors",
			"list vendors", "established",
		},
		Active: true,
	}
}

// Handle runs the extract-compile-execute-format pipeline for one turn.
func (a *VendorAgent) Handle(ctx context.Context, turn domain.Turn) (domain.Response, error) {
	intent := criteria.Extract(turn.Content)
	for _, note := range intent.Notes {
		a.logger.Info("query parse note", "note", note)
	}

	q, err := plan.Compile(intent)
	if err != nil {
		return domain.Response{}, err
	}

	result, err := a.executor.Execute(ctx, q)
	if err != nil {
		return domain.Response{}, domain.NewQueryError(intent.Criteria, err)
	}

	tbl := table.Format(result, intent)
	a.logger.Info("vendor query answered",
		"criteria", domain.DescribeCriteria(intent.Criteria),
		"rows", len(tbl.Rows),
		"partial", result.Partial)
	return reply(VendorAgentID, turn, tbl.Summary, &tbl), nil
}
