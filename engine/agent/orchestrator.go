package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/engine/route"
	"github.com/ProcuraAI/procura-mvp/pkg/metrics"
)

// Orchestrator owns the router and the agent set. It implements the turn
// contract: every inbound turn produces exactly one response, errors
// included, and the conversation id is always echoed back.
type Orchestrator struct {
	router *route.Router
	agents map[string]Agent
	order  []string
	logger *slog.Logger
}

// NewOrchestrator registers agents in the given order (order matters for
// routing tie-breaks) and builds the capability index.
func NewOrchestrator(ctx context.Context, router *route.Router, agents []Agent, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		router: router,
		agents: make(map[string]Agent, len(agents)),
		logger: logger,
	}

	descs := make([]route.Descriptor, 0, len(agents))
	for _, a := range agents {
		d := a.Descriptor()
		if _, dup := o.agents[d.ID]; dup {
			return nil, fmt.Errorf("orchestrator: duplicate agent id %q", d.ID)
		}
		o.agents[d.ID] = a
		o.order = append(o.order, d.ID)
		descs = append(descs, d)
	}

	if err := router.Rebuild(ctx, descs); err != nil {
		return nil, fmt.Errorf("orchestrator: build capability index: %w", err)
	}
	return o, nil
}

// Agents lists registered descriptors in registration order.
func (o *Orchestrator) Agents() []route.Descriptor {
	out := make([]route.Descriptor, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.agents[id].Descriptor())
	}
	return out
}

// ProcessTurn routes and handles one turn. It never returns an error: every
// failure becomes an error-typed response with a user-facing message.
func (o *Orchestrator) ProcessTurn(ctx context.Context, turn domain.Turn) domain.Response {
	start := time.Now()

	desc, err := o.router.Route(ctx, turn.Content)
	if err != nil {
		o.logger.Error("routing failed", "error", err)
		return o.errorResponse(turn, err)
	}
	metrics.RoutingPicks.Inc(desc.ID)

	resp, err := o.handleWithFallback(ctx, desc, turn)
	if err != nil {
		o.logger.Error("turn failed", "agent", desc.ID, "error", err)
		return o.errorResponse(turn, err)
	}

	o.logger.Info("turn handled",
		"agent", resp.AgentID,
		"conversation_id", turn.ConversationID,
		"elapsed", time.Since(start))
	return resp
}

// handleWithFallback tries the routed agent, falling through to the default
// agent when the routed one hands the turn back.
func (o *Orchestrator) handleWithFallback(ctx context.Context, desc route.Descriptor, turn domain.Turn) (domain.Response, error) {
	a, ok := o.agents[desc.ID]
	if !ok {
		return domain.Response{}, fmt.Errorf("orchestrator: agent %q not registered", desc.ID)
	}

	resp, err := a.Handle(ctx, turn)
	if !errors.Is(err, ErrNotApplicable) {
		return resp, err
	}

	o.logger.Info("agent handed turn back, using default", "agent", desc.ID)
	fb, err := o.router.Fallback()
	if err != nil {
		return domain.Response{}, err
	}
	if fb.ID == desc.ID {
		return domain.Response{}, fmt.Errorf("orchestrator: default agent %q handed turn back", fb.ID)
	}
	fallback, ok := o.agents[fb.ID]
	if !ok {
		return domain.Response{}, fmt.Errorf("orchestrator: default agent %q not registered", fb.ID)
	}
	return fallback.Handle(ctx, turn)
}

// errorResponse converts the engine's failure taxonomy into a user-facing
// message. Criteria context is disclosed when available so the user knows
// what to rephrase.
func (o *Orchestrator) errorResponse(turn domain.Turn, err error) domain.Response {
	metrics.TurnErrors.Inc("orchestrator")

	var content string
	var qe *domain.QueryError
	switch {
	case errors.Is(err, domain.ErrBothFragmentsFailed):
		content = "The vendor data stores are unavailable right now. Please try again in a moment."
		if errors.As(err, &qe) {
			content += fmt.Sprintf(" (criteria: %s)", domain.DescribeCriteria(qe.Criteria))
		}
	case errors.Is(err, domain.ErrUnsupportedCriterion):
		content = "I couldn't translate part of that question into a vendor query."
		if errors.As(err, &qe) {
			content += fmt.Sprintf(" I understood: %s. Try rephrasing the rest.", domain.DescribeCriteria(qe.Criteria))
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrFragmentTimeout):
		content = "That query took too long. Try narrowing it down."
	default:
		content = "Something went wrong handling that. Please try again."
	}

	return domain.Response{
		Type:           domain.MessageError,
		Content:        content,
		ConversationID: turn.ConversationID,
		Timestamp:      time.Now().UTC(),
	}
}
