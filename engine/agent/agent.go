// Package agent holds the specialized agents behind the chat surface and the
// orchestrator that routes turns between them.
package agent

import (
	"context"
	"errors"
	"time"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/engine/route"
)

// ErrNotApplicable lets a misrouted agent hand a turn back so the
// orchestrator can fall through to the default agent. Routing is advisory,
// never authoritative.
var ErrNotApplicable = errors.New("agent: turn not applicable")

// Agent handles chat turns it advertises capabilities for.
type Agent interface {
	Descriptor() route.Descriptor
	Handle(ctx context.Context, turn domain.Turn) (domain.Response, error)
}

// reply assembles an assistant response, echoing the conversation id.
func reply(agentID string, turn domain.Turn, content string, tbl *domain.Table) domain.Response {
	return domain.Response{
		Type:           domain.MessageAssistant,
		Content:        content,
		ConversationID: turn.ConversationID,
		AgentID:        agentID,
		Table:          tbl,
		Timestamp:      time.Now().UTC(),
	}
}
