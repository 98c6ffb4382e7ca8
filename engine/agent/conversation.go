package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/engine/route"
	"github.com/ProcuraAI/procura-mvp/pkg/ollama"
)

// ConversationAgentID is the routing id of the conversation agent. It is
// also the orchestrator's default fallback.
const ConversationAgentID = "conversation"

const conversationSystemPrompt = `You are Procura, a helpful procurement assistant.
You can discuss vendors, services and pricing in general terms. Keep answers
short and practical. For specific vendor data questions, suggest asking things
like "show me vendors in California with ratings above 4.0".`

// historyWindow bounds the per-conversation context sent to the model.
const historyWindow = 10

// Chatter abstracts the chat completion backend; satisfied by ollama.Client.
type Chatter interface {
	Chat(ctx context.Context, messages []ollama.Message) (string, error)
}

// ConversationAgent handles open-ended turns with an LLM, keeping a short
// history window per conversation. When the model is unreachable it degrades
// to a canned reply instead of erroring the turn.
type ConversationAgent struct {
	chatter Chatter
	logger  *slog.Logger

	mu      sync.Mutex
	history map[string][]ollama.Message
}

// NewConversationAgent creates the conversation agent.
func NewConversationAgent(chatter Chatter, logger *slog.Logger) *ConversationAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationAgent{
		chatter: chatter,
		logger:  logger,
		history: make(map[string][]ollama.Message),
	}
}

func (a *ConversationAgent) Descriptor() route.Descriptor {
	return route.Descriptor{
		ID:   ConversationAgentID,
		Name: "Conversation Agent",
		Keywords: []string{
			"chat", "hello", "hi", "help", "thanks", "general questions",
			"small talk", "who are you", "what can you do",
		},
		Active: true,
	}
}

func (a *ConversationAgent) Handle(ctx context.Context, turn domain.Turn) (domain.Response, error) {
	messages := a.buildMessages(turn)

	content, err := a.chatter.Chat(ctx, messages)
	if err != nil {
		a.logger.Warn("chat completion failed, using fallback reply", "error", err)
		content = "Sorry, I'm having trouble thinking right now. " +
			"You can still ask me structured vendor questions, like " +
			`"list vendors with ratings above 4.0".`
		return reply(ConversationAgentID, turn, content, nil), nil
	}

	a.remember(turn.ConversationID, ollama.Message{Role: "user", Content: turn.Content})
	a.remember(turn.ConversationID, ollama.Message{Role: "assistant", Content: content})
	return reply(ConversationAgentID, turn, content, nil), nil
}

func (a *ConversationAgent) buildMessages(turn domain.Turn) []ollama.Message {
	a.mu.Lock()
	past := a.history[turn.ConversationID]
	a.mu.Unlock()

	messages := make([]ollama.Message, 0, len(past)+2)
	messages = append(messages, ollama.Message{Role: "system", Content: conversationSystemPrompt})
	messages = append(messages, past...)
	messages = append(messages, ollama.Message{Role: "user", Content: turn.Content})
	return messages
}

func (a *ConversationAgent) remember(conversationID string, msg ollama.Message) {
	if conversationID == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	h := append(a.history[conversationID], msg)
	if len(h) > historyWindow {
		h = h[len(h)-historyWindow:]
	}
	a.history[conversationID] = h
}
