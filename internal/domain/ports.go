package domain

import "context"

// AgentBackend sends one user message to the conversational backend and
// returns its reply. Implementations can be a remote agent platform or the
// in-process tool agent.
type AgentBackend interface {
	Send(ctx context.Context, message, sessionID string) (*AgentResponse, error)
}

// ConversationStore keeps conversations in memory for the life of the
// process.
type ConversationStore interface {
	Save(ctx context.Context, conv *Conversation) error
	Load(ctx context.Context, id string) (*Conversation, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Conversation, error)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string, conv *Conversation) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
