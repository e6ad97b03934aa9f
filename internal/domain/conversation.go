package domain

import "time"

// Conversation is the state of one shopping conversation. It is owned by a
// single conversation and never shared.
type Conversation struct {
	ID             string
	AgentSessionID string // session handle issued by the agent backend
	Basket         []string
	Comparisons    ComparisonSet
	SelectedStore  Store
	SelectedTotal  float64
	DeliveryHours  int
	Stage          Stage
	Order          *Order
	History        []Message
	StartedAt      time.Time
	UpdatedAt      time.Time
}

// UserMessages returns the contents of the user's messages, oldest first.
func (c *Conversation) UserMessages() []string {
	var out []string
	for _, m := range c.History {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

// Stage tracks where the conversation is in the ordering flow.
type Stage int

const (
	StageBrowsing Stage = iota
	StageAwaitingAddress
	StageConfirmed
)

// String returns a human-readable stage.
func (s Stage) String() string {
	switch s {
	case StageBrowsing:
		return "browsing"
	case StageAwaitingAddress:
		return "awaiting_address"
	case StageConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one line of conversation history.
type Message struct {
	Role    string
	Content string
	At      time.Time
}

// AgentResponse is what the conversational backend returned for one turn.
// Data has no guaranteed schema; see the extract package.
type AgentResponse struct {
	Message   string
	SessionID string
	Data      any
}

// Clone returns a deep copy, so stored state cannot be changed through a
// caller's pointer.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Basket = append([]string(nil), c.Basket...)
	out.History = append([]Message(nil), c.History...)
	if c.Comparisons != nil {
		out.Comparisons = make(ComparisonSet, len(c.Comparisons))
		for i, q := range c.Comparisons {
			q.Items = append([]GroceryItem(nil), q.Items...)
			q.NotFound = append([]string(nil), q.NotFound...)
			out.Comparisons[i] = q
		}
	}
	if c.Order != nil {
		o := *c.Order
		o.Items = append([]string(nil), c.Order.Items...)
		out.Order = &o
	}
	return &out
}
