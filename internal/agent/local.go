package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottoshop/internal/checkout"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.AgentBackend = (*Local)(nil)

var (
	greetRe   = regexp.MustCompile(`(?i)^(hi|hello|hey|help|thanks|thank you)\b[!. ]*$`)
	confirmRe = regexp.MustCompile(`(?i)^(ok|okay|yes|y|checkout|check out|confirm|proceed)[.!]?$`)
	addressRe = regexp.MustCompile(`(?i)^(?:my\s+)?(?:delivery\s+)?address(?:\s+is)?\s*:?\s+(.+)$`)
	addRe     = regexp.MustCompile(`(?i)^add\s+(.+)$`)
	removeRe  = regexp.MustCompile(`(?i)^(?:remove|delete|drop|take out)\s+(.+)$`)
	storeRe   = regexp.MustCompile(`(?i)^(?:(?:i'?ll\s+)?(?:choose|select|pick|use|go with|take)\s+)?(sainsbury'?s?|tesco|asda|waitrose)[.!]?$`)
)

const helpText = "Tell me what groceries you need, e.g. \"bread, milk, eggs\", and I'll compare prices at Sainsbury's, Tesco, Asda and Waitrose."

// localSession is what the local agent remembers about one conversation.
type localSession struct {
	basket          []string
	store           domain.Store
	total           float64
	awaitingAddress bool
}

// Local is an in-process agent. It follows the grocery skill's dialogue
// (items → comparison, store → selection, "ok" → address request,
// address → confirmation) and replies in the hosted platform's
// steps/toolResults shape.
type Local struct {
	tools *Tools
	log   *logger.Logger

	mu       sync.Mutex
	sessions map[string]*localSession
}

// NewLocal creates a local agent over the given tools.
func NewLocal(tools *Tools, log *logger.Logger) *Local {
	return &Local{tools: tools, log: log, sessions: make(map[string]*localSession)}
}

// Send answers one message. An empty sessionID starts a new session.
func (l *Local) Send(ctx context.Context, message, sessionID string) (*domain.AgentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.sessions[sessionID]
	if !ok {
		s = &localSession{}
		l.sessions[sessionID] = s
	}

	msg := strings.TrimSpace(message)
	var r reply
	switch {
	case msg == "" || greetRe.MatchString(msg):
		r.text = helpText
	case addressRe.MatchString(msg):
		l.address(s, addressRe.FindStringSubmatch(msg)[1], &r)
	case confirmRe.MatchString(msg):
		l.confirm(s, &r)
	case addRe.MatchString(msg):
		l.mutate(s, "add", addRe.FindStringSubmatch(msg)[1], &r)
	case removeRe.MatchString(msg):
		l.mutate(s, "remove", removeRe.FindStringSubmatch(msg)[1], &r)
	case storeRe.MatchString(msg):
		l.choose(s, storeRe.FindStringSubmatch(msg)[1], &r)
	default:
		l.items(s, msg, &r)
	}

	l.log.Debug("local agent: %q -> %d tool call(s)", truncate(msg, 60), len(r.steps))
	return r.response(sessionID)
}

func (l *Local) items(s *localSession, msg string, r *reply) {
	items := l.tools.ItemsFromText(msg)
	if len(items) == 0 {
		r.text = helpText
		return
	}

	// A new list replaces the basket: report it as an add to an empty one.
	m, err := l.tools.Basket(nil, "add", items)
	if err != nil {
		r.text = err.Error()
		return
	}
	r.call(ToolBasket, map[string]any{"currentItems": []string{}, "action": "add", "items": items}, m)

	s.basket = m.Items
	s.store = domain.StoreUnknown
	s.awaitingAddress = false
	l.compare(s, r)
}

func (l *Local) compare(s *localSession, r *reply) {
	res := l.tools.Compare(s.basket)
	r.call(ToolCompare, map[string]any{"items": s.basket}, res)

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what your %d item(s) cost:\n\n", len(s.basket))
	for _, q := range res.Comparisons {
		fmt.Fprintf(&b, "* **%s:** £%.2f (delivery in %s)\n", q.Store, q.Total, q.DeliveryFormatted())
	}
	fmt.Fprintf(&b, "\n%s\n\nSay a store name to choose it.", res.Message)
	r.text = joinText(r.text, b.String())
}

func (l *Local) mutate(s *localSession, action, list string, r *reply) {
	targets := l.tools.ItemsFromText(list)
	m, err := l.tools.Basket(s.basket, action, targets)
	if err != nil {
		r.text = err.Error()
		return
	}
	r.call(ToolBasket, map[string]any{"currentItems": s.basket, "action": action, "items": targets}, m)

	s.basket = m.Items
	s.store = domain.StoreUnknown
	s.awaitingAddress = false
	r.text = fmt.Sprintf("%s. Basket now has %d item(s).", m.Message, m.ItemCount)
	if len(s.basket) > 0 {
		l.compare(s, r)
	}
}

func (l *Local) choose(s *localSession, name string, r *reply) {
	if len(s.basket) == 0 {
		r.text = "Your basket is empty. " + helpText
		return
	}
	res, err := l.tools.StorePrices(name, s.basket)
	if err != nil {
		r.text = err.Error()
		return
	}
	r.call(ToolPrices, map[string]any{"store": name, "items": s.basket}, res)

	s.store = res.Store
	s.total = res.Total
	r.text = fmt.Sprintf("%s, delivery in %s. Say \"ok\" to check out.", res.Message, res.DeliveryTimeFormatted)
}

func (l *Local) confirm(s *localSession, r *reply) {
	if s.store == domain.StoreUnknown {
		r.text = "Please choose a store first, e.g. \"Tesco\"."
		return
	}
	req := checkout.Request{Store: s.store, Items: s.basket, Total: s.total}
	res := l.tools.Checkout(req)
	r.call(ToolCheckout, req, res)
	s.awaitingAddress = true
	r.text = res.Message
}

func (l *Local) address(s *localSession, addr string, r *reply) {
	if s.store == domain.StoreUnknown {
		r.text = "Please choose a store before giving your address."
		return
	}
	req := checkout.Request{Store: s.store, Items: s.basket, Total: s.total, Address: addr}
	res := l.tools.Checkout(req)
	r.call(ToolCheckout, req, res)
	r.text = res.Message

	if res.Confirmed() {
		*s = localSession{}
	}
}

// ── Reply building ───────────────────────────────────────────────

type toolCall struct {
	name   string
	args   any
	result any
}

type reply struct {
	text  string
	steps []toolCall
}

func (r *reply) call(name string, args, result any) {
	r.steps = append(r.steps, toolCall{name: name, args: args, result: result})
}

// response encodes the reply the way the hosted platform does and decodes
// it back into plain maps, so callers see the same value types either way.
func (r *reply) response(sessionID string) (*domain.AgentResponse, error) {
	steps := make([]map[string]any, len(r.steps))
	for i, c := range r.steps {
		steps[i] = map[string]any{
			"toolResults": []map[string]any{{
				"toolName": c.name,
				"payload":  map[string]any{"args": c.args, "result": c.result},
			}},
		}
	}

	raw, err := json.Marshal(map[string]any{
		"text":      r.text,
		"sessionId": sessionID,
		"steps":     steps,
	})
	if err != nil {
		return nil, fmt.Errorf("local agent: encode reply: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("local agent: decode reply: %w", err)
	}
	return &domain.AgentResponse{Message: r.text, SessionID: sessionID, Data: data}, nil
}

func joinText(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n\n" + b
}

