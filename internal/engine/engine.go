// Package engine drives a shopping conversation: it relays each turn to the
// agent backend, folds what the extractor recovers into the conversation,
// and walks the checkout from store choice to confirmed order.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoshop/internal/checkout"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/extract"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Messages shown in place of, or next to, the agent's reply.
const (
	MsgComparisonsReady = "I've found the best prices for you. Please select a store from the options above."
	MsgAskAddress       = "Great choice! Please enter your delivery address to complete the order."
	MsgAgentError       = "Sorry, I encountered an error: %v. Please check your API key configuration and try again."
)

// MinAddressLength is the shortest address SubmitAddress accepts.
const MinAddressLength = 10

var orderNumberRe = regexp.MustCompile(`(?i)\border\s*(?:number\s*)?#\s*([A-Z0-9][A-Z0-9-]*)`)

// AddressError is returned by SubmitAddress for input it will not send.
type AddressError struct {
	Msg string
}

func (e *AddressError) Error() string { return e.Msg }

// Unwrap lets callers match with errors.Is(err, domain.ErrInvalidAddress).
func (e *AddressError) Unwrap() error { return domain.ErrInvalidAddress }

// TurnResult is what one engine call produced.
type TurnResult struct {
	Conversation *domain.Conversation `json:"-"`
	Message      string               `json:"message"`
	Extracted    *extract.Result      `json:"extracted,omitempty"`
	// Degraded is set when the agent failed and the engine carried on
	// without it.
	Degraded bool `json:"degraded"`
}

// Option configures the engine.
type Option func(*Engine)

// WithNotifier sets where order notices go.
func WithNotifier(n domain.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithExtractor replaces the default extractor.
func WithExtractor(x *extract.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithProcessor sets the checkout processor used for fallback orders.
func WithProcessor(p *checkout.Processor) Option {
	return func(e *Engine) { e.processor = p }
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine manages shopping conversations. It depends only on interfaces
// and is fully testable with stubs.
type Engine struct {
	agent     domain.AgentBackend
	store     domain.ConversationStore
	extractor *extract.Extractor
	processor *checkout.Processor
	notifier  domain.Notifier
	log       *logger.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*convLock
}

// New creates an engine with the given dependencies and options.
func New(agent domain.AgentBackend, store domain.ConversationStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		agent: agent,
		store: store,
		log:   log,
		now:   time.Now,
		locks: make(map[string]*convLock),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.extractor == nil {
		e.extractor = extract.New(log)
	}
	if e.processor == nil {
		e.processor = checkout.NewProcessor()
	}
	return e
}

// convLock is a per-conversation mutex; refs counts callers holding or
// waiting on it, guarded by Engine.mu.
type convLock struct {
	sync.Mutex
	refs int
}

// lock serialises turns of one conversation.
func (e *Engine) lock(id string) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &convLock{}
		e.locks[id] = l
	}
	l.refs++
	e.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		e.mu.Lock()
		l.refs--
		e.mu.Unlock()
	}
}

// Forget drops the per-conversation lock after the conversation has been
// evicted from the store. A lock still held or waited on is kept, so a
// turn in flight and the next one stay serialised.
func (e *Engine) Forget(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.locks[id]; ok && l.refs == 0 {
		delete(e.locks, id)
	}
}

// ── Conversation lifecycle ───────────────────────────────────────

// Start creates and stores a new conversation.
func (e *Engine) Start(ctx context.Context) (*domain.Conversation, error) {
	now := e.now()
	conv := &domain.Conversation{
		ID:        newConversationID(),
		Stage:     domain.StageBrowsing,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}
	e.log.Info("started conversation %s", conv.ID)
	return conv, nil
}

// Get returns a conversation by ID.
func (e *Engine) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return e.store.Load(ctx, id)
}

// NewOrder clears the basket, comparisons, selection and order, and starts
// a fresh agent session. History is kept.
func (e *Engine) NewOrder(ctx context.Context, id string) (*domain.Conversation, error) {
	unlock := e.lock(id)
	defer unlock()

	conv, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	conv.AgentSessionID = ""
	conv.Basket = nil
	conv.Comparisons = nil
	conv.SelectedStore = domain.StoreUnknown
	conv.SelectedTotal = 0
	conv.DeliveryHours = 0
	conv.Stage = domain.StageBrowsing
	conv.Order = nil
	conv.UpdatedAt = e.now()

	if err := e.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}
	e.log.Info("conversation %s: new order", id)
	return conv, nil
}

// ── Turns ────────────────────────────────────────────────────────

// HandleTurn sends one user message to the agent and folds the reply into
// the conversation. An agent failure is reported in the message, not as an
// error, and leaves the conversation's shopping state as it was.
func (e *Engine) HandleTurn(ctx context.Context, id, message string) (*TurnResult, error) {
	unlock := e.lock(id)
	defer unlock()

	conv, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	if conv.Stage == domain.StageConfirmed {
		return nil, domain.ErrOrderComplete
	}

	e.record(conv, domain.RoleUser, message)

	resp, err := e.agent.Send(ctx, message, conv.AgentSessionID)
	if err != nil {
		e.log.Error("conversation %s: agent: %v", id, err)
		msg := fmt.Sprintf(MsgAgentError, err)
		e.record(conv, domain.RoleAssistant, msg)
		if err := e.store.Save(ctx, conv); err != nil {
			return nil, fmt.Errorf("saving conversation: %w", err)
		}
		return &TurnResult{Conversation: conv, Message: msg, Degraded: true}, nil
	}
	if resp.SessionID != "" {
		conv.AgentSessionID = resp.SessionID
	}

	res := e.extractor.Extract(resp, conv.UserMessages())
	if res.Empty() {
		e.log.Debug("engine: turn on %s carried no structured data", conv.ID)
	}
	msg := e.apply(conv, res, resp.Message)
	e.record(conv, domain.RoleAssistant, msg)

	if err := e.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}
	return &TurnResult{Conversation: conv, Message: msg, Extracted: res}, nil
}

// apply folds an extraction result into conv and returns the message to
// show. A turn that reports a store choice or a checkout status updates
// the selection and stage; only other turns replace the comparisons.
func (e *Engine) apply(conv *domain.Conversation, res *extract.Result, message string) string {
	if len(res.BasketItems) > 0 {
		conv.Basket = append([]string(nil), res.BasketItems...)
	}

	if res.Store != nil {
		e.selectQuote(conv, res.Store.Store, res.Store.Total)
	}

	switch {
	case res.Checkout != nil:
		switch res.Checkout.Status {
		case checkout.StatusAddressRequired:
			conv.Stage = domain.StageAwaitingAddress
		case checkout.StatusConfirmed:
			if conv.SelectedStore != domain.StoreUnknown {
				number := res.Checkout.OrderNumber
				if number == "" {
					number = orderNumberFrom(message)
				}
				if number != "" {
					e.confirm(conv, number, res.Checkout.Address)
				}
			}
		}

	case len(res.Comparisons) > 0 && res.Store == nil:
		conv.Comparisons = res.Comparisons
		conv.SelectedStore = domain.StoreUnknown
		conv.SelectedTotal = 0
		conv.DeliveryHours = 0
		conv.Stage = domain.StageBrowsing
		e.log.Debug("conversation %s: %d comparison(s) via %s", conv.ID, len(res.Comparisons), res.Source)
		return MsgComparisonsReady
	}

	return message
}

func (e *Engine) selectQuote(conv *domain.Conversation, store domain.Store, total float64) {
	conv.SelectedStore = store
	conv.SelectedTotal = total
	if q, ok := conv.Comparisons.Find(store); ok {
		conv.DeliveryHours = q.DeliveryHours
		if total == 0 {
			conv.SelectedTotal = q.Total
		}
	}
}

// ResolveStore turns a user's choice into a store: a store name,
// "cheapest", "fastest", or a 1-based position in the comparisons.
func (e *Engine) ResolveStore(conv *domain.Conversation, choice string) (domain.Store, error) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	if len(conv.Comparisons) == 0 {
		return domain.StoreUnknown, fmt.Errorf("%w: no prices to choose from yet", domain.ErrNoStoreSelected)
	}

	switch choice {
	case "cheapest":
		q, _ := conv.Comparisons.Cheapest()
		return q.Store, nil
	case "fastest":
		q, _ := conv.Comparisons.Fastest()
		return q.Store, nil
	}

	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(conv.Comparisons) {
			return domain.StoreUnknown, fmt.Errorf("%w: choose 1 to %d", domain.ErrUnknownStore, len(conv.Comparisons))
		}
		return conv.Comparisons[n-1].Store, nil
	}

	store, ok := domain.ParseStore(choice)
	if !ok {
		return domain.StoreUnknown, fmt.Errorf("%w: %q", domain.ErrUnknownStore, choice)
	}
	return store, nil
}

// SelectStore records the chosen store, fills an empty basket from its
// quote, tells the agent, and asks it to check out. The conversation moves
// to address collection even if the agent cannot be reached.
func (e *Engine) SelectStore(ctx context.Context, id string, store domain.Store) (*TurnResult, error) {
	unlock := e.lock(id)
	defer unlock()

	conv, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	if conv.Stage == domain.StageConfirmed {
		return nil, domain.ErrOrderComplete
	}

	quote, ok := conv.Comparisons.Find(store)
	if !ok {
		return nil, fmt.Errorf("%w: no quote for %s", domain.ErrUnknownStore, store)
	}

	conv.SelectedStore = store
	conv.SelectedTotal = quote.Total
	conv.DeliveryHours = quote.DeliveryHours
	if len(conv.Basket) == 0 {
		conv.Basket = quote.ItemNames()
	}
	e.log.Info("conversation %s: selected %s (£%.2f)", id, store, quote.Total)

	result := &TurnResult{Conversation: conv, Message: MsgAskAddress}

	for _, msg := range []string{store.String(), "ok"} {
		e.record(conv, domain.RoleUser, msg)
		resp, err := e.agent.Send(ctx, msg, conv.AgentSessionID)
		if err != nil {
			e.log.Warn("conversation %s: agent during store selection: %v", id, err)
			result.Degraded = true
			break
		}
		if resp.SessionID != "" {
			conv.AgentSessionID = resp.SessionID
		}
		if msg == "ok" && strings.TrimSpace(resp.Message) != "" {
			result.Message = resp.Message
		}
	}

	conv.Stage = domain.StageAwaitingAddress
	e.record(conv, domain.RoleAssistant, result.Message)

	if err := e.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}
	return result, nil
}

// ValidateAddress applies the input checks SubmitAddress runs first.
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)
	switch {
	case address == "":
		return &AddressError{Msg: "Please enter a delivery address"}
	case len([]rune(address)) < MinAddressLength:
		return &AddressError{Msg: "Please enter a complete address"}
	}
	return nil
}

// SubmitAddress sends the delivery address to the agent and reads the
// order number from its reply. When the agent fails or gives no number,
// the order is confirmed locally by the checkout processor instead.
func (e *Engine) SubmitAddress(ctx context.Context, id, address string) (*TurnResult, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)

	unlock := e.lock(id)
	defer unlock()

	conv, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	switch {
	case conv.Stage == domain.StageConfirmed:
		return nil, domain.ErrOrderComplete
	case conv.SelectedStore == domain.StoreUnknown:
		return nil, domain.ErrNoStoreSelected
	}

	msg := "My delivery address is: " + address
	e.record(conv, domain.RoleUser, msg)

	result := &TurnResult{Conversation: conv}
	var number string

	resp, err := e.agent.Send(ctx, msg, conv.AgentSessionID)
	if err != nil {
		e.log.Warn("conversation %s: agent during checkout: %v", id, err)
	} else {
		if resp.SessionID != "" {
			conv.AgentSessionID = resp.SessionID
		}
		res := e.extractor.Extract(resp, conv.UserMessages())
		result.Extracted = res
		if res.Checkout != nil && res.Checkout.OrderNumber != "" {
			number = res.Checkout.OrderNumber
		} else {
			number = orderNumberFrom(resp.Message)
		}
		result.Message = resp.Message
	}

	if number == "" {
		r := e.processor.Process(checkout.Request{
			Store:   conv.SelectedStore,
			Items:   conv.Basket,
			Total:   conv.SelectedTotal,
			Address: address,
		})
		number = r.OrderNumber
		result.Message = r.Message
		result.Degraded = true
		e.log.Warn("conversation %s: no order number from agent, confirmed locally as %s", id, number)
	}

	e.confirm(conv, number, address)
	e.record(conv, domain.RoleAssistant, result.Message)

	if err := e.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}

	if e.notifier != nil {
		_ = e.notifier.Notify(ctx, fmt.Sprintf("Order %s confirmed: %s, £%.2f", number, conv.SelectedStore, conv.SelectedTotal))
	}
	return result, nil
}

func (e *Engine) confirm(conv *domain.Conversation, number, address string) {
	conv.Order = &domain.Order{
		OrderNumber: number,
		Store:       conv.SelectedStore,
		Items:       append([]string(nil), conv.Basket...),
		Total:       conv.SelectedTotal,
		Address:     address,
	}
	conv.Stage = domain.StageConfirmed
	e.log.Info("conversation %s: order %s confirmed", conv.ID, number)
}

// orderNumberFrom finds "order #X" in a reply.
func orderNumberFrom(message string) string {
	m := orderNumberRe.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return m[1]
}

func (e *Engine) record(conv *domain.Conversation, role, content string) {
	now := e.now()
	conv.History = append(conv.History, domain.Message{Role: role, Content: content, At: now})
	conv.UpdatedAt = now
}
