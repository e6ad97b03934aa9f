// Package checkout turns a priced basket into an order. A request without
// a delivery address stops at AwaitingAddress; one with an address is
// confirmed with a fresh order number.
package checkout

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// Status values reported to the display layer.
const (
	StatusAddressRequired = "address_required"
	StatusConfirmed       = "confirmed"
)

// Request is a checkout attempt.
type Request struct {
	Store   domain.Store `json:"store"`
	Items   []string     `json:"items"`
	Total   float64      `json:"total"`
	Address string       `json:"address,omitempty"`
}

// Result is what the processor reports back.
type Result struct {
	Status      string        `json:"status"`
	OrderNumber string        `json:"orderNumber,omitempty"`
	Store       domain.Store  `json:"store"`
	Items       []string      `json:"items"`
	ItemCount   int           `json:"itemCount"`
	Total       float64       `json:"total"`
	Address     string        `json:"address,omitempty"`
	Message     string        `json:"message"`
	Order       *domain.Order `json:"-"`
}

// Confirmed reports whether the result carries an order.
func (r *Result) Confirmed() bool { return r.Status == StatusConfirmed }

// Option configures the Processor.
type Option func(*Processor)

// WithClock sets the time source used for order numbers.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// Processor runs the checkout state machine. It is safe for concurrent use.
type Processor struct {
	now func() time.Time

	mu   sync.Mutex
	last int64 // last order sequence handed out
}

// NewProcessor creates a processor using the wall clock.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process evaluates a checkout request. Only a blank address keeps the
// request in AwaitingAddress; the address format is not checked here.
func (p *Processor) Process(req Request) *Result {
	res := &Result{
		Store:     req.Store,
		Items:     req.Items,
		ItemCount: len(req.Items),
		Total:     req.Total,
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		res.Status = StatusAddressRequired
		res.Message = fmt.Sprintf("Your order from %s: %d item(s), total £%.2f. Please provide your delivery address to complete the order.",
			req.Store, res.ItemCount, req.Total)
		return res
	}

	number := p.NextOrderNumber()
	res.Status = StatusConfirmed
	res.OrderNumber = number
	res.Address = address
	res.Order = &domain.Order{
		OrderNumber: number,
		Store:       req.Store,
		Items:       append([]string(nil), req.Items...),
		Total:       req.Total,
		Address:     address,
	}
	res.Message = ConfirmationMessage(number, address, req.Store)
	return res
}

// NextOrderNumber returns "ORD-" followed by the last eight digits of the
// millisecond clock. Numbers never repeat within a process: if the clock
// has not moved past the last number issued, the sequence is bumped.
func (p *Processor) NextOrderNumber() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	seq := p.now().UnixMilli() % 100_000_000
	if seq <= p.last {
		seq = p.last + 1
	}
	p.last = seq
	return fmt.Sprintf("ORD-%08d", seq%100_000_000)
}

// ConfirmationMessage is the text shown once an order is placed.
func ConfirmationMessage(orderNumber, address string, store domain.Store) string {
	return fmt.Sprintf("Thank you for your order! Your order #%s has been confirmed. Your groceries will be delivered to %s from %s.",
		orderNumber, address, store)
}
