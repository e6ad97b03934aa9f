// Package extract recovers basket items, the selected store, and store
// comparisons from an agent response whose shape is not fixed.
//
// Comparisons are found by an ordered chain of variants. Each variant
// declares when it applies and how it extracts; the first one to return a
// non-empty set wins. Basket, store and checkout passes always run on the
// merged payload, whichever variant produced the comparisons.
package extract

import (
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// StoreSelection is a store the agent reported as chosen.
type StoreSelection struct {
	Store domain.Store `json:"store"`
	Total float64      `json:"total"`
}

// CheckoutInfo is a checkout status the agent reported.
type CheckoutInfo struct {
	Status      string `json:"status"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Result is everything recovered from one response. A zero Result means
// the turn carried no structured data.
type Result struct {
	BasketItems []string             `json:"basketItems,omitempty"`
	Store       *StoreSelection      `json:"store,omitempty"`
	Checkout    *CheckoutInfo        `json:"checkout,omitempty"`
	Comparisons domain.ComparisonSet `json:"comparisons,omitempty"`
	Source      string               `json:"source,omitempty"` // variant that produced Comparisons
}

// Empty reports whether nothing was recovered.
func (r *Result) Empty() bool {
	return len(r.BasketItems) == 0 && r.Store == nil && r.Checkout == nil && len(r.Comparisons) == 0
}

// Option configures the Extractor.
type Option func(*Extractor)

// WithoutTextFallback disables parsing comparisons out of the prose.
func WithoutTextFallback() Option {
	return func(e *Extractor) { e.textFallback = false }
}

// Extractor runs the variant chain. It holds no per-call state and is safe
// for concurrent use.
type Extractor struct {
	log          *logger.Logger
	textFallback bool
	variants     []variant
}

// New creates an extractor.
func New(log *logger.Logger, opts ...Option) *Extractor {
	e := &Extractor{log: log, textFallback: true}
	for _, o := range opts {
		o(e)
	}

	e.variants = []variant{directPath, mergedSearch}
	if e.textFallback {
		e.variants = append(e.variants, textFallback)
	}
	return e
}

// Extract inspects one agent response. userMessages are the user's
// messages so far, oldest first; the text fallback infers item names from
// them.
func (e *Extractor) Extract(resp *domain.AgentResponse, userMessages []string) *Result {
	res := &Result{}
	if resp == nil {
		return res
	}

	in := &input{
		data:         resp.Data,
		merged:       merge(resp.Data),
		message:      resp.Message,
		userMessages: userMessages,
	}

	res.BasketItems = basketItems(resp.Data, in.merged)
	res.Store = storeSelection(in.merged)
	res.Checkout = checkoutInfo(in.merged)

	for _, v := range e.variants {
		if !v.match(in) {
			continue
		}
		set := v.extract(in)
		if len(set) == 0 {
			e.log.Debug("extract: variant %s found nothing", v.name)
			continue
		}
		res.Comparisons = set
		res.Source = v.name
		e.log.Debug("extract: %d comparison(s) from %s", len(set), v.name)
		break
	}

	return res
}
