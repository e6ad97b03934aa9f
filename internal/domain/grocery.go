// Package domain defines the core types and interfaces for the grocery
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultItemPrice is charged for items missing from the catalog.
const DefaultItemPrice = 2.50

// RoundPennies rounds an amount to two decimal places.
func RoundPennies(v float64) float64 {
	return math.Round(v*100) / 100
}

// GroceryItem is one priced line of a store quote. Found is false when the
// name was not in the catalog and the default price was used.
type GroceryItem struct {
	Name  string  `json:"item"`
	Price float64 `json:"price"`
	Found bool    `json:"found"`
}

// StoreQuote is one store's itemized pricing and delivery estimate.
type StoreQuote struct {
	Store         Store         `json:"store"`
	Items         []GroceryItem `json:"items"`
	Total         float64       `json:"total"`
	DeliveryHours int           `json:"deliveryTimeHours"`
	NotFound      []string      `json:"notFoundItems,omitempty"`
}

// DeliveryFormatted renders the delivery estimate, e.g. "2 hours".
func (q StoreQuote) DeliveryFormatted() string {
	return FormatHours(q.DeliveryHours)
}

// ItemNames returns the item names of the quote in order.
func (q StoreQuote) ItemNames() []string {
	names := make([]string, len(q.Items))
	for i, it := range q.Items {
		names[i] = it.Name
	}
	return names
}

// MarshalJSON adds the formatted delivery time the display layer expects.
func (q StoreQuote) MarshalJSON() ([]byte, error) {
	type plain StoreQuote
	return json.Marshal(struct {
		plain
		DeliveryTimeFormatted string `json:"deliveryTimeFormatted"`
	}{plain(q), q.DeliveryFormatted()})
}

// FormatHours renders a whole number of hours with the right plural.
func FormatHours(h int) string {
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", h)
}

// ComparisonSet holds at most one quote per store, in the order the
// quotes were produced.
type ComparisonSet []StoreQuote

// Cheapest returns the quote with the lowest total. Ties go to the
// earliest quote.
func (c ComparisonSet) Cheapest() (StoreQuote, bool) {
	if len(c) == 0 {
		return StoreQuote{}, false
	}
	best := 0
	for i := 1; i < len(c); i++ {
		if c[i].Total < c[best].Total {
			best = i
		}
	}
	return c[best], true
}

// Fastest returns the quote with the shortest delivery. Ties go to the
// earliest quote.
func (c ComparisonSet) Fastest() (StoreQuote, bool) {
	if len(c) == 0 {
		return StoreQuote{}, false
	}
	best := 0
	for i := 1; i < len(c); i++ {
		if c[i].DeliveryHours < c[best].DeliveryHours {
			best = i
		}
	}
	return c[best], true
}

// Find returns the quote for the given store.
func (c ComparisonSet) Find(store Store) (StoreQuote, bool) {
	for _, q := range c {
		if q.Store == store {
			return q, true
		}
	}
	return StoreQuote{}, false
}

// RankedQuote is a quote with its cheapest/fastest flags resolved.
type RankedQuote struct {
	StoreQuote
	Cheapest bool `json:"cheapest"`
	Fastest  bool `json:"fastest"`
}

// MarshalJSON keeps the embedded quote's fields flat next to the flags.
func (r RankedQuote) MarshalJSON() ([]byte, error) {
	raw, err := r.StoreQuote.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["cheapest"] = r.Cheapest
	fields["fastest"] = r.Fastest
	return json.Marshal(fields)
}

// Ranked resolves the cheapest and fastest flags for display.
func (c ComparisonSet) Ranked() []RankedQuote {
	out := make([]RankedQuote, len(c))
	cheap, _ := c.Cheapest()
	fast, _ := c.Fastest()
	for i, q := range c {
		out[i] = RankedQuote{
			StoreQuote: q,
			Cheapest:   q.Store == cheap.Store,
			Fastest:    q.Store == fast.Store,
		}
	}
	return out
}

// Order is a confirmed checkout. It is never mutated after creation.
type Order struct {
	OrderNumber string   `json:"orderNumber"`
	Store       Store    `json:"store"`
	Items       []string `json:"items"`
	Total       float64  `json:"total"`
	Address     string   `json:"address"`
}
