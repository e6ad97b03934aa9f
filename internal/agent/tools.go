package agent

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/basket"
	"github.com/hammamikhairi/ottoshop/internal/catalog"
	"github.com/hammamikhairi/ottoshop/internal/checkout"
	"github.com/hammamikhairi/ottoshop/internal/conversation"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/pricing"
)

// Tool names, as the hosted skill registers them.
const (
	ToolParseItems = "parse_grocery_items"
	ToolPrices     = "get_store_prices"
	ToolCompare    = "compare_stores"
	ToolBasket     = "manage_basket"
	ToolCheckout   = "process_checkout"
)

// ParseResult is the parse_grocery_items output.
type ParseResult struct {
	Items     []string `json:"items"`
	ItemCount int      `json:"itemCount"`
	Message   string   `json:"message"`
}

// PriceResult is the get_store_prices output.
type PriceResult struct {
	Store                 domain.Store         `json:"store"`
	Items                 []domain.GroceryItem `json:"items"`
	Total                 float64              `json:"total"`
	DeliveryTimeHours     int                  `json:"deliveryTimeHours"`
	DeliveryTimeFormatted string               `json:"deliveryTimeFormatted"`
	NotFoundItems         []string             `json:"notFoundItems,omitempty"`
	Message               string               `json:"message"`
}

// StoreSummary names one end of a comparison.
type StoreSummary struct {
	Store             domain.Store `json:"store"`
	Total             float64      `json:"total"`
	DeliveryTimeHours int          `json:"deliveryTimeHours"`
}

// CompareResult is the compare_stores output.
type CompareResult struct {
	Comparisons []domain.RankedQuote `json:"comparisons"`
	Cheapest    StoreSummary         `json:"cheapest"`
	Fastest     StoreSummary         `json:"fastest"`
	Message     string               `json:"message"`
}

// Tools implements the grocery skill's tools over the core packages.
type Tools struct {
	catalog   *catalog.Catalog
	pricer    *pricing.Pricer
	processor *checkout.Processor
}

// NewTools wires the tools. A nil catalog means the embedded default and
// a nil processor gets the wall clock.
func NewTools(c *catalog.Catalog, p *checkout.Processor) *Tools {
	if c == nil {
		c = catalog.Default()
	}
	if p == nil {
		p = checkout.NewProcessor()
	}
	return &Tools{catalog: c, pricer: pricing.New(c), processor: p}
}

// ParseItems runs parse_grocery_items.
func (t *Tools) ParseItems(input string) ParseResult {
	items := conversation.ParseItems(input)
	return ParseResult{Items: items, ItemCount: len(items), Message: conversation.ItemsMessage(items)}
}

// StorePrices runs get_store_prices.
func (t *Tools) StorePrices(store string, items []string) (*PriceResult, error) {
	q, err := t.pricer.PriceStore(store, items)
	if err != nil {
		return nil, err
	}
	return &PriceResult{
		Store:                 q.Store,
		Items:                 q.Items,
		Total:                 q.Total,
		DeliveryTimeHours:     q.DeliveryHours,
		DeliveryTimeFormatted: q.DeliveryFormatted(),
		NotFoundItems:         q.NotFound,
		Message:               pricing.Message(*q),
	}, nil
}

// Compare runs compare_stores.
func (t *Tools) Compare(items []string) *CompareResult {
	set := t.pricer.Compare(items)
	cheap, _ := set.Cheapest()
	fast, _ := set.Fastest()
	return &CompareResult{
		Comparisons: set.Ranked(),
		Cheapest:    StoreSummary{Store: cheap.Store, Total: cheap.Total, DeliveryTimeHours: cheap.DeliveryHours},
		Fastest:     StoreSummary{Store: fast.Store, Total: fast.Total, DeliveryTimeHours: fast.DeliveryHours},
		Message:     pricing.CompareMessage(set),
	}
}

// Basket runs manage_basket.
func (t *Tools) Basket(current []string, action string, items []string) (*basket.Mutation, error) {
	return basket.Apply(current, action, items)
}

// Checkout runs process_checkout.
func (t *Tools) Checkout(req checkout.Request) *checkout.Result {
	return t.processor.Process(req)
}

// ── Free-text item reading ───────────────────────────────────────

var (
	phraseSep  = regexp.MustCompile(`(?i)\s*(?:[,.;\n]|\band\b|&)\s*`)
	fillerWord = map[string]bool{
		"i": true, "i'd": true, "need": true, "want": true, "get": true, "me": true,
		"some": true, "please": true, "can": true, "could": true, "would": true,
		"like": true, "buy": true, "order": true, "to": true, "a": true, "an": true,
		"the": true, "of": true, "also": true, "and": true, "add": true, "remove": true,
		"thanks": true, "you": true, "just": true, "with": true, "for": true,
	}
)

// ItemsFromText reads grocery names out of a chat message. Phrases that
// are catalog items are kept whole ("green beans"); anything else is split
// into words with filler words dropped.
func (t *Tools) ItemsFromText(text string) []string {
	var out []string
	for _, phrase := range phraseSep.Split(text, -1) {
		words := strings.Fields(phrase)
		for len(words) > 0 && fillerWord[strings.ToLower(words[0])] {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		if len(words) > 1 {
			joined := strings.Join(words, " ")
			if _, ok := t.catalog.Lookup(joined); ok {
				out = append(out, joined)
				continue
			}
		}
		for _, w := range conversation.ParseItems(strings.Join(words, " ")) {
			if !fillerWord[strings.ToLower(w)] {
				out = append(out, w)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	items, _ := basket.Add(nil, out)
	return items
}
