// Package pricing prices item lists against the catalog, one store at a
// time or across every store.
package pricing

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/catalog"
	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// UnknownStoreError reports a store identifier outside the fixed set.
type UnknownStoreError struct {
	Store string
}

func (e *UnknownStoreError) Error() string {
	return fmt.Sprintf("invalid store %q, valid options: %s",
		e.Store, strings.Join(domain.StoreIDs(), ", "))
}

// Unwrap lets callers match with errors.Is(err, domain.ErrUnknownStore).
func (e *UnknownStoreError) Unwrap() error { return domain.ErrUnknownStore }

// Pricer prices item lists against a catalog.
type Pricer struct {
	catalog *catalog.Catalog
}

// New creates a pricer over the given catalog. A nil catalog means the
// embedded default.
func New(c *catalog.Catalog) *Pricer {
	if c == nil {
		c = catalog.Default()
	}
	return &Pricer{catalog: c}
}

// PriceStore resolves the store identifier and prices the items there.
func (p *Pricer) PriceStore(store string, items []string) (*domain.StoreQuote, error) {
	s, ok := domain.ParseStore(store)
	if !ok {
		return nil, &UnknownStoreError{Store: store}
	}
	q := p.Quote(s, items)
	return &q, nil
}

// Quote prices items at a known store. Catalog misses are charged the
// default price and listed in NotFound. The total is rounded once, after
// summation.
func (p *Pricer) Quote(store domain.Store, items []string) domain.StoreQuote {
	hours, _ := catalog.DeliveryHours(store)
	q := domain.StoreQuote{
		Store:         store,
		Items:         make([]domain.GroceryItem, 0, len(items)),
		DeliveryHours: hours,
	}

	var sum float64
	for _, name := range items {
		price, found := p.catalog.Price(store, name)
		if !found {
			price = domain.DefaultItemPrice
			q.NotFound = append(q.NotFound, name)
		}
		q.Items = append(q.Items, domain.GroceryItem{Name: name, Price: price, Found: found})
		sum += price
	}
	q.Total = domain.RoundPennies(sum)
	return q
}

// Message summarises a quote the way the price tool reports it.
func Message(q domain.StoreQuote) string {
	msg := fmt.Sprintf("Total at %s: £%.2f", q.Store, q.Total)
	if len(q.NotFound) > 0 {
		msg += fmt.Sprintf(" (estimated price used for: %s)", strings.Join(q.NotFound, ", "))
	}
	return msg
}
