package pricing

import (
	"fmt"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// Compare prices the items at every store, in store order. It always
// returns exactly one quote per store.
func (p *Pricer) Compare(items []string) domain.ComparisonSet {
	set := make(domain.ComparisonSet, 0, len(domain.Stores))
	for _, s := range domain.Stores {
		set = append(set, p.Quote(s, items))
	}
	return set
}

// CompareMessage summarises a comparison, e.g.
// "Cheapest: Asda (£0.95) · Fastest: Tesco (2 hours)".
func CompareMessage(set domain.ComparisonSet) string {
	cheap, ok := set.Cheapest()
	if !ok {
		return "No stores to compare"
	}
	fast, _ := set.Fastest()
	return fmt.Sprintf("Cheapest: %s (£%.2f) · Fastest: %s (%s)",
		cheap.Store, cheap.Total, fast.Store, fast.DeliveryFormatted())
}
