package extract

import (
	"math"
	"sort"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

const (
	maxSearchDepth       = 8
	defaultDeliveryHours = 3
	maxDeliveryHours     = 24 * 14
)

// deepSearch looks for quotes up to maxSearchDepth levels down. An object
// with a non-empty comparisons array is authoritative and ends the search;
// otherwise every object with a store next to items or a total adds one
// quote. Object keys are visited in sorted order so results are stable.
func deepSearch(root map[string]any) domain.ComparisonSet {
	s := &searcher{seen: map[domain.Store]bool{}}
	s.walk(root, 0)
	return s.set
}

type searcher struct {
	set  domain.ComparisonSet
	seen map[domain.Store]bool
	done bool
}

func (s *searcher) add(q domain.StoreQuote) {
	if s.seen[q.Store] {
		return
	}
	s.seen[q.Store] = true
	s.set = append(s.set, q)
}

func (s *searcher) walk(v any, depth int) {
	if s.done || depth > maxSearchDepth {
		return
	}

	switch node := v.(type) {
	case []any:
		for _, child := range node {
			s.walk(child, depth+1)
		}

	case map[string]any:
		if comps, ok := asSlice(node["comparisons"]); ok && len(comps) > 0 {
			for _, c := range comps {
				if q, ok := decodeQuote(c); ok {
					s.add(q)
				}
			}
			s.done = true
			return
		}

		if _, hasStore := node["store"]; hasStore {
			_, hasItems := node["items"]
			_, hasTotal := node["total"]
			if hasItems || hasTotal {
				if q, ok := decodeQuote(node); ok {
					s.add(q)
				}
			}
		}

		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch node[k].(type) {
			case map[string]any, []any:
				s.walk(node[k], depth+1)
			}
		}
	}
}

// decodeQuotes turns a comparisons array into a set, dropping entries with
// no recognisable store and later duplicates.
func decodeQuotes(v any) domain.ComparisonSet {
	arr, ok := asSlice(v)
	if !ok {
		return nil
	}

	var set domain.ComparisonSet
	seen := map[domain.Store]bool{}
	for _, entry := range arr {
		q, ok := decodeQuote(entry)
		if !ok || seen[q.Store] {
			continue
		}
		seen[q.Store] = true
		set = append(set, q)
	}
	return set
}

// decodeQuote reads one loosely-typed quote. A missing total is 0 and a
// missing delivery time is 3 hours.
func decodeQuote(v any) (domain.StoreQuote, bool) {
	m, ok := asMap(v)
	if !ok {
		return domain.StoreQuote{}, false
	}
	name, ok := str(m["store"])
	if !ok {
		return domain.StoreQuote{}, false
	}
	store, ok := domain.ParseStore(name)
	if !ok {
		return domain.StoreQuote{}, false
	}

	q := domain.StoreQuote{Store: store, DeliveryHours: defaultDeliveryHours}
	if t, ok := number(m["total"]); ok {
		q.Total = domain.RoundPennies(t)
	}
	for _, key := range []string{"deliveryTimeHours", "deliveryTime"} {
		if h, ok := deliveryHours(m[key]); ok {
			q.DeliveryHours = h
			break
		}
	}

	items, _ := asSlice(m["items"])
	for _, it := range items {
		if gi, ok := decodeItem(it); ok {
			q.Items = append(q.Items, gi)
		}
	}

	missing, _ := asSlice(m["notFoundItems"])
	for _, it := range missing {
		if s, ok := str(it); ok {
			q.NotFound = append(q.NotFound, s)
		}
	}
	return q, true
}

// deliveryHours reads a whole number of hours in [1, maxDeliveryHours].
// Fractions round up; anything below one hour or not finite is unparsed.
func deliveryHours(v any) (int, bool) {
	h, ok := number(v)
	if !ok || math.IsNaN(h) || math.IsInf(h, 0) || h < 1 {
		return 0, false
	}
	return int(math.Min(math.Ceil(h), maxDeliveryHours)), true
}

// decodeItem accepts {item|name, price, found} or a bare name. A bare name
// carries no price and is not marked found.
func decodeItem(v any) (domain.GroceryItem, bool) {
	if s, ok := str(v); ok {
		return domain.GroceryItem{Name: s}, true
	}

	m, ok := asMap(v)
	if !ok {
		return domain.GroceryItem{}, false
	}
	name, ok := str(m["item"])
	if !ok {
		if name, ok = str(m["name"]); !ok {
			return domain.GroceryItem{}, false
		}
	}

	gi := domain.GroceryItem{Name: name, Found: true}
	if p, ok := number(m["price"]); ok {
		gi.Price = domain.RoundPennies(p)
	}
	if f, ok := m["found"].(bool); ok {
		gi.Found = f
	}
	return gi, true
}
