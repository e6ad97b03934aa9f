// Package catalog provides the fixed price table the pricer reads from.
// The table is embedded in the binary, parsed once, and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

//go:embed catalog.yaml
var rawCatalog []byte

// Prices holds one item's unit price at every store.
type Prices struct {
	Asda      float64 `yaml:"asda" json:"asda"`
	Tesco     float64 `yaml:"tesco" json:"tesco"`
	Sainsbury float64 `yaml:"sainsbury" json:"sainsbury"`
	Waitrose  float64 `yaml:"waitrose" json:"waitrose"`
}

// For returns the price at the given store.
func (p Prices) For(store domain.Store) (float64, bool) {
	switch store {
	case domain.Asda:
		return p.Asda, true
	case domain.Tesco:
		return p.Tesco, true
	case domain.Sainsburys:
		return p.Sainsbury, true
	case domain.Waitrose:
		return p.Waitrose, true
	}
	return 0, false
}

// ordered reports whether asda <= tesco <= sainsbury <= waitrose.
func (p Prices) ordered() bool {
	return p.Asda <= p.Tesco && p.Tesco <= p.Sainsbury && p.Sainsbury <= p.Waitrose
}

// deliveryHours is the fixed delivery estimate per store.
var deliveryHours = map[domain.Store]int{
	domain.Sainsburys: 3,
	domain.Tesco:      2,
	domain.Asda:       4,
	domain.Waitrose:   2,
}

// DeliveryHours returns the delivery estimate for a store.
func DeliveryHours(store domain.Store) (int, bool) {
	h, ok := deliveryHours[store]
	return h, ok
}

// Catalog is a read-only item → prices table keyed by lowercase name.
type Catalog struct {
	prices map[string]Prices
	names  []string
}

type file struct {
	Items map[string]Prices `yaml:"items"`
}

// Parse decodes a YAML price table. Names are lowercased; duplicate names,
// negative prices and entries breaking the store price ordering are rejected.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := &Catalog{prices: make(map[string]Prices, len(f.Items))}
	for name, p := range f.Items {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("catalog: empty item name")
		}
		if _, dup := c.prices[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", key)
		}
		if p.Asda < 0 {
			return nil, fmt.Errorf("catalog: %q has a negative price", key)
		}
		if !p.ordered() {
			return nil, fmt.Errorf("catalog: %q breaks price ordering asda<=tesco<=sainsbury<=waitrose", key)
		}
		c.prices[key] = p
		c.names = append(c.names, key)
	}
	sort.Strings(c.names)
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. It is parsed on first use; a broken
// embedded table is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(rawCatalog)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// Lookup returns an item's prices. Matching is exact and case-insensitive.
func (c *Catalog) Lookup(item string) (Prices, bool) {
	p, ok := c.prices[strings.ToLower(item)]
	return p, ok
}

// Price returns the unit price of an item at a store.
func (c *Catalog) Price(store domain.Store, item string) (float64, bool) {
	p, ok := c.Lookup(item)
	if !ok {
		return 0, false
	}
	return p.For(store)
}

// Items returns every catalog item name, sorted.
func (c *Catalog) Items() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.names) }
