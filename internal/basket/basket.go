// Package basket applies add and remove mutations to an item list. Names
// are compared case-insensitively; the first spelling seen is kept.
package basket

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// Basket actions.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Mutation is the outcome of one basket change.
type Mutation struct {
	Items     []string `json:"items"`
	ItemCount int      `json:"itemCount"`
	Action    string   `json:"action"`
	Changed   int      `json:"itemsChanged"`
	Message   string   `json:"message"`
}

// Add appends targets not already in current, in input order. It returns
// the new list and how many items were genuinely new.
func Add(current, targets []string) ([]string, int) {
	out := make([]string, len(current), len(current)+len(targets))
	copy(out, current)

	seen := make(map[string]bool, len(out)+len(targets))
	for _, it := range out {
		seen[strings.ToLower(it)] = true
	}

	added := 0
	for _, it := range targets {
		key := strings.ToLower(it)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
		added++
	}
	return out, added
}

// Remove drops every current item matching a target. Targets that are not
// in the basket are ignored.
func Remove(current, targets []string) ([]string, int) {
	drop := make(map[string]bool, len(targets))
	for _, it := range targets {
		drop[strings.ToLower(it)] = true
	}

	out := make([]string, 0, len(current))
	for _, it := range current {
		if !drop[strings.ToLower(it)] {
			out = append(out, it)
		}
	}
	return out, len(current) - len(out)
}

// Apply dispatches on action ("add" or "remove").
func Apply(current []string, action string, targets []string) (*Mutation, error) {
	m := &Mutation{Action: strings.ToLower(strings.TrimSpace(action))}

	switch m.Action {
	case ActionAdd:
		m.Items, m.Changed = Add(current, targets)
		m.Message = fmt.Sprintf("Added %d item(s) to basket", m.Changed)
	case ActionRemove:
		m.Items, m.Changed = Remove(current, targets)
		m.Message = fmt.Sprintf("Removed %d item(s) from basket", m.Changed)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}

	m.ItemCount = len(m.Items)
	return m, nil
}
