package domain

import (
	"fmt"
	"strings"
)

// Store identifies one of the fixed set of supported retailers.
type Store int

const (
	StoreUnknown Store = iota
	Sainsburys
	Tesco
	Asda
	Waitrose
)

// Stores lists every supported retailer in catalog order. Comparisons
// iterate in this order, so it also decides tie-breaks.
var Stores = []Store{Sainsburys, Tesco, Asda, Waitrose}

// String returns the display name of the store.
func (s Store) String() string {
	switch s {
	case Sainsburys:
		return "Sainsbury's"
	case Tesco:
		return "Tesco"
	case Asda:
		return "Asda"
	case Waitrose:
		return "Waitrose"
	default:
		return "unknown"
	}
}

// ID returns the lowercase wire identifier used by the agent tools.
func (s Store) ID() string {
	switch s {
	case Sainsburys:
		return "sainsbury"
	case Tesco:
		return "tesco"
	case Asda:
		return "asda"
	case Waitrose:
		return "waitrose"
	default:
		return ""
	}
}

// StoreIDs returns the wire identifiers of every supported store.
func StoreIDs() []string {
	ids := make([]string, len(Stores))
	for i, s := range Stores {
		ids[i] = s.ID()
	}
	return ids
}

// ParseStore resolves a display name or wire ID, case-insensitively.
// "Sainsbury", "Sainsburys" and "Sainsbury's" all map to Sainsburys.
func ParseStore(name string) (Store, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("'", "", "’", "").Replace(key)
	switch key {
	case "sainsbury", "sainsburys":
		return Sainsburys, true
	case "tesco":
		return Tesco, true
	case "asda":
		return Asda, true
	case "waitrose":
		return Waitrose, true
	}
	return StoreUnknown, false
}

// MarshalText encodes the store as its display name. The zero store
// encodes as an empty string.
func (s Store) MarshalText() ([]byte, error) {
	if s == StoreUnknown {
		return []byte{}, nil
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts any name ParseStore understands, or an empty string.
func (s *Store) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = StoreUnknown
		return nil
	}
	st, ok := ParseStore(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStore, string(b))
	}
	*s = st
	return nil
}

