package conversation

import (
	"fmt"
	"regexp"
	"strings"
)

var itemSeparators = regexp.MustCompile(`[,.\s]+`)

// ParseItems splits free text on runs of commas, periods and whitespace.
// Order and casing are kept; empty input gives an empty, non-nil slice.
func ParseItems(input string) []string {
	items := []string{}
	for _, tok := range itemSeparators.Split(input, -1) {
		if tok = strings.TrimSpace(tok); tok != "" {
			items = append(items, tok)
		}
	}
	return items
}

// ItemsMessage summarises parsed items, e.g. "Found 2 item(s): bread, milk".
func ItemsMessage(items []string) string {
	return fmt.Sprintf("Found %d item(s): %s", len(items), strings.Join(items, ", "))
}
