package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// storeLine matches lines such as
//
//	* **Asda:** £2.95 (delivery in 4 hours)
//	Tesco: £3.10, 2 hour delivery
var storeLine = regexp.MustCompile(`(?im)(?:^|[•*])[ \t]*\**[ \t]*(asda|tesco|sainsbury['’]?s?|waitrose)[:*]+[ \t]*\**[ \t]*£[ \t]*([\d.]+)[^£]*?(?:delivery\D*?(\d+)\D*?hour|(\d+)\D*?hour\D*?delivery|\([^)]*?(\d+)[ \t]*hour)`)

var (
	listSep   = regexp.MustCompile(`(?i)\s*(?:[,.;&\n]|\band\b|\bor\b)\s*`)
	leadWords = regexp.MustCompile(`(?i)^(?:i'd|i'm|items?|i|need|want|get|buy|order|add|remove|please|thanks|to|just|updated?|some|also|like|would|could|can|you|me)\b[ \t]*`)
	tailWords = regexp.MustCompile(`(?i)[ \t]+(?:please|thanks|thank you)$`)
	pronoun   = regexp.MustCompile(`(?i)^(?:you|we|they|this|that|the|a|an)$`)
	verbLed   = regexp.MustCompile(`(?i)\b(?:update|updated|order|need|want|get|buy|add)\b[ \t]*(?:to|just|:)?[ \t]*(.+)`)
	grocery   = regexp.MustCompile(`(?i)\b(?:bread|milk|eggs?|chicken|beef|pork|fish|rice|pasta|cheese|butter|yogurt|yoghurt|fruit|vegetables?|apples?|bananas?|oranges?|tomato(?:es)?|potato(?:es)?|onions?|carrots?|salmon|cod|tuna)\b`)
)

// parseText builds quotes from store lines in the reply text. The text
// carries totals only, so item names are inferred from the user's messages
// and each total is split evenly across them. Those per-item prices are an
// approximation.
func parseText(message string, userMessages []string) domain.ComparisonSet {
	var set domain.ComparisonSet
	seen := map[domain.Store]bool{}

	for _, m := range storeLine.FindAllStringSubmatch(message, -1) {
		store, ok := domain.ParseStore(m[1])
		if !ok || seen[store] {
			continue
		}
		total, err := strconv.ParseFloat(strings.TrimRight(m[2], "."), 64)
		if err != nil {
			continue
		}

		hours := defaultDeliveryHours
		for _, g := range m[3:] {
			if h, err := strconv.Atoi(g); err == nil && h > 0 {
				hours = min(h, maxDeliveryHours)
				break
			}
		}

		seen[store] = true
		set = append(set, domain.StoreQuote{
			Store:         store,
			Total:         domain.RoundPennies(total),
			DeliveryHours: hours,
		})
	}
	if len(set) == 0 {
		return nil
	}

	names := inferItems(userMessages)
	if len(names) == 0 {
		names = placeholderItems(set[0].Total)
	}
	for i := range set {
		per := domain.RoundPennies(set[i].Total / float64(len(names)))
		set[i].Items = make([]domain.GroceryItem, len(names))
		for j, n := range names {
			set[i].Items[j] = domain.GroceryItem{Name: n, Price: per, Found: true}
		}
	}
	return set
}

// placeholderItems returns "Item 1".."Item N", N between 2 and 4 based on
// roughly £2 per item.
func placeholderItems(total float64) []string {
	n := int(math.Round(total / 2))
	n = max(2, min(4, n))
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Item %d", i+1)
	}
	return out
}

// inferItems scans user messages newest first and returns the item names
// of the first one any heuristic can read.
func inferItems(userMessages []string) []string {
	for i := len(userMessages) - 1; i >= 0; i-- {
		msg := strings.ToLower(strings.TrimSpace(userMessages[i]))
		if msg == "" {
			continue
		}
		for _, h := range []func(string) []string{keywordItems, verbLedItems, splitItems} {
			if items := h(msg); len(items) > 0 {
				return titleCase(items)
			}
		}
	}
	return nil
}

// keywordItems keeps the list segments that name a known grocery.
func keywordItems(msg string) []string {
	var out []string
	for _, seg := range segments(msg) {
		if grocery.MatchString(seg) {
			out = append(out, seg)
		}
	}
	return out
}

// verbLedItems reads the list after "need", "buy", "add" and similar.
func verbLedItems(msg string) []string {
	m := verbLed.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	var out []string
	for _, seg := range segments(m[1]) {
		if len(seg) > 2 {
			out = append(out, seg)
		}
	}
	return out
}

// splitItems splits the whole message; it needs at least two plausible
// names to count.
func splitItems(msg string) []string {
	var out []string
	for _, seg := range segments(msg) {
		if len(seg) > 2 && len(seg) < 30 {
			out = append(out, seg)
		}
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

// segments splits a list on separators and strips filler words.
func segments(s string) []string {
	var out []string
	for _, part := range listSep.Split(s, -1) {
		part = strings.TrimSpace(part)
		for {
			trimmed := leadWords.ReplaceAllString(part, "")
			if trimmed == part {
				break
			}
			part = trimmed
		}
		part = strings.TrimSpace(tailWords.ReplaceAllString(part, ""))
		if part == "" || pronoun.MatchString(part) {
			continue
		}
		out = append(out, part)
	}
	return out
}

func titleCase(items []string) []string {
	caser := cases.Title(language.English)
	seen := map[string]bool{}
	out := make([]string, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(it)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, caser.String(it))
	}
	return out
}
