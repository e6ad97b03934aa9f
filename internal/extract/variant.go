package extract

import "github.com/hammamikhairi/ottoshop/internal/domain"

// input is the per-call view shared by every variant.
type input struct {
	data         any
	merged       map[string]any
	message      string
	userMessages []string
}

// variant is one way of finding comparisons in a response.
type variant struct {
	name    string
	match   func(in *input) bool
	extract func(in *input) domain.ComparisonSet
}

// directPath reads comparisons from the tool-result paths the agent
// platform normally uses: the first tool of the first step, then every
// tool of every step.
var directPath = variant{
	name: "direct-path",
	match: func(in *input) bool {
		_, ok := asSlice(field(in.data, "steps"))
		return ok
	},
	extract: func(in *input) domain.ComparisonSet {
		first := dig(in.data, "steps", 0, "toolResults", 0, "payload", "result", "comparisons")
		if set := decodeQuotes(first); len(set) > 0 {
			return set
		}

		steps, _ := asSlice(field(in.data, "steps"))
		for _, step := range steps {
			results, _ := asSlice(field(step, "toolResults"))
			for _, tr := range results {
				for _, path := range [][]any{
					{"payload", "result", "comparisons"},
					{"result", "comparisons"},
				} {
					if set := decodeQuotes(dig(tr, path...)); len(set) > 0 {
						return set
					}
				}
			}
		}
		return nil
	},
}

// mergedSearch walks the merged payload looking for either a comparisons
// array or single-store quotes.
var mergedSearch = variant{
	name: "merged-search",
	match: func(in *input) bool {
		return len(in.merged) > 0
	},
	extract: func(in *input) domain.ComparisonSet {
		return deepSearch(in.merged)
	},
}

// textFallback parses "Store: £x ... N hours" lines out of the reply text.
var textFallback = variant{
	name: "text-fallback",
	match: func(in *input) bool {
		return in.message != ""
	},
	extract: func(in *input) domain.ComparisonSet {
		return parseText(in.message, in.userMessages)
	},
}
