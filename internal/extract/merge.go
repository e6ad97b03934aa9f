package extract

// merge flattens tool results into one object. It starts from a shallow
// copy of the payload, then folds in each tool result; keys already
// present win. A non-empty comparisons array is never replaced by an
// empty one.
func merge(data any) map[string]any {
	acc := map[string]any{}
	if m, ok := asMap(data); ok {
		for k, v := range m {
			acc[k] = v
		}
	}

	steps, _ := asSlice(field(data, "steps"))
	for _, step := range steps {
		results, _ := asSlice(field(step, "toolResults"))
		for _, tr := range results {
			foldToolResult(acc, tr)
		}
	}

	results, _ := asSlice(field(data, "toolResults"))
	for _, tr := range results {
		foldToolResult(acc, tr)
	}

	messages, _ := asSlice(dig(data, "response", "body", "messages"))
	for _, msg := range messages {
		content, _ := asSlice(field(msg, "content"))
		for _, c := range content {
			if t, _ := str(field(c, "type")); t != "tool-result" {
				continue
			}
			fold(acc, dig(c, "output", "value"))
		}
	}

	for _, key := range []string{"toolCalls", "tools"} {
		calls, _ := asSlice(field(data, key))
		for _, call := range calls {
			fold(acc, field(call, "result"))
		}
	}

	return acc
}

// foldToolResult merges payload.result, or result when there is no payload.
func foldToolResult(acc map[string]any, tr any) {
	if r, ok := asMap(dig(tr, "payload", "result")); ok {
		fold(acc, r)
		return
	}
	fold(acc, field(tr, "result"))
}

func fold(acc map[string]any, v any) {
	m, ok := asMap(v)
	if !ok {
		return
	}

	if comps, ok := asSlice(m["comparisons"]); ok {
		existing, _ := asSlice(acc["comparisons"])
		if len(comps) > 0 || len(existing) == 0 {
			acc["comparisons"] = comps
		}
	}

	for k, val := range m {
		if _, exists := acc[k]; !exists {
			acc[k] = val
		}
	}
}
