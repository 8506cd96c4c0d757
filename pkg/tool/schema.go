package tool

// ScrubSchema deep-copies a JSON-schema document, dropping every "title"
// key at any nesting depth. Schema generators routinely attach titles to
// objects and to each entry under "properties", and the Gemini function
// declaration endpoint rejects schemas that carry them.
func ScrubSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	cleaned, _ := scrubValue(schema).(map[string]any)
	return cleaned
}

func scrubValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if k == "title" {
				continue
			}
			out[k] = scrubValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = scrubValue(child)
		}
		return out
	default:
		return v
	}
}
