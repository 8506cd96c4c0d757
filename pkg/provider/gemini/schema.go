package gemini

import "github.com/google/generative-ai-go/genai"

// schemaFromJSON converts an opaque JSON-schema document into the typed
// schema the Gemini SDK requires. Keys the SDK has no slot for are dropped.
func schemaFromJSON(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{}
	if t, ok := schema["type"].(string); ok {
		out.Type = schemaType(t)
	}
	if d, ok := schema["description"].(string); ok {
		out.Description = d
	}
	if f, ok := schema["format"].(string); ok {
		out.Format = f
	}
	if n, ok := schema["nullable"].(bool); ok {
		out.Nullable = n
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if child, ok := raw.(map[string]any); ok {
				out.Properties[name] = schemaFromJSON(child)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = schemaFromJSON(items)
	}
	out.Required = stringSlice(schema["required"])
	out.Enum = stringSlice(schema["enum"])
	return out
}

func stringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func schemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
