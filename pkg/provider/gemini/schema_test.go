package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestSchemaFromJSON(t *testing.T) {
	schema := map[string]any{
		"type":        "object",
		"description": "search arguments",
		"properties": map[string]any{
			"crypto_name": map[string]any{
				"type":        "string",
				"description": "coin to search for",
			},
			"max_results": map[string]any{
				"type":   "integer",
				"format": "int32",
			},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": []any{"spot", "futures"}},
			},
		},
		"required": []any{"crypto_name"},
	}

	out := schemaFromJSON(schema)
	if out.Type != genai.TypeObject {
		t.Fatalf("Type = %v, want object", out.Type)
	}
	if out.Description != "search arguments" {
		t.Fatalf("Description = %q", out.Description)
	}
	if len(out.Required) != 1 || out.Required[0] != "crypto_name" {
		t.Fatalf("Required = %v", out.Required)
	}

	name := out.Properties["crypto_name"]
	if name == nil || name.Type != genai.TypeString || name.Description != "coin to search for" {
		t.Fatalf("crypto_name = %+v", name)
	}
	max := out.Properties["max_results"]
	if max == nil || max.Type != genai.TypeInteger || max.Format != "int32" {
		t.Fatalf("max_results = %+v", max)
	}
	tags := out.Properties["tags"]
	if tags == nil || tags.Type != genai.TypeArray || tags.Items == nil {
		t.Fatalf("tags = %+v", tags)
	}
	if len(tags.Items.Enum) != 2 || tags.Items.Enum[0] != "spot" {
		t.Fatalf("tags.Items.Enum = %v", tags.Items.Enum)
	}
}

func TestSchemaFromJSONNil(t *testing.T) {
	if got := schemaFromJSON(nil); got != nil {
		t.Fatalf("schemaFromJSON(nil) = %+v, want nil", got)
	}
}

func TestSchemaType(t *testing.T) {
	tests := []struct {
		in   string
		want genai.Type
	}{
		{"string", genai.TypeString},
		{"number", genai.TypeNumber},
		{"integer", genai.TypeInteger},
		{"boolean", genai.TypeBoolean},
		{"array", genai.TypeArray},
		{"object", genai.TypeObject},
		{"null", genai.TypeUnspecified},
		{"", genai.TypeUnspecified},
	}
	for _, tt := range tests {
		if got := schemaType(tt.in); got != tt.want {
			t.Errorf("schemaType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
