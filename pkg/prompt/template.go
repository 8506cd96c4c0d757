// Package prompt provides a minimal double-brace string template for
// building model prompts.
package prompt

import (
	"fmt"
	"strings"
)

// Template substitutes {{key}} placeholders with provided values.
type Template struct {
	Text string
}

// NewTemplate returns a Template over the given text.
func NewTemplate(text string) Template {
	return Template{Text: text}
}

// Render replaces every placeholder present in vars. Placeholders without a
// matching key are left as-is.
func (t Template) Render(vars map[string]any) string {
	out := t.Text
	for key, val := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", fmt.Sprint(val))
	}
	return out
}
