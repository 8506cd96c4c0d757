package types

// Role identifies who authored a turn in the conversation.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// FunctionCall is a model-emitted request to invoke a named tool.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResult carries the payload produced for a prior FunctionCall.
// Payload holds either {"result": ...} or {"error": "..."}.
type FunctionResult struct {
	ID      string         `json:"id,omitempty"`
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload"`
}

// Part is a tagged variant: exactly one of Text, Call, or Result is set.
type Part struct {
	Text   string          `json:"text,omitempty"`
	Call   *FunctionCall   `json:"call,omitempty"`
	Result *FunctionResult `json:"result,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// CallPart builds a function-call part.
func CallPart(call FunctionCall) Part {
	return Part{Call: &call}
}

// ResultPart builds a function-result part.
func ResultPart(result FunctionResult) Part {
	return Part{Result: &result}
}

// Turn is a single entry in a conversation.
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// UserTurn builds a user turn holding one text part.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Parts: []Part{TextPart(text)}}
}

// Calls returns the function-call parts of the turn, in order.
func (t Turn) Calls() []*FunctionCall {
	var calls []*FunctionCall
	for _, p := range t.Parts {
		if p.Call != nil {
			calls = append(calls, p.Call)
		}
	}
	return calls
}

// Texts returns the non-empty text fragments of the turn, in order.
func (t Turn) Texts() []string {
	var texts []string
	for _, p := range t.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return texts
}

// ToolDeclaration describes a callable tool in the shape chat providers
// expect. Parameters is an opaque JSON-schema document; tool schemas are
// arbitrary, so it stays a free-form map rather than a fixed struct.
type ToolDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}
