package gemini

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"sentibot/pkg/types"
)

func TestNewChatModelRequiresKey(t *testing.T) {
	if _, err := NewChatModel(context.Background(), Config{}); err == nil {
		t.Fatal("NewChatModel with empty key succeeded")
	}
}

func TestNewChatModelTemperature(t *testing.T) {
	zero := 0.0
	custom := 0.9
	tests := []struct {
		name string
		temp *float64
		want float64
	}{
		{name: "default when unset", temp: nil, want: defaultTemperature},
		{name: "explicit zero kept", temp: &zero, want: 0},
		{name: "explicit value kept", temp: &custom, want: 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewChatModel(context.Background(), Config{APIKey: "test-key", Temperature: tt.temp})
			if err != nil {
				t.Fatalf("NewChatModel: %v", err)
			}
			if got := m.(*ChatModel).defaultTemperature; got != tt.want {
				t.Fatalf("defaultTemperature = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToGeminiRole(t *testing.T) {
	tests := []struct {
		role types.Role
		want string
	}{
		{types.RoleUser, "user"},
		{types.RoleModel, "model"},
		{types.RoleTool, "user"},
	}
	for _, tt := range tests {
		if got := toGeminiRole(tt.role); got != tt.want {
			t.Errorf("toGeminiRole(%s) = %s, want %s", tt.role, got, tt.want)
		}
	}
}

func TestToGeminiParts(t *testing.T) {
	turn := types.Turn{Role: types.RoleTool, Parts: []types.Part{
		types.TextPart("checking"),
		types.CallPart(types.FunctionCall{Name: "search_tweets", Args: map[string]any{"crypto_name": "btc"}}),
		types.ResultPart(types.FunctionResult{Name: "search_tweets", Payload: map[string]any{"result": "ok"}}),
	}}

	parts := toGeminiParts(turn)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	if text, ok := parts[0].(genai.Text); !ok || string(text) != "checking" {
		t.Fatalf("parts[0] = %#v", parts[0])
	}
	call, ok := parts[1].(genai.FunctionCall)
	if !ok || call.Name != "search_tweets" || call.Args["crypto_name"] != "btc" {
		t.Fatalf("parts[1] = %#v", parts[1])
	}
	resp, ok := parts[2].(genai.FunctionResponse)
	if !ok || resp.Name != "search_tweets" || resp.Response["result"] != "ok" {
		t.Fatalf("parts[2] = %#v", parts[2])
	}
}

func TestToTurn(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []genai.Part{
					genai.Text("Let me look that up."),
					genai.FunctionCall{Name: "search_tweets", Args: map[string]any{"crypto_name": "btc"}},
				},
			},
		}},
	}

	turn := toTurn(resp)
	if turn.Role != types.RoleModel {
		t.Fatalf("Role = %s", turn.Role)
	}
	texts := turn.Texts()
	if len(texts) != 1 || texts[0] != "Let me look that up." {
		t.Fatalf("Texts = %v", texts)
	}
	calls := turn.Calls()
	if len(calls) != 1 || calls[0].Name != "search_tweets" {
		t.Fatalf("Calls = %+v", calls)
	}
	if !strings.HasPrefix(calls[0].ID, "call-") {
		t.Fatalf("call ID = %q, want call- prefix", calls[0].ID)
	}
	if calls[0].Args["crypto_name"] != "btc" {
		t.Fatalf("call args = %v", calls[0].Args)
	}
}

// --- Live Tests below ---

// TestLive_Generate runs against the real Gemini API.
func TestLive_Generate(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping live test: GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	client, err := NewChatModel(ctx, Config{APIKey: apiKey, Model: os.Getenv("GEMINI_MODEL")})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	turn, err := client.Generate(ctx, []types.Turn{
		types.UserTurn("Hello, reply with 'LIVE TEST OK'"),
	})
	if err != nil {
		t.Fatalf("Live Generate() error = %v", err)
	}

	t.Logf("Response: %v", turn.Texts())
	if len(turn.Texts()) == 0 {
		t.Error("Received empty content from Gemini")
	}
}

func TestToGeminiTools(t *testing.T) {
	decls := []types.ToolDeclaration{
		{Name: "search_tweets", Description: "Search", Parameters: map[string]any{"type": "object"}},
		{Name: "analyze_tweets", Description: "Analyze", Parameters: map[string]any{"type": "object"}},
	}

	tools := toGeminiTools(decls)
	if len(tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(tools))
	}
	fns := tools[0].FunctionDeclarations
	if len(fns) != 2 {
		t.Fatalf("got %d declarations, want 2", len(fns))
	}
	if fns[0].Name != "search_tweets" || fns[1].Name != "analyze_tweets" {
		t.Fatalf("declaration names = %s, %s", fns[0].Name, fns[1].Name)
	}
	if fns[0].Parameters == nil || fns[0].Parameters.Type != genai.TypeObject {
		t.Fatalf("parameters = %+v", fns[0].Parameters)
	}
}
