package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"sentibot/pkg/provider"
	"sentibot/pkg/types"
)

// Config contains Gemini credential and runtime options. A nil Temperature
// means the provider default; an explicit zero is a valid setting.
type Config struct {
	APIKey      string
	Model       string
	Temperature *float64
}

const (
	defaultModel       = "gemini-2.0-flash-001"
	defaultTemperature = 0.4
)

// ChatModel implements provider.ChatModel using Google Gemini.
type ChatModel struct {
	client             *genai.Client
	defaultModel       string
	defaultTemperature float64
}

// NewChatModel builds a Gemini chat provider.
func NewChatModel(ctx context.Context, cfg Config) (provider.ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	temp := float64(defaultTemperature)
	if cfg.Temperature != nil {
		temp = *cfg.Temperature
	}

	return &ChatModel{
		client:             client,
		defaultModel:       modelName,
		defaultTemperature: temp,
	}, nil
}

func (m *ChatModel) Name() string {
	return "gemini"
}

// Generate implements provider.ChatModel. The conversation minus its last
// turn becomes chat history; the last turn's parts are sent as the new
// message, which is how the Gemini chat session API expects input.
func (m *ChatModel) Generate(ctx context.Context, conversation []types.Turn, opts ...provider.Option) (*types.Turn, error) {
	if len(conversation) == 0 {
		return nil, errors.New("gemini: empty conversation")
	}

	options := &provider.ChatOptions{
		Model:       m.defaultModel,
		Temperature: m.defaultTemperature,
	}
	for _, o := range opts {
		o(options)
	}

	gm := m.client.GenerativeModel(options.Model)
	gm.SetTemperature(float32(options.Temperature))
	if options.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(options.MaxTokens))
	}
	if len(options.Tools) > 0 {
		gm.Tools = toGeminiTools(options.Tools)
	}

	cs := gm.StartChat()
	for _, turn := range conversation[:len(conversation)-1] {
		parts := toGeminiParts(turn)
		if len(parts) == 0 {
			continue
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  toGeminiRole(turn.Role),
			Parts: parts,
		})
	}

	last := toGeminiParts(conversation[len(conversation)-1])
	if len(last) == 0 {
		return nil, errors.New("gemini: last turn has no sendable parts")
	}

	resp, err := cs.SendMessage(ctx, last...)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return toTurn(resp), nil
}

func toGeminiRole(role types.Role) string {
	// Gemini history only knows "user" and "model"; tool results travel on
	// the user side of the exchange.
	if role == types.RoleModel {
		return "model"
	}
	return "user"
}

func toGeminiParts(turn types.Turn) []genai.Part {
	var parts []genai.Part
	for _, p := range turn.Parts {
		switch {
		case p.Text != "":
			parts = append(parts, genai.Text(p.Text))
		case p.Call != nil:
			parts = append(parts, genai.FunctionCall{
				Name: p.Call.Name,
				Args: p.Call.Args,
			})
		case p.Result != nil:
			parts = append(parts, genai.FunctionResponse{
				Name:     p.Result.Name,
				Response: p.Result.Payload,
			})
		}
	}
	return parts
}

func toTurn(resp *genai.GenerateContentResponse) *types.Turn {
	turn := &types.Turn{Role: types.RoleModel}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch p := part.(type) {
			case genai.Text:
				if p != "" {
					turn.Parts = append(turn.Parts, types.TextPart(string(p)))
				}
			case genai.FunctionCall:
				turn.Parts = append(turn.Parts, types.CallPart(types.FunctionCall{
					ID:   "call-" + uuid.NewString(),
					Name: p.Name,
					Args: p.Args,
				}))
			}
		}
	}
	return turn
}

func toGeminiTools(decls []types.ToolDeclaration) []*genai.Tool {
	fns := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fns = append(fns, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  schemaFromJSON(d.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: fns}}
}

// Ensure interface compliance
var _ provider.ChatModel = (*ChatModel)(nil)
