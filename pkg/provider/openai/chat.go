package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"sentibot/pkg/provider"
	"sentibot/pkg/types"
)

// Config contains OpenAI credential and runtime options. A nil Temperature
// means the provider default; an explicit zero is a valid setting.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	HTTPClient  *http.Client
	Temperature *float64
}

const (
	defaultTemperature = 0.7
	defaultModel       = goopenai.GPT4
)

// ChatModel implements provider.ChatModel using OpenAI chat completions.
type ChatModel struct {
	client             *goopenai.Client
	defaultModel       string
	defaultTemperature float64
}

// NewChatModel builds a chat completion provider.
func NewChatModel(cfg Config) (provider.ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	}

	modelName := cfg.Model
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultModel
	}
	temp := float64(defaultTemperature)
	if cfg.Temperature != nil {
		temp = *cfg.Temperature
	}

	return &ChatModel{
		client:             goopenai.NewClientWithConfig(apiCfg),
		defaultModel:       modelName,
		defaultTemperature: temp,
	}, nil
}

func (m *ChatModel) Name() string {
	return "openai"
}

// Generate implements provider.ChatModel.
func (m *ChatModel) Generate(ctx context.Context, conversation []types.Turn, opts ...provider.Option) (*types.Turn, error) {
	options := &provider.ChatOptions{
		Model:       m.defaultModel,
		Temperature: m.defaultTemperature,
	}
	for _, o := range opts {
		o(options)
	}

	msgs, err := turnsToMessages(conversation)
	if err != nil {
		return nil, err
	}

	req := goopenai.ChatCompletionRequest{
		Model:       options.Model,
		Messages:    msgs,
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
		Tools:       toOpenAITools(options.Tools),
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: no choices returned")
	}
	return messageToTurn(resp.Choices[0].Message)
}

func turnsToMessages(conversation []types.Turn) ([]goopenai.ChatCompletionMessage, error) {
	var msgs []goopenai.ChatCompletionMessage
	for _, turn := range conversation {
		switch turn.Role {
		case types.RoleUser:
			msgs = append(msgs, goopenai.ChatCompletionMessage{
				Role:    goopenai.ChatMessageRoleUser,
				Content: strings.Join(turn.Texts(), "\n"),
			})
		case types.RoleModel:
			msg := goopenai.ChatCompletionMessage{
				Role:    goopenai.ChatMessageRoleAssistant,
				Content: strings.Join(turn.Texts(), "\n"),
			}
			for _, call := range turn.Calls() {
				args, err := json.Marshal(call.Args)
				if err != nil {
					return nil, fmt.Errorf("openai: encode args for %s: %w", call.Name, err)
				}
				msg.ToolCalls = append(msg.ToolCalls, goopenai.ToolCall{
					ID:   call.ID,
					Type: goopenai.ToolTypeFunction,
					Function: goopenai.FunctionCall{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			msgs = append(msgs, msg)
		case types.RoleTool:
			// Each function result becomes its own tool-role message keyed
			// by the originating call id.
			for _, p := range turn.Parts {
				if p.Result == nil {
					continue
				}
				payload, err := json.Marshal(p.Result.Payload)
				if err != nil {
					return nil, fmt.Errorf("openai: encode result for %s: %w", p.Result.Name, err)
				}
				msgs = append(msgs, goopenai.ChatCompletionMessage{
					Role:       goopenai.ChatMessageRoleTool,
					Content:    string(payload),
					Name:       p.Result.Name,
					ToolCallID: p.Result.ID,
				})
			}
		}
	}
	return msgs, nil
}

func messageToTurn(msg goopenai.ChatCompletionMessage) (*types.Turn, error) {
	turn := &types.Turn{Role: types.RoleModel}
	if msg.Content != "" {
		turn.Parts = append(turn.Parts, types.TextPart(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("openai: decode args for %s: %w", tc.Function.Name, err)
			}
		}
		turn.Parts = append(turn.Parts, types.CallPart(types.FunctionCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		}))
	}
	return turn, nil
}

func toOpenAITools(decls []types.ToolDeclaration) []goopenai.Tool {
	if len(decls) == 0 {
		return nil
	}
	tools := make([]goopenai.Tool, len(decls))
	for i, d := range decls {
		tools[i] = goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		}
	}
	return tools
}

// Ensure interface compliance
var _ provider.ChatModel = (*ChatModel)(nil)
