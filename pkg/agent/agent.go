// Package agent drives the tool-calling loop between a chat model and the
// tool registry.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sentibot/pkg/logx"
	"sentibot/pkg/provider"
	"sentibot/pkg/tool"
	"sentibot/pkg/types"
)

// ErrRoundLimit is returned when the model keeps requesting tool calls past
// the configured round budget. Without the cap a confused model that always
// answers with function calls would loop forever.
var ErrRoundLimit = errors.New("agent: tool call round limit exceeded")

const defaultMaxRounds = 8

// Config describes how an Agent is assembled.
type Config struct {
	Provider    provider.ChatModel
	Registry    *tool.Registry
	Model       string
	Temperature float64
	MaxRounds   int

	// OnToolCall, when set, observes each dispatch before it happens. The
	// shell uses it to render tool-call boxes.
	OnToolCall func(name string, args map[string]any)
}

// Agent coordinates one model and one tool registry.
type Agent struct {
	provider    provider.ChatModel
	registry    *tool.Registry
	model       string
	temperature float64
	maxRounds   int
	onToolCall  func(name string, args map[string]any)
	log         zerolog.Logger
}

// New builds an Agent and wires defaults.
func New(cfg Config) (*Agent, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	return &Agent{
		provider:    cfg.Provider,
		registry:    cfg.Registry,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxRounds:   maxRounds,
		onToolCall:  cfg.OnToolCall,
		log:         logx.Component("agent"),
	}, nil
}

// Run processes one query to completion. The conversation is built fresh
// for each query: one user turn, then alternating model completions and
// tool round-trips until the model answers with no function calls.
//
// Text parts are accumulated across every round and returned joined by
// newlines. Every function call is answered before the next completion
// request: the call is appended as a model turn and its outcome as a tool
// turn, wrapped as {result: ...} on success or {error: ...} on failure.
// Tool failures are data for the model, never fatal to the loop.
func (a *Agent) Run(ctx context.Context, query string) (string, error) {
	conversation := []types.Turn{types.UserTurn(query)}
	decls := a.registry.Declarations()

	var finalText []string
	for round := 0; round < a.maxRounds; round++ {
		opts := []provider.Option{provider.WithTools(decls)}
		if a.model != "" {
			opts = append(opts, provider.WithModel(a.model))
		}
		if a.temperature > 0 {
			opts = append(opts, provider.WithTemperature(a.temperature))
		}

		turn, err := a.provider.Generate(ctx, conversation, opts...)
		if err != nil {
			return "", fmt.Errorf("model completion: %w", err)
		}

		finalText = append(finalText, turn.Texts()...)

		calls := turn.Calls()
		if len(calls) == 0 {
			return strings.TrimSpace(strings.Join(finalText, "\n")), nil
		}

		for _, part := range turn.Parts {
			if part.Call == nil {
				continue
			}
			call := part.Call
			if a.onToolCall != nil {
				a.onToolCall(call.Name, call.Args)
			}

			payload := map[string]any{}
			out, err := a.registry.Call(ctx, call.Name, call.Args)
			if err != nil {
				a.log.Warn().Str("tool", call.Name).Err(err).Msg("tool call failed")
				payload["error"] = err.Error()
			} else {
				payload["result"] = out
			}

			conversation = append(conversation,
				types.Turn{Role: types.RoleModel, Parts: []types.Part{part}},
				types.Turn{Role: types.RoleTool, Parts: []types.Part{
					types.ResultPart(types.FunctionResult{
						ID:      call.ID,
						Name:    call.Name,
						Payload: payload,
					}),
				}},
			)
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	return "", ErrRoundLimit
}
