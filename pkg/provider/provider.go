// Package provider abstracts chat model backends behind a single
// completion operation over a Turn-based conversation.
package provider

import (
	"context"

	"sentibot/pkg/types"
)

// ChatOptions contains configurable parameters for a completion request.
type ChatOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Tools       []types.ToolDeclaration
}

// Option is a functional option for configuring ChatOptions.
type Option func(*ChatOptions)

func WithModel(m string) Option {
	return func(o *ChatOptions) {
		o.Model = m
	}
}

func WithTemperature(t float64) Option {
	return func(o *ChatOptions) {
		o.Temperature = t
	}
}

func WithTools(tools []types.ToolDeclaration) Option {
	return func(o *ChatOptions) {
		o.Tools = tools
	}
}

// ChatModel defines the interface for chat LLM backends.
type ChatModel interface {
	// Name returns the provider name (e.g. "gemini", "openai").
	Name() string

	// Generate sends the full conversation and returns the model's next
	// turn, which may mix text parts and function-call parts.
	Generate(ctx context.Context, conversation []types.Turn, opts ...Option) (*types.Turn, error)
}
