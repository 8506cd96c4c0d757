// Command sentibot is the interactive crypto-sentiment chat client. It
// launches the given tool server command, registers the server's tools with
// a chat model, and runs a REPL in which the model may call those tools.
//
// Usage:
//
//	sentibot <tool-server-command> [args...]
//
// Configuration comes from the environment (or a local .env file):
// GEMINI_API_KEY or OPENAI_API_KEY selects the model backend.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"sentibot/pkg/agent"
	"sentibot/pkg/config"
	"sentibot/pkg/logx"
	"sentibot/pkg/provider"
	"sentibot/pkg/provider/gemini"
	"sentibot/pkg/provider/openai"
	"sentibot/pkg/shell"
	"sentibot/pkg/tool"
	"sentibot/pkg/transport"
)

func main() {
	if len(os.Args) < 2 {
		shell.PrintError(os.Stderr, errors.New("usage: sentibot <tool-server-command> [args...]"))
		os.Exit(1)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		shell.PrintError(os.Stderr, err)
		os.Exit(1)
	}
	logx.Init(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1], os.Args[2:]); err != nil {
		shell.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Client, command string, args []string) error {
	llm, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	tp, err := transport.ConnectCommand(ctx, command, args...)
	if err != nil {
		return err
	}
	defer tp.Close()

	descriptors, err := tp.ListTools(ctx)
	if err != nil {
		return err
	}

	registry := tool.NewRegistry()
	for _, desc := range descriptors {
		name := desc.Name
		err := registry.Register(desc, func(ctx context.Context, args map[string]any) (any, error) {
			return tp.CallTool(ctx, name, args)
		})
		if err != nil {
			return err
		}
	}

	var sh *shell.Shell
	ag, err := agent.New(agent.Config{
		Provider:    llm,
		Registry:    registry,
		Temperature: cfg.Temperature,
		MaxRounds:   cfg.MaxToolRounds,
		OnToolCall: func(name string, args map[string]any) {
			sh.ShowToolCall(name, args)
		},
	})
	if err != nil {
		return err
	}

	sh = shell.New(ag, os.Stdin, os.Stdout)
	sh.Banner(registry.Names())
	return sh.Run(ctx)
}

// newProvider picks Gemini when its credential is present, otherwise
// OpenAI. Config loading guarantees at least one credential exists.
func newProvider(ctx context.Context, cfg config.Client) (provider.ChatModel, error) {
	if cfg.GeminiAPIKey != "" {
		return gemini.NewChatModel(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: &cfg.Temperature,
		})
	}
	return openai.NewChatModel(openai.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: &cfg.Temperature,
	})
}
