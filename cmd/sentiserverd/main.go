// Command sentiserverd serves the crypto sentiment tools over MCP stdio.
// It is meant to be launched by a tool-calling client, with MASA
// credentials supplied through the environment. All logging goes to
// stderr; stdout carries the protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"sentibot/pkg/config"
	"sentibot/pkg/logx"
	"sentibot/pkg/sentiment"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sentiserverd:", err)
		os.Exit(1)
	}
	logx.Init(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := sentiment.NewService(cfg.Masa.New())
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "crypto-sentiment", Version: "0.1.0"}, nil)
	svc.Register(server)

	logx.Info().Msg("sentiment tool server listening on stdio")
	if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logx.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
