package transport

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func setupTransport(t *testing.T) *MCP {
	t.Helper()
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "test-server", Version: "test"}, nil)
	registerTestTools(server)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		session, err := server.Connect(ctx, serverTransport, nil)
		if err != nil {
			ready <- err
			return
		}
		ready <- nil
		<-ctx.Done()
		_ = session.Close()
	}()

	m, err := Connect(ctx, clientTransport)
	if err != nil {
		cancel()
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		_ = m.Close()
		cancel()
		<-done
		if err := <-ready; err != nil {
			t.Fatalf("server connect failed: %v", err)
		}
	})
	return m
}

func registerTestTools(server *mcpsdk.Server) {
	server.AddTool(&mcpsdk.Tool{
		Name:        "echo",
		Description: "Echo input",
		InputSchema: &jsonschema.Schema{
			Type:  "object",
			Title: "echoArguments",
			Properties: map[string]*jsonschema.Schema{
				"text": {Type: "string", Title: "Text"},
			},
			Required: []string{"text"},
		},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var payload map[string]string
		if err := json.Unmarshal(req.Params.Arguments, &payload); err != nil {
			return nil, err
		}
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "echo:" + payload["text"]}},
		}, nil
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "broken",
		Description: "Always fails",
		InputSchema: &jsonschema.Schema{Type: "object", Properties: map[string]*jsonschema.Schema{}},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "boom"}},
		}, nil
	})
}

func TestListTools(t *testing.T) {
	m := setupTransport(t)

	descriptors, err := m.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("got %d tools, want 2", len(descriptors))
	}

	byName := map[string]int{}
	for i, d := range descriptors {
		byName[d.Name] = i
	}
	idx, ok := byName["echo"]
	if !ok {
		t.Fatalf("echo tool missing from %v", byName)
	}
	echo := descriptors[idx]
	if echo.Description != "Echo input" {
		t.Fatalf("echo.Description = %q", echo.Description)
	}
	props, ok := echo.InputSchema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("echo schema = %v", echo.InputSchema)
	}
	if _, ok := props["text"]; !ok {
		t.Fatalf("echo schema properties = %v", props)
	}
	// The transport delivers schemas untouched; scrubbing is the registry's
	// job.
	if _, ok := echo.InputSchema["title"]; !ok {
		t.Error("schema title was stripped in transit")
	}
}

func TestCallTool(t *testing.T) {
	m := setupTransport(t)

	out, err := m.CallTool(context.Background(), "echo", map[string]any{"text": "hi"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if out != "echo:hi" {
		t.Fatalf("out = %q, want echo:hi", out)
	}
}

func TestCallToolErrorResult(t *testing.T) {
	m := setupTransport(t)

	_, err := m.CallTool(context.Background(), "broken", map[string]any{})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("err = %v, want *ToolError", err)
	}
	if toolErr.Tool != "broken" || !strings.Contains(toolErr.Message, "boom") {
		t.Fatalf("ToolError = %+v", toolErr)
	}
}

func TestCallToolUnknown(t *testing.T) {
	m := setupTransport(t)

	_, err := m.CallTool(context.Background(), "nonexistent", map[string]any{})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("err = %v, want *ToolError", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	m := setupTransport(t)

	first := m.Close()
	second := m.Close()
	if first != second {
		t.Fatalf("Close results differ: %v vs %v", first, second)
	}
}
