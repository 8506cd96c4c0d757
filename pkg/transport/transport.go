// Package transport is the process-boundary channel to a tool server. The
// orchestrator talks to it through two operations, listing tools and
// invoking one, regardless of where the server actually runs.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"sentibot/pkg/logx"
	"sentibot/pkg/tool"
)

// Transport is a bidirectional channel to a process that executes tools.
type Transport interface {
	ListTools(ctx context.Context) ([]tool.Descriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}

// ToolError reports a tool invocation that failed, either at the protocol
// level or because the tool itself reported an error result.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}

// MCP is a Transport over a Model Context Protocol session.
type MCP struct {
	session   *mcpsdk.ClientSession
	closeOnce sync.Once
	closeErr  error
	log       zerolog.Logger
}

// ConnectCommand launches the tool server command and establishes an MCP
// session over its stdio. The subprocess inherits stderr so server logs
// remain visible; stdout is the protocol wire.
func ConnectCommand(ctx context.Context, command string, args ...string) (*MCP, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = os.Stderr
	return Connect(ctx, &mcpsdk.CommandTransport{Command: cmd})
}

// Connect establishes a session over an already-built MCP transport. A
// failed handshake tears down whatever the transport acquired (the
// subprocess and its pipes) before the error is returned, so callers never
// hold a half-connected session.
func Connect(ctx context.Context, t mcpsdk.Transport) (*MCP, error) {
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "sentibot", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to tool server: %w", err)
	}
	return &MCP{session: session, log: logx.Component("transport")}, nil
}

// ListTools fetches the server's tool catalog. Schemas arrive as opaque
// JSON documents and stay that way.
func (m *MCP) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	var out []tool.Descriptor
	for t, err := range m.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		schema, err := toSchemaMap(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("list tools: schema for %s: %w", t.Name, err)
		}
		out = append(out, tool.Descriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	return out, nil
}

// CallTool invokes a named tool and returns the joined text content of its
// result. Failures come back as *ToolError.
func (m *MCP) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	m.log.Debug().Str("tool", name).Msg("dispatching tool call")
	res, err := m.session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", &ToolError{Tool: name, Message: err.Error()}
	}
	text := joinText(res.Content)
	if res.IsError {
		return "", &ToolError{Tool: name, Message: text}
	}
	return text, nil
}

// Close shuts the session down. Idempotent, so it is safe to call on every
// exit path.
func (m *MCP) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = m.session.Close()
	})
	return m.closeErr
}

func joinText(content []mcpsdk.Content) string {
	var parts []string
	for _, c := range content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func toSchemaMap(schema any) (map[string]any, error) {
	if schema == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure interface compliance
var _ Transport = (*MCP)(nil)
