// Package shell is the interactive session: it reads queries, runs them
// through the agent, and renders boxed output.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sentibot/pkg/agent"
)

// maxQueryBytes bounds a single input line. Pasted prompts can exceed the
// scanner's default 64KB token limit.
const maxQueryBytes = 1 << 20

// Shell drives a read-query-answer loop until quit, EOF, or interrupt.
type Shell struct {
	agent *agent.Agent
	in    io.Reader
	out   io.Writer
}

// New builds a Shell over the given streams.
func New(a *agent.Agent, in io.Reader, out io.Writer) *Shell {
	return &Shell{agent: a, in: in, out: out}
}

// Banner prints the connection box listing the available tools.
func (s *Shell) Banner(toolNames []string) {
	text := "Connected successfully!\nAvailable tools: " + strings.Join(toolNames, ", ")
	fmt.Fprintln(s.out, box(serverStyle, "Server Connection", text))
}

// ShowToolCall renders a dispatch box with the tool name and its arguments.
// Wire it into agent.Config.OnToolCall.
func (s *Shell) ShowToolCall(name string, args map[string]any) {
	pretty, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		pretty = []byte(fmt.Sprintf("%v", args))
	}
	fmt.Fprintln(s.out, box(toolCallStyle, "Tool Call", "Tool: "+name+"\nArguments:\n"+string(pretty)))
}

// ShowError renders an error box.
func (s *Shell) ShowError(err error) {
	PrintError(s.out, err)
}

// PrintError renders an error box to w. It is usable before a Shell exists,
// for startup failures.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, box(errorStyle, "Error", err.Error()))
}

// Run processes queries until the user quits, input ends, or the context is
// cancelled. Each query runs to completion, tool round-trips included,
// before the next prompt appears. A cancelled context (interrupt) returns
// normally so the caller's cleanup still runs.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, box(serverStyle, "Client Started", "Type your queries below ('quit' to exit)"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxQueryBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(s.out, promptStyle.Render("➤ Query: "))

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, box(errorStyle, "Warning", "Session terminated by user"))
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return nil
			}
			query := strings.TrimSpace(line)
			if query == "" {
				continue
			}
			if strings.EqualFold(query, "quit") {
				return nil
			}

			answer, err := s.agent.Run(ctx, query)
			if err != nil {
				if ctx.Err() != nil {
					fmt.Fprintln(s.out, box(errorStyle, "Warning", "Session terminated by user"))
					return nil
				}
				s.ShowError(err)
				continue
			}
			fmt.Fprintln(s.out, box(responseStyle, "Response", answer))
		}
	}
}
