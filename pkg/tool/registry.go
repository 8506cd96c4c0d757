// Package tool holds the registry mapping tool names to their descriptors
// and invocation handlers, and converts descriptors into the declaration
// shape chat providers accept.
package tool

import (
	"context"
	"fmt"
	"sync"

	"sentibot/pkg/types"
)

// Descriptor describes one callable tool. InputSchema is an opaque
// JSON-schema document as delivered by the transport.
type Descriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Handler executes a tool invocation.
type Handler func(ctx context.Context, args map[string]any) (any, error)

type entry struct {
	desc    Descriptor
	handler Handler
}

// Registry is a thread-safe, order-preserving tool registry.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a tool. Names are unique within a registry; registering a
// name twice returns a *DuplicateError.
func (r *Registry) Register(desc Descriptor, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[desc.Name]; exists {
		return &DuplicateError{Name: desc.Name}
	}
	r.entries[desc.Name] = entry{desc: desc, handler: handler}
	r.order = append(r.order, desc.Name)
	return nil
}

// Descriptors returns the registered descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].desc)
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Declarations converts the registered descriptors into model-facing
// declarations. Schemas are scrubbed of metadata the model API rejects; the
// returned schemas are deep copies, so callers cannot mutate registry state.
func (r *Registry) Declarations() []types.ToolDeclaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.ToolDeclaration, 0, len(r.order))
	for _, name := range r.order {
		d := r.entries[name].desc
		out = append(out, types.ToolDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  ScrubSchema(d.InputSchema),
		})
	}
	return out
}

// Call invokes the named tool's handler.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return e.handler(ctx, args)
}

// DuplicateError indicates a tool name was registered twice.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("tool already registered: %s", e.Name)
}

// NotFoundError indicates a requested tool is missing.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}
