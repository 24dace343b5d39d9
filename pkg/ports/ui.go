package ports

import (
	"context"
	"sync"
)

// UserInterface is the output sink of the calculator.
// The core only ever posts opaque text messages to it and never reads from it.
type UserInterface interface {
	PostMessage(msg string)
}

// UserInterfaceFunc adapts a plain function to the UserInterface interface.
type UserInterfaceFunc func(msg string)

// PostMessage calls f(msg).
func (f UserInterfaceFunc) PostMessage(msg string) {
	f(msg)
}

// Discard is a UserInterface that drops every message.
var Discard UserInterface = UserInterfaceFunc(func(string) {})

// MessageBuffer collects posted messages in memory.
// Safe for concurrent use.
type MessageBuffer struct {
	mu       sync.Mutex
	messages []string
}

// PostMessage appends msg to the buffer.
func (b *MessageBuffer) PostMessage(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

// Messages returns a copy of the buffered messages.
func (b *MessageBuffer) Messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	copy(out, b.messages)
	return out
}

// Drain returns the buffered messages and empties the buffer.
func (b *MessageBuffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.messages
	b.messages = nil
	if out == nil {
		out = []string{}
	}
	return out
}

type uiKey struct{}

// WithUserInterface returns a context carrying ui.
// Composite commands use it to post messages from nested lines.
func WithUserInterface(ctx context.Context, ui UserInterface) context.Context {
	return context.WithValue(ctx, uiKey{}, ui)
}

// UserInterfaceFrom returns the UserInterface stored in ctx, or Discard.
func UserInterfaceFrom(ctx context.Context) UserInterface {
	if ui, ok := ctx.Value(uiKey{}).(UserInterface); ok && ui != nil {
		return ui
	}
	return Discard
}
