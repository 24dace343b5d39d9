package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventExecute EventType = "execute"
	EventUndo    EventType = "undo"
	EventRedo    EventType = "redo"
	EventFailure EventType = "failure"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CommandEvent describes a history transition of a single command.
type CommandEvent struct {
	EventBase
	Command   string        `json:"command"`
	StackSize int           `json:"stack_size"`
	UndoDepth int           `json:"undo_depth"`
	RedoDepth int           `json:"redo_depth"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for history observability.
type LifecycleHooks struct {
	OnExecute func(context.Context, *CommandEvent)
	OnUndo    func(context.Context, *CommandEvent)
	OnRedo    func(context.Context, *CommandEvent)
	OnFailure func(context.Context, *CommandEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnExecute: chain(h.OnExecute, other.OnExecute),
		OnUndo:    chain(h.OnUndo, other.OnUndo),
		OnRedo:    chain(h.OnRedo, other.OnRedo),
		OnFailure: chain(h.OnFailure, other.OnFailure),
	}
}

func chain(a, b func(context.Context, *CommandEvent)) func(context.Context, *CommandEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *CommandEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
