package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stackcalc/pkg/domain"
)

// AuditHooks logs every history transition at debug level and failures at warn.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(ctx context.Context, e *domain.CommandEvent) {
		logger.DebugContext(ctx, "command "+string(e.Type),
			"command", e.Command,
			"stack_size", e.StackSize,
			"undo_depth", e.UndoDepth,
			"redo_depth", e.RedoDepth,
			"duration", e.Duration,
		)
	}
	return domain.LifecycleHooks{
		OnExecute: log,
		OnUndo:    log,
		OnRedo:    log,
		OnFailure: func(ctx context.Context, e *domain.CommandEvent) {
			logger.WarnContext(ctx, "command failed", "command", e.Command, "err", e.Err)
		},
	}
}
