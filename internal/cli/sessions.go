package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/runner"
)

// ListSessions writes one session ID per line.
func ListSessions(ctx context.Context, store ports.SnapshotStore, w io.Writer) error {
	ids, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

// InspectSession prints the stored stack of a session.
func InspectSession(ctx context.Context, store ports.SnapshotStore, id string, precision int, w io.Writer) error {
	snap, err := store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("session %q not found", id)
		}
		return err
	}

	fmt.Fprintf(w, "Session: %s\n", id)
	if !snap.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated: %s\n", snap.UpdatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Depth:   %d\n", len(snap.Values))
	fmt.Fprintln(w, strings.Repeat("-", 20))
	fmt.Fprintln(w, runner.FormatStack(snap.Values, precision, 0))
	return nil
}

// RemoveSessions deletes every listed session, reporting each one.
func RemoveSessions(ctx context.Context, store ports.SnapshotStore, ids []string, w io.Writer) error {
	var errs []error
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		fmt.Fprintf(w, "Deleted %s\n", id)
	}
	return errors.Join(errs...)
}
