package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/stackcalc/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.LoadOrStart(ctx, sid)
		_, _ = mgr.Enter(ctx, sid, "1")
		_ = mgr.Delete(ctx, sid)
	}

	if n := len(mgr.locks); n != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", n)
	}
	if n := len(mgr.live); n != 0 {
		t.Errorf("%d calculators remaining after Delete", n)
	}
}
