package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stackcalc/pkg/adapters/memory"
	"github.com/aretw0/stackcalc/pkg/adapters/redis"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, sessionID, snap)
}

func (s SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, sessionID)
}

func TestManager_EnterUndoRedo(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := m.LoadOrStart(ctx, "s")
	require.NoError(t, err)

	for _, line := range []string{"3", "4", "add", "undo"} {
		_, err := m.Enter(ctx, "s", line)
		require.NoError(t, err)
	}
	res, err := m.Enter(ctx, "s", "redo")
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, res.Stack)
	assert.Empty(t, res.Messages)

	stack, err := m.Stack(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, stack)
}

func TestManager_EnterReportsMessages(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()
	_, err := m.LoadOrStart(ctx, "s")
	require.NoError(t, err)

	res, err := m.Enter(ctx, "s", "bogus")
	require.NoError(t, err)
	assert.Equal(t, []string{"Command bogus is not a known command"}, res.Messages)
	assert.Equal(t, []float64{}, res.Stack)
}

func TestManager_EnterUnknownSession(t *testing.T) {
	m := session.NewManager(memory.NewStore())

	_, err := m.Enter(context.Background(), "ghost", "1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_LoadOrStartResumes(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s", domain.NewSnapshot("s", []float64{1, 2})))

	m := session.NewManager(store)
	values, err := m.LoadOrStart(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, values)

	res, err := m.Enter(ctx, "s", "*")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, res.Stack)
}

func TestManager_ExternalChangeResetsHistory(t *testing.T) {
	store := memory.NewStore()
	m := session.NewManager(store)
	ctx := context.Background()
	_, err := m.LoadOrStart(ctx, "s")
	require.NoError(t, err)

	_, err = m.Enter(ctx, "s", "1")
	require.NoError(t, err)

	// Another replica wrote a different stack.
	require.NoError(t, store.Save(ctx, "s", domain.NewSnapshot("s", []float64{9})))

	res, err := m.Enter(ctx, "s", "undo")
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, res.Stack)
	assert.Equal(t, []string{"nothing to undo"}, res.Messages)
}

func TestManager_ConcurrentEnterIsSerialised(t *testing.T) {
	m := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	_, err := m.LoadOrStart(ctx, "race")
	require.NoError(t, err)
	_, err = m.Enter(ctx, "race", "0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Enter(ctx, "race", "1"); err != nil {
				t.Error(err)
				return
			}
			if _, err := m.Enter(ctx, "race", "+"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	stack, err := m.Stack(ctx, "race")
	require.NoError(t, err)
	require.NotEmpty(t, stack)
	// Interleaving may pair operands differently but no value may be lost.
	sum := 0.0
	for _, v := range stack {
		sum += v
	}
	assert.Equal(t, 20.0, sum)
}

func TestManager_Delete(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()
	_, err := m.LoadOrStart(ctx, "s")
	require.NoError(t, err)
	_, err = m.Enter(ctx, "s", "5")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "s"))
	_, err = m.Stack(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "s")
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	m := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, "test:")),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	_, err := m.LoadOrStart(ctx, "shared")
	require.NoError(t, err)
	res, err := m.Enter(ctx, "shared", "42")
	require.NoError(t, err)
	assert.Equal(t, []float64{42}, res.Stack)
	assert.False(t, mr.Exists("test:lock:shared"), "lock is released after each call")
}
