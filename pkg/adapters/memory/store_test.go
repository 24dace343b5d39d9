package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/stackcalc/pkg/adapters/memory"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	snap := domain.NewSnapshot("s", []float64{1, 2})
	require.NoError(t, store.Save(ctx, "s", snap))
	snap.Values[0] = 99

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, loaded.Values)

	loaded.Values[1] = 42
	again, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, again.Values)
}
