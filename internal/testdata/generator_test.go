package testdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/easybook/internal/report"
	"github.com/jask/easybook/internal/store"
)

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("CST", 8*3600)
	month := time.Date(2024, 5, 17, 0, 0, 0, 0, loc)

	a := Generate(month, 42)
	b := Generate(month, 42)
	require.NotEmpty(t, a)
	require.Equal(t, a, b)

	seen := map[string]bool{}
	for _, tx := range a {
		require.NoError(t, tx.Validate())
		require.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
	require.Len(t, report.MonthFilter(a, month), len(a))
}

func TestSeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemoryPersistence()
	st := store.New(mem, nil)
	st.Load(ctx)

	n, err := Seed(ctx, st, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 7)
	require.NoError(t, err)
	require.Equal(t, n, st.Len())
	require.Equal(t, 1, mem.Saves())
}

func TestSeedTwiceKeepsIDsUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.New(store.NewMemoryPersistence(), nil)
	st.Load(ctx)
	month := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first, err := Seed(ctx, st, month, 1)
	require.NoError(t, err)
	second, err := Seed(ctx, st, month, 1)
	require.NoError(t, err)
	require.Equal(t, first, second)

	all := st.All()
	require.Len(t, all, first+second)
	seen := make(map[string]bool, len(all))
	for _, tx := range all {
		require.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}

	victim := all[0].ID
	require.NoError(t, st.Remove(ctx, victim))
	require.Len(t, st.All(), len(all)-1)
	for _, tx := range st.All() {
		require.NotEqual(t, victim, tx.ID)
	}
}
