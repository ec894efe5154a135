package pincache_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/pincache"
	"github.com/stretchr/testify/require"
)

func openDurable(t *testing.T, path string) *pincache.DurableTier {
	t.Helper()
	d, err := pincache.OpenDurable(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestCacheTiers(t *testing.T) {
	ctx := context.Background()
	c := pincache.New(openDurable(t, ":memory:"))

	_, _, ok := c.Lookup(ctx, "acc-1")
	require.False(t, ok)
	require.False(t, c.Has(ctx, "acc-1"))

	require.NoError(t, c.Store(ctx, pincache.Entry{AccountID: "acc-1", PINHash: "h1"}))
	require.True(t, c.Has(ctx, "acc-1"))

	e, src, ok := c.Lookup(ctx, "acc-1")
	require.True(t, ok)
	require.Equal(t, pincache.SourceMemory, src)
	require.Equal(t, "h1", e.PINHash)
	require.True(t, e.HasRegistered)

	t.Run("clear volatile keeps durable", func(t *testing.T) {
		c.ClearVolatile()
		require.Zero(t, c.Memory.Len())

		e, src, ok := c.Lookup(ctx, "acc-1")
		require.True(t, ok)
		require.Equal(t, pincache.SourceDurable, src)
		require.Equal(t, "h1", e.PINHash)

		_, src, _ = c.Lookup(ctx, "acc-1")
		require.Equal(t, pincache.SourceMemory, src, "durable hit warms memory")
	})

	t.Run("forget drops both tiers", func(t *testing.T) {
		require.NoError(t, c.Store(ctx, pincache.Entry{AccountID: "acc-2", PINHash: "h2"}))
		require.NoError(t, c.Forget(ctx, "acc-1"))

		require.False(t, c.Has(ctx, "acc-1"))
		require.True(t, c.Has(ctx, "acc-2"))
	})
}

func TestDurableSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pin_cache.db")

	first, err := pincache.OpenDurable(path)
	require.NoError(t, err)
	require.NoError(t, pincache.New(first).Store(ctx, pincache.Entry{AccountID: "acc-1", PINHash: "h1"}))
	require.NoError(t, first.Close())

	c := pincache.New(openDurable(t, path))
	e, src, ok := c.Lookup(ctx, "acc-1")
	require.True(t, ok)
	require.Equal(t, pincache.SourceDurable, src)
	require.Equal(t, "h1", e.PINHash)
}

func TestDurablePutOverwrites(t *testing.T) {
	ctx := context.Background()
	d := openDurable(t, ":memory:")

	require.NoError(t, d.Put(ctx, pincache.Entry{AccountID: "acc-1", PINHash: "old", HasRegistered: true}))
	require.NoError(t, d.Put(ctx, pincache.Entry{AccountID: "acc-1", PINHash: "new", HasRegistered: true}))

	e, ok, err := d.Get(ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new", e.PINHash)

	require.NoError(t, d.Delete(ctx, "acc-1"))
	_, ok, err = d.Get(ctx, "acc-1")
	require.NoError(t, err)
	require.False(t, ok)
}

type brokenTier struct{}

func (brokenTier) Get(context.Context, string) (pincache.Entry, bool, error) {
	return pincache.Entry{}, false, errors.New("disk gone")
}
func (brokenTier) Put(context.Context, pincache.Entry) error { return errors.New("disk gone") }
func (brokenTier) Delete(context.Context, string) error     { return errors.New("disk gone") }

func TestDurableFailureIsAMiss(t *testing.T) {
	ctx := context.Background()
	c := pincache.New(brokenTier{})

	require.Error(t, c.Store(ctx, pincache.Entry{AccountID: "acc-1", PINHash: "h1"}))
	// memory still holds it
	require.True(t, c.Has(ctx, "acc-1"))

	c.ClearVolatile()
	_, _, ok := c.Lookup(ctx, "acc-1")
	require.False(t, ok)
}

func TestMemoryTierConcurrent(t *testing.T) {
	ctx := context.Background()
	m := pincache.NewMemoryTier()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = m.Put(ctx, pincache.Entry{AccountID: id, PINHash: id})
			_, _, _ = m.Get(ctx, id)
			if i%4 == 0 {
				m.Clear()
			}
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, m.Len(), 16)
}
