// Package pincache keeps PIN hashes close to the gate so repeat checks skip
// the credential store. A process-local memory tier sits in front of a
// durable sqlite tier that survives restarts and sign-outs.
package pincache

import (
	"context"

	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// Entry mirrors an account's PIN record.
type Entry struct {
	AccountID     string
	PINHash       string
	HasRegistered bool
}

// Tier is one level of the cache.
type Tier interface {
	Get(ctx context.Context, accountID string) (Entry, bool, error)
	Put(ctx context.Context, e Entry) error
	Delete(ctx context.Context, accountID string) error
}

// Source reports which tier answered a lookup.
type Source string

const (
	SourceMemory  Source = "memory"
	SourceDurable Source = "durable"
)

// Cache layers the memory tier over the durable tier. Durable tier failures
// are logged and treated as misses; the credential store stays the source
// of truth.
type Cache struct {
	Memory  *MemoryTier
	Durable Tier
}

func New(durable Tier) *Cache {
	return &Cache{Memory: NewMemoryTier(), Durable: durable}
}

// Lookup checks memory, then the durable tier. A durable hit warms memory.
func (c *Cache) Lookup(ctx context.Context, accountID string) (Entry, Source, bool) {
	if e, ok, _ := c.Memory.Get(ctx, accountID); ok {
		return e, SourceMemory, true
	}
	if c.Durable == nil {
		return Entry{}, "", false
	}

	e, ok, err := c.Durable.Get(ctx, accountID)
	if err != nil {
		slogx.FromContext(ctx).Warn("pin cache: durable read failed", "err", err)
		return Entry{}, "", false
	}
	if !ok {
		return Entry{}, "", false
	}
	_ = c.Memory.Put(ctx, e)
	return e, SourceDurable, true
}

// Store writes e to both tiers. Only a durable write failure is reported.
func (c *Cache) Store(ctx context.Context, e Entry) error {
	e.HasRegistered = true
	_ = c.Memory.Put(ctx, e)
	if c.Durable == nil {
		return nil
	}
	return c.Durable.Put(ctx, e)
}

// Has reports whether either tier holds the account.
func (c *Cache) Has(ctx context.Context, accountID string) bool {
	e, _, ok := c.Lookup(ctx, accountID)
	return ok && e.HasRegistered
}

// ClearVolatile drops the whole memory tier.
func (c *Cache) ClearVolatile() {
	c.Memory.Clear()
}

// Forget drops one account from both tiers.
func (c *Cache) Forget(ctx context.Context, accountID string) error {
	_ = c.Memory.Delete(ctx, accountID)
	if c.Durable == nil {
		return nil
	}
	return c.Durable.Delete(ctx, accountID)
}
