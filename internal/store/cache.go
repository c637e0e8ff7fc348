package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Snapshotter keeps the last-known-good copy of each table so reads can
// degrade to stale data when the remote store is down.
type Snapshotter interface {
	Save(ctx context.Context, table Table, recs []Record)
	Load(ctx context.Context, table Table) ([]Record, error)
}

// Cached wraps a remote Store with a cache-aside policy: reads snapshot on
// success and fall back to the snapshot on ErrUnavailable; writes go
// remote-first with capped exponential retry. A write that still fails after
// the retry budget surfaces ErrUnavailable to the caller, because silently
// dropping a write here can lose a fund release.
type Cached struct {
	remote     Store
	snap       Snapshotter
	maxRetries uint64
}

// NewCached wraps remote. maxRetries bounds the write retry loop.
func NewCached(remote Store, snap Snapshotter, maxRetries uint64) *Cached {
	return &Cached{remote: remote, snap: snap, maxRetries: maxRetries}
}

func (c *Cached) GetAll(ctx context.Context, table Table) ([]Record, error) {
	recs, err := c.remote.GetAll(ctx, table)
	if err == nil {
		c.snap.Save(ctx, table, recs)
		return recs, nil
	}
	if errors.Is(err, ErrUnavailable) {
		cached, cerr := c.snap.Load(ctx, table)
		if cerr == nil && cached != nil {
			log.Printf("store: serving stale snapshot of %s (%d records): %v", table, len(cached), err)
			return cached, nil
		}
	}
	return nil, err
}

func (c *Cached) Upsert(ctx context.Context, table Table, key string, payload any) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(newWriteBackoff(), c.maxRetries), ctx)

	op := func() error {
		err := c.remote.Upsert(ctx, table, key, payload)
		if err != nil && !errors.Is(err, ErrUnavailable) {
			// Bad input never heals with a retry.
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("upsert %s/%s after retries: %w", table, key, err)
	}
	return nil
}

func newWriteBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	return b
}
