package store

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flaky wraps a Memory store and fails on demand with ErrUnavailable.
type flaky struct {
	inner      *Memory
	failReads  atomic.Bool
	failWrites atomic.Bool
	writeCalls atomic.Int64
}

func newFlaky() *flaky { return &flaky{inner: NewMemory()} }

func (f *flaky) GetAll(ctx context.Context, table Table) ([]Record, error) {
	if f.failReads.Load() {
		return nil, fmt.Errorf("%w: injected read failure", ErrUnavailable)
	}
	return f.inner.GetAll(ctx, table)
}

func (f *flaky) Upsert(ctx context.Context, table Table, key string, payload any) error {
	f.writeCalls.Add(1)
	if f.failWrites.Load() {
		return fmt.Errorf("%w: injected write failure", ErrUnavailable)
	}
	return f.inner.Upsert(ctx, table, key, payload)
}

func TestCachedServesSnapshotWhenRemoteDown(t *testing.T) {
	ctx := context.Background()
	remote := newFlaky()
	cached := NewCached(remote, NewMemorySnapshot(), 0)

	require.NoError(t, cached.Upsert(ctx, TableRequests, "r1", map[string]string{"id": "r1"}))

	// A healthy read fills the snapshot.
	recs, err := cached.GetAll(ctx, TableRequests)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	remote.failReads.Store(true)

	stale, err := cached.GetAll(ctx, TableRequests)
	require.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.Equal(t, "r1", stale[0].Key)
}

func TestCachedReadFailsWithoutSnapshot(t *testing.T) {
	ctx := context.Background()
	remote := newFlaky()
	remote.failReads.Store(true)
	cached := NewCached(remote, NewMemorySnapshot(), 0)

	_, err := cached.GetAll(ctx, TableJobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCachedWriteRetriesThenSucceeds(t *testing.T) {
	ctx := context.Background()
	remote := newFlaky()
	cached := NewCached(remote, NewMemorySnapshot(), 3)

	remote.failWrites.Store(true)
	done := make(chan error, 1)
	go func() {
		done <- cached.Upsert(ctx, TableJobs, "j1", map[string]string{"id": "j1"})
	}()

	// Let the first attempt fail, then heal the remote.
	for remote.writeCalls.Load() == 0 {
		runtime.Gosched()
	}
	remote.failWrites.Store(false)

	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, remote.writeCalls.Load(), int64(2))

	recs, err := remote.inner.GetAll(ctx, TableJobs)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestCachedWriteSurfacesFailureAfterRetries(t *testing.T) {
	ctx := context.Background()
	remote := newFlaky()
	remote.failWrites.Store(true)
	cached := NewCached(remote, NewMemorySnapshot(), 1)

	err := cached.Upsert(ctx, TableJobs, "j1", map[string]string{"id": "j1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int64(2), remote.writeCalls.Load())
}

func TestCachedBadInputIsNotRetried(t *testing.T) {
	ctx := context.Background()
	remote := newFlaky()
	cached := NewCached(remote, NewMemorySnapshot(), 5)

	err := cached.Upsert(ctx, Table("bogus"), "k", struct{}{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int64(1), remote.writeCalls.Load())
}
