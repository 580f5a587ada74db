package idgen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySequencer struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (m *memorySequencer) NextSequence(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.values == nil {
		m.values = make(map[string]int64)
	}
	m.values[key]++
	return m.values[key], nil
}

var ctx = context.Background()

func TestNextID_Monotonic(t *testing.T) {
	g, err := New(&memorySequencer{}, nil, nil)
	require.NoError(t, err)

	start := time.UnixMilli(1_700_000_000_000)
	prev, err := g.NextID(ctx, "objects", start)
	require.NoError(t, err)

	for i := 1; i < 200; i++ {
		next, err := g.NextID(ctx, "objects", start.Add(time.Duration(i)*time.Millisecond))
		require.NoError(t, err)
		assert.True(t, Less(prev, next), "%s should be less than %s", prev, next)
		prev = next
	}
}

func TestNextID_SameTimestampConcurrent(t *testing.T) {
	g, err := New(&memorySequencer{}, []byte("0123456789abcdef"), nil)
	require.NoError(t, err)

	ts := time.UnixMilli(1_700_000_000_000)
	const n = 500

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := g.NextID(ctx, "statuses", ts)
			assert.NoError(t, err)
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestNextID_TimestampDominates(t *testing.T) {
	g, err := New(&memorySequencer{}, nil, nil)
	require.NoError(t, err)

	ts := time.UnixMilli(1_700_000_000_000)
	id, err := g.NextID(ctx, "x", ts)
	require.NoError(t, err)

	lower, err := g.NextID(ctx, "x", ts.Add(-time.Millisecond))
	require.NoError(t, err)
	assert.True(t, Less(lower, id))
}

func TestNextID_SequenceFailure(t *testing.T) {
	failure := errors.New("storage unavailable")
	g, err := New(&memorySequencer{err: failure}, nil, nil)
	require.NoError(t, err)

	_, err = g.NextID(ctx, "x", time.Now())
	require.ErrorIs(t, err, failure)
}

func TestNextID_RejectsPreEpoch(t *testing.T) {
	g, err := New(&memorySequencer{}, nil, nil)
	require.NoError(t, err)

	_, err = g.NextID(ctx, "x", time.UnixMilli(-5))
	assert.Error(t, err)
}
