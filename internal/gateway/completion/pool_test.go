package completion

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialPoolRejectsEmpty(t *testing.T) {
	_, err := NewCredentialPool(nil)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewCredentialPool([]string{})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialPoolRoundRobin(t *testing.T) {
	pool, err := NewCredentialPool([]string{"key-a", "key-b", "key-c"})
	require.NoError(t, err)
	require.Equal(t, 3, pool.Size())

	// Consecutive requests start from successive keys.
	assert.Equal(t, "key-a", pool.Key(pool.Next(), 0))
	assert.Equal(t, "key-b", pool.Key(pool.Next(), 0))
	assert.Equal(t, "key-c", pool.Key(pool.Next(), 0))
	assert.Equal(t, "key-a", pool.Key(pool.Next(), 0))
}

func TestCredentialPoolFailoverOrder(t *testing.T) {
	pool, err := NewCredentialPool([]string{"key-a", "key-b", "key-c"})
	require.NoError(t, err)

	// From any starting offset, successive attempts walk the whole pool
	// exactly once before wrapping.
	start := uint64(1)
	var order []string
	for attempt := 0; attempt < pool.Size(); attempt++ {
		order = append(order, pool.Key(start, attempt))
	}
	assert.Equal(t, []string{"key-b", "key-c", "key-a"}, order)
}

func TestCredentialPoolSelectionIsPure(t *testing.T) {
	pool, err := NewCredentialPool([]string{"key-a", "key-b"})
	require.NoError(t, err)

	// Key never advances state; only Next does.
	for i := 0; i < 5; i++ {
		assert.Equal(t, "key-a", pool.Key(0, 0))
	}
}

func TestCredentialPoolSingleKey(t *testing.T) {
	pool, err := NewCredentialPool([]string{"only"})
	require.NoError(t, err)

	assert.Equal(t, 1, pool.Size())
	assert.Equal(t, "only", pool.Key(pool.Next(), 0))
	assert.Equal(t, "only", pool.Key(pool.Next(), 0))
}

func TestCredentialPoolConcurrentNext(t *testing.T) {
	pool, err := NewCredentialPool([]string{"key-a", "key-b", "key-c"})
	require.NoError(t, err)

	const goroutines = 30
	offsets := make([]uint64, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			offsets[i] = pool.Next()
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, goroutines)
	for _, offset := range offsets {
		assert.False(t, seen[offset], "offset %d reserved twice", offset)
		seen[offset] = true
	}
}
