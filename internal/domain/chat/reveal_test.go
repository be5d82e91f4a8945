package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obrolan/chat-client/internal/domain/chat"
)

func TestRevealProducesGrowingPrefixes(t *testing.T) {
	reveal := chat.NewReveal("Hi!")

	prefix, done := reveal.Next()
	assert.Equal(t, "H", prefix)
	assert.False(t, done)

	prefix, done = reveal.Next()
	assert.Equal(t, "Hi", prefix)
	assert.False(t, done)

	prefix, done = reveal.Next()
	assert.Equal(t, "Hi!", prefix)
	assert.True(t, done)

	// After done, Next keeps returning the full content.
	prefix, done = reveal.Next()
	assert.Equal(t, "Hi!", prefix)
	assert.True(t, done)
}

func TestRevealNeverSplitsRunes(t *testing.T) {
	reveal := chat.NewReveal("héllo 世界")

	var last string
	for {
		prefix, done := reveal.Next()
		require.True(t, len(prefix) > len(last) || done)
		for _, r := range prefix {
			assert.NotEqual(t, '�', r, "prefix %q contains a split rune", prefix)
		}
		last = prefix
		if done {
			break
		}
	}
	assert.Equal(t, "héllo 世界", last)
}

func TestRevealRestart(t *testing.T) {
	reveal := chat.NewReveal("abc")
	reveal.Next()
	reveal.Next()
	require.Equal(t, 1, reveal.Remaining())

	reveal.Restart()
	assert.Equal(t, 3, reveal.Remaining())

	prefix, done := reveal.Next()
	assert.Equal(t, "a", prefix)
	assert.False(t, done)
}

func TestRevealEmptyContent(t *testing.T) {
	reveal := chat.NewReveal("")
	prefix, done := reveal.Next()
	assert.Empty(t, prefix)
	assert.True(t, done)
	assert.Equal(t, 0, reveal.Remaining())
}
