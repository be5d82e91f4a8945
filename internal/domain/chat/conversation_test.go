package chat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"obrolan/chat-client/internal/domain/chat"
)

func TestSortConversations(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	conversations := []chat.Conversation{
		{ID: "old-unpinned", CreatedAt: base},
		{ID: "old-pinned", Pinned: true, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "new-unpinned", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "new-pinned", Pinned: true, CreatedAt: base.Add(2 * time.Hour)},
	}

	chat.SortConversations(conversations)

	var order []string
	for _, conv := range conversations {
		order = append(order, conv.ID)
	}
	assert.Equal(t, []string{"new-pinned", "old-pinned", "new-unpinned", "old-unpinned"}, order)
}

func TestSortConversationsStableOnEqualTimestamps(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	conversations := []chat.Conversation{
		{ID: "first", CreatedAt: at},
		{ID: "second", CreatedAt: at},
	}

	chat.SortConversations(conversations)

	assert.Equal(t, "first", conversations[0].ID)
	assert.Equal(t, "second", conversations[1].ID)
}
