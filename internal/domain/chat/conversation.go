package chat

import (
	"sort"
	"time"
)

// Conversation is one chat thread as stored in the data gateway's chats
// table. Alias is the display title shown in the sidebar.
type Conversation struct {
	ID        string    `json:"id"`
	Alias     string    `json:"alias"`
	UserID    string    `json:"user_id"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the user row created at signup.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// SortConversations orders a sidebar listing: pinned conversations first,
// then newest first within each group.
func SortConversations(conversations []Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		if conversations[i].Pinned != conversations[j].Pinned {
			return conversations[i].Pinned
		}
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
}
