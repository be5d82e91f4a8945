package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system" // reserved, never produced by this client
)

func ValidateRole(input string) bool {
	switch Role(input) {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message is one conversation turn. Sequence is authoritative only when it
// came from the data gateway; locally assigned sequences are display hints
// that reconciliation discards.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sequence  int       `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
}

// ProvisionalIDPrefix namespaces client-side ids away from server rows.
const ProvisionalIDPrefix = "local_"

// NewPendingMessage stages a user message for optimistic display before the
// gateway has confirmed it. The provisional sequence places it at the end of
// the current list.
func NewPendingMessage(chatID, content string, listLen int) Message {
	return Message{
		ID:        ProvisionalIDPrefix + uuid.NewString(),
		ChatID:    chatID,
		Role:      RoleUser,
		Content:   content,
		Sequence:  listLen + 1,
		CreatedAt: time.Now().UTC(),
	}
}

// IsProvisional reports whether the message is a local optimistic insert.
func (m Message) IsProvisional() bool {
	return len(m.ID) >= len(ProvisionalIDPrefix) && m.ID[:len(ProvisionalIDPrefix)] == ProvisionalIDPrefix
}

// Turn is the role/content pair sent to the completion gateway.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History projects messages into completion-gateway turns, in order.
func History(messages []Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}
