package chat

import "context"

// DataGateway is the remote relational store exposed over REST. The gateway
// is the source of truth for ids and sequence numbers; adapters must return
// rows exactly as the server assigned them.
type DataGateway interface {
	CreateConversation(ctx context.Context, session *Session, conv *Conversation) (*Conversation, error)
	GetConversation(ctx context.Context, session *Session, chatID string) (*Conversation, error)
	ListConversations(ctx context.Context, session *Session, userID string) ([]Conversation, error)
	TogglePin(ctx context.Context, session *Session, chatID string, pinned bool) (*Conversation, error)
	RenameConversation(ctx context.Context, session *Session, chatID, alias string) (*Conversation, error)
	DeleteConversation(ctx context.Context, session *Session, chatID string) error

	AppendMessage(ctx context.Context, session *Session, chatID string, role Role, content string) (*Message, error)
	ListMessages(ctx context.Context, session *Session, chatID string) ([]Message, error)
}

// CompletionGateway produces assistant replies and short conversation
// titles from a role-tagged history.
type CompletionGateway interface {
	RequestCompletion(ctx context.Context, history []Turn) (string, error)
	GenerateTitle(ctx context.Context, firstMessage string) (string, error)
}
