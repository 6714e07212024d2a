package chat

import "context"

// Store is the persistence contract for conversations and messages.
// Messages are ordered by timestamp ascending; that is the only ordering
// guarantee exposed to callers. Implementations live under internal/store.
type Store interface {
	// CreateConversation inserts a conversation with the given id.
	// Returns ErrConversationExists if the id is already taken.
	CreateConversation(ctx context.Context, id string) (*Conversation, error)

	// GetConversation looks up a conversation by id.
	// Returns ErrConversationNotFound when missing.
	GetConversation(ctx context.Context, id string) (*Conversation, error)

	// TouchConversation bumps the conversation's UpdatedAt.
	TouchConversation(ctx context.Context, id string) error

	// CreateMessage inserts a message and touches the parent conversation.
	// Insert and touch are one logical unit.
	CreateMessage(ctx context.Context, id, conversationID string, sender Sender, text string) (*Message, error)

	// ListMessages returns all messages for a conversation, ascending by timestamp.
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)

	// RecentMessages returns at most limit of the newest messages,
	// still in ascending timestamp order.
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close flushes and releases the store.
	Close(ctx context.Context) error
}

// Generator produces an assistant reply for a conversation turn.
// Implementations live under internal/llm. Any error returned from
// GenerateReply is a generation failure and carries its own status mapping.
type Generator interface {
	// GenerateReply formats history plus the new user message into a
	// provider message list and requests a completion. Single attempt,
	// no internal retry.
	GenerateReply(ctx context.Context, history []Message, userMessage string) (string, error)

	// CheckHealth probes provider reachability without side effects on
	// conversation state.
	CheckHealth(ctx context.Context) bool
}
