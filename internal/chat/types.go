package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a message.
type Sender string

const (
	// SenderUser marks a message written by the customer.
	SenderUser Sender = "user"

	// SenderAI marks a message generated by the assistant.
	SenderAI Sender = "ai"
)

// Conversation is a single support dialogue thread.
type Conversation struct {
	// ID is the opaque session identifier (a UUID).
	ID string `json:"id"`

	// CreatedAt is when the conversation was started.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is bumped on every message insert.
	UpdatedAt time.Time `json:"updatedAt"`

	// Metadata is an optional opaque payload, unused by current logic.
	Metadata string `json:"metadata,omitempty"`
}

// Message is one immutable turn in a conversation.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`

	// ConversationID links the message to its conversation.
	ConversationID string `json:"conversationId"`

	// Sender is "user" or "ai".
	Sender Sender `json:"sender"`

	// Text is the sanitized message content.
	Text string `json:"text"`

	// Timestamp orders messages within a conversation.
	Timestamp time.Time `json:"timestamp"`
}

// Request is an incoming chat message.
type Request struct {
	// Message is the user's text.
	Message string `json:"message"`

	// SessionID links the message to an existing conversation.
	// If empty, a new conversation is created.
	SessionID string `json:"sessionId,omitempty"`
}

// Result is the outcome of processing a chat request.
type Result struct {
	// Reply is the generated assistant response.
	Reply string `json:"reply"`

	// SessionID identifies the conversation the exchange belongs to.
	SessionID string `json:"sessionId"`
}

// History is a full conversation transcript.
type History struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
}

// NewSessionID generates a new conversation identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// NewMessageID generates a new message identifier.
func NewMessageID() string {
	return uuid.New().String()
}
