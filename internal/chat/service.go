package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/techstyle/support-chat/internal/validate"
)

// FallbackReply is persisted as the assistant turn when generation fails,
// so the transcript never silently omits a turn. The original typed error
// is still returned to the caller; this text is never presented as success.
const FallbackReply = "I apologize, but I'm having trouble processing your request right now. " +
	"Please try again in a moment, or contact our support team at support@techstyle.com for immediate assistance."

// DefaultHistoryLimit bounds the context window handed to the generator.
const DefaultHistoryLimit = 20

// ProcessFn handles one incoming chat message end to end.
type ProcessFn func(ctx context.Context, req Request) (*Result, error)

// NewConversationFn starts a fresh conversation with no message side effects.
type NewConversationFn func(ctx context.Context) (*Conversation, error)

// HistoryFn returns the full transcript for a session.
type HistoryFn func(ctx context.Context, sessionID string) (*History, error)

// NewService builds the chat processing function. The sequence per request:
// validate and sanitize, resolve or create the session, fetch bounded
// history, persist the user message, generate a reply, persist the outcome.
func NewService(st Store, gen Generator, historyLimit int, logger *slog.Logger) ProcessFn {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, req Request) (*Result, error) {
		// 1. Validate and sanitize before touching storage.
		if req.SessionID != "" && !validate.SessionID(req.SessionID) {
			return nil, validate.ErrInvalidSessionID
		}

		text, err := validate.Message(req.Message)
		if err != nil {
			return nil, err
		}

		// 2. Resolve the session. An unknown but well-formed identifier
		// gets a conversation created under it, never rejected.
		conversationID, err := resolveSession(ctx, st, req.SessionID)
		if err != nil {
			return nil, err
		}

		// 3. Fetch history before inserting the new message, so the new
		// message is not duplicated into its own context window.
		history, err := st.RecentMessages(ctx, conversationID, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}

		// 4. Persist the inbound user message.
		if _, err := st.CreateMessage(ctx, NewMessageID(), conversationID, SenderUser, text); err != nil {
			return nil, fmt.Errorf("failed to store user message: %w", err)
		}

		// 5. Generate and persist the reply.
		reply, err := gen.GenerateReply(ctx, history, text)
		if err != nil {
			// Persist a fallback turn so the transcript reflects that a
			// reply attempt occurred and failed, then surface the real
			// error to the caller.
			if _, storeErr := st.CreateMessage(ctx, NewMessageID(), conversationID, SenderAI, FallbackReply); storeErr != nil {
				logger.Error("failed to store fallback reply",
					slog.String("session_id", conversationID),
					slog.String("error", storeErr.Error()),
				)
			}
			return nil, err
		}

		if _, err := st.CreateMessage(ctx, NewMessageID(), conversationID, SenderAI, reply); err != nil {
			return nil, fmt.Errorf("failed to store assistant message: %w", err)
		}

		return &Result{Reply: reply, SessionID: conversationID}, nil
	}
}

// NewConversationService builds the "start new conversation" operation.
func NewConversationService(st Store) NewConversationFn {
	return func(ctx context.Context) (*Conversation, error) {
		conv, err := st.CreateConversation(ctx, NewSessionID())
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		return conv, nil
	}
}

// NewHistoryService builds the transcript lookup operation. Unlike the
// bounded fetch used during generation, this returns the full message list.
func NewHistoryService(st Store) HistoryFn {
	return func(ctx context.Context, sessionID string) (*History, error) {
		if !validate.SessionID(sessionID) {
			return nil, validate.ErrInvalidSessionID
		}

		if _, err := st.GetConversation(ctx, sessionID); err != nil {
			return nil, err
		}

		messages, err := st.ListMessages(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		return &History{SessionID: sessionID, Messages: messages}, nil
	}
}

// resolveSession returns the conversation id for the request, creating the
// conversation when it does not exist yet.
func resolveSession(ctx context.Context, st Store, sessionID string) (string, error) {
	if sessionID == "" {
		id := NewSessionID()
		if _, err := st.CreateConversation(ctx, id); err != nil {
			return "", fmt.Errorf("failed to create conversation: %w", err)
		}
		return id, nil
	}

	_, err := st.GetConversation(ctx, sessionID)
	if err == nil {
		return sessionID, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return "", fmt.Errorf("failed to get conversation: %w", err)
	}

	if _, err := st.CreateConversation(ctx, sessionID); err != nil {
		// A concurrent request may have created it between lookup and
		// insert; that is fine, the conversation exists either way.
		if errors.Is(err, ErrConversationExists) {
			return sessionID, nil
		}
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}

	return sessionID, nil
}
