// Package store provides chat.Store implementations.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/techstyle/support-chat/internal/chat"
)

// FileStore keeps the working set in memory and rewrites the whole dataset
// to a single JSON file after every mutation. Write cost is O(dataset size),
// which is acceptable for a support-chat history and keeps durability
// synchronous: a mutating call does not return until the snapshot is on disk.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger

	conversations map[string]*chat.Conversation
	messages      map[string][]chat.Message
}

// snapshot is the on-disk layout of the store.
type snapshot struct {
	Conversations []chat.Conversation `json:"conversations"`
	Messages      []chat.Message      `json:"messages"`
}

// OpenFileStore loads the snapshot at path if one exists. An unreadable or
// corrupt snapshot is logged and replaced by an empty store; losing a broken
// file is preferable to refusing to start.
func OpenFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &FileStore{
		path:          path,
		logger:        logger,
		conversations: make(map[string]*chat.Conversation),
		messages:      make(map[string][]chat.Message),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Info("no snapshot found, starting with empty store", slog.String("path", path))
		return s, nil
	}
	if err != nil {
		logger.Warn("could not read snapshot, starting with empty store",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return s, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("could not parse snapshot, starting with empty store",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return s, nil
	}

	for i := range snap.Conversations {
		conv := snap.Conversations[i]
		s.conversations[conv.ID] = &conv
	}
	for _, msg := range snap.Messages {
		s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], msg)
	}
	for id := range s.messages {
		sortByTimestamp(s.messages[id])
	}

	logger.Info("loaded snapshot",
		slog.String("path", path),
		slog.Int("conversations", len(s.conversations)),
	)

	return s, nil
}

// CreateConversation inserts a conversation row and flushes.
func (s *FileStore) CreateConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; ok {
		return nil, fmt.Errorf("conversation %s: %w", id, chat.ErrConversationExists)
	}

	now := time.Now().UTC()
	conv := &chat.Conversation{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[id] = conv

	if err := s.saveLocked(); err != nil {
		delete(s.conversations, id)
		return nil, err
	}

	out := *conv
	return &out, nil
}

// GetConversation is a point lookup by id.
func (s *FileStore) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, chat.ErrConversationNotFound)
	}

	out := *conv
	return &out, nil
}

// TouchConversation bumps UpdatedAt and flushes.
func (s *FileStore) TouchConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchLocked(id)
}

func (s *FileStore) touchLocked(id string) error {
	conv, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("conversation %s: %w", id, chat.ErrConversationNotFound)
	}
	conv.UpdatedAt = time.Now().UTC()
	return s.saveLocked()
}

// CreateMessage inserts a message, touches the parent conversation,
// and flushes once for both changes.
func (s *FileStore) CreateMessage(ctx context.Context, id, conversationID string, sender chat.Sender, text string) (*chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, chat.ErrConversationNotFound)
	}

	now := time.Now().UTC()
	msg := chat.Message{
		ID:             id,
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      now,
	}

	s.messages[conversationID] = append(s.messages[conversationID], msg)
	conv.UpdatedAt = now

	if err := s.saveLocked(); err != nil {
		msgs := s.messages[conversationID]
		s.messages[conversationID] = msgs[:len(msgs)-1]
		return nil, err
	}

	out := msg
	return &out, nil
}

// ListMessages returns the full transcript in ascending timestamp order.
func (s *FileStore) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]chat.Message, len(s.messages[conversationID]))
	copy(msgs, s.messages[conversationID])
	sortByTimestamp(msgs)
	return msgs, nil
}

// RecentMessages returns the newest limit messages, ascending.
func (s *FileStore) RecentMessages(ctx context.Context, conversationID string, limit int) ([]chat.Message, error) {
	msgs, err := s.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// Ping always succeeds once the store is open.
func (s *FileStore) Ping(ctx context.Context) error {
	return nil
}

// Close writes a final snapshot.
func (s *FileStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked rewrites the whole dataset. The caller must hold mu.
// A write failure breaks the durability contract and is surfaced to the
// caller as a StorageError.
func (s *FileStore) saveLocked() error {
	snap := snapshot{
		Conversations: make([]chat.Conversation, 0, len(s.conversations)),
		Messages:      make([]chat.Message, 0),
	}
	for _, conv := range s.conversations {
		snap.Conversations = append(snap.Conversations, *conv)
	}
	for _, msgs := range s.messages {
		snap.Messages = append(snap.Messages, msgs...)
	}
	sort.Slice(snap.Conversations, func(i, j int) bool {
		return snap.Conversations[i].ID < snap.Conversations[j].ID
	})
	sortByTimestamp(snap.Messages)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &chat.StorageError{Op: "encode snapshot", Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &chat.StorageError{Op: "create data directory", Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &chat.StorageError{Op: "write snapshot", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &chat.StorageError{Op: "replace snapshot", Err: err}
	}

	return nil
}

func sortByTimestamp(msgs []chat.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}
