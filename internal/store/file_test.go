package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/techstyle/support-chat/internal/chat"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "chat.json"), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

func TestFileStoreConversations(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get round-trip", func(t *testing.T) {
		s := newTestStore(t)

		created, err := s.CreateConversation(ctx, "conv-1")
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.CreatedAt != created.UpdatedAt {
			t.Errorf("expected createdAt == updatedAt on create")
		}

		got, err := s.GetConversation(ctx, "conv-1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != "conv-1" {
			t.Errorf("expected id conv-1, got %s", got.ID)
		}
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.CreateConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		_, err := s.CreateConversation(ctx, "conv-1")
		if !errors.Is(err, chat.ErrConversationExists) {
			t.Fatalf("expected ErrConversationExists, got: %v", err)
		}
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.GetConversation(ctx, "missing")
		if !errors.Is(err, chat.ErrConversationNotFound) {
			t.Fatalf("expected ErrConversationNotFound, got: %v", err)
		}
	})

	t.Run("touch bumps updatedAt", func(t *testing.T) {
		s := newTestStore(t)

		created, err := s.CreateConversation(ctx, "conv-1")
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		if err := s.TouchConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("touch failed: %v", err)
		}

		got, err := s.GetConversation(ctx, "conv-1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.UpdatedAt.Before(created.UpdatedAt) {
			t.Errorf("updatedAt went backwards: %v < %v", got.UpdatedAt, created.UpdatedAt)
		}
	})
}

func TestFileStoreMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("message round-trip", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.CreateConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}

		created, err := s.CreateMessage(ctx, "msg-1", "conv-1", chat.SenderUser, "hello")
		if err != nil {
			t.Fatalf("create message failed: %v", err)
		}

		msgs, err := s.ListMessages(ctx, "conv-1")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(msgs) != 1 {
			t.Fatalf("expected 1 message, got %d", len(msgs))
		}
		got := msgs[0]
		if got.ID != created.ID || got.Sender != created.Sender || got.Text != created.Text || !got.Timestamp.Equal(created.Timestamp) {
			t.Errorf("round-trip mismatch: %+v vs %+v", got, created)
		}
	})

	t.Run("message without conversation is rejected", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.CreateMessage(ctx, "msg-1", "missing", chat.SenderUser, "hello")
		if !errors.Is(err, chat.ErrConversationNotFound) {
			t.Fatalf("expected ErrConversationNotFound, got: %v", err)
		}
	})

	t.Run("messages come back in insertion order", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.CreateConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}

		texts := []string{"first", "second", "third", "fourth", "fifth"}
		for i, text := range texts {
			sender := chat.SenderUser
			if i%2 == 1 {
				sender = chat.SenderAI
			}
			if _, err := s.CreateMessage(ctx, text, "conv-1", sender, text); err != nil {
				t.Fatalf("create message failed: %v", err)
			}
		}

		msgs, err := s.ListMessages(ctx, "conv-1")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(msgs) != len(texts) {
			t.Fatalf("expected %d messages, got %d", len(texts), len(msgs))
		}
		for i, text := range texts {
			if msgs[i].Text != text {
				t.Errorf("position %d: expected %q, got %q", i, text, msgs[i].Text)
			}
		}
	})

	t.Run("recent messages returns the newest window ascending", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.CreateConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}
		for _, text := range []string{"a", "b", "c", "d", "e"} {
			if _, err := s.CreateMessage(ctx, text, "conv-1", chat.SenderUser, text); err != nil {
				t.Fatalf("create message failed: %v", err)
			}
		}

		msgs, err := s.RecentMessages(ctx, "conv-1", 3)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		if len(msgs) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(msgs))
		}
		for i, want := range []string{"c", "d", "e"} {
			if msgs[i].Text != want {
				t.Errorf("position %d: expected %q, got %q", i, want, msgs[i].Text)
			}
		}
	})

	t.Run("insert touches the parent conversation", func(t *testing.T) {
		s := newTestStore(t)

		conv, err := s.CreateConversation(ctx, "conv-1")
		if err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}

		msg, err := s.CreateMessage(ctx, "msg-1", "conv-1", chat.SenderUser, "hello")
		if err != nil {
			t.Fatalf("create message failed: %v", err)
		}

		got, err := s.GetConversation(ctx, "conv-1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.UpdatedAt.Before(conv.UpdatedAt) {
			t.Errorf("updatedAt went backwards after insert")
		}
		if got.UpdatedAt.Before(msg.Timestamp) {
			t.Errorf("updatedAt %v is older than the message timestamp %v", got.UpdatedAt, msg.Timestamp)
		}
	})

	t.Run("empty conversation lists no messages", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.CreateConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}

		msgs, err := s.ListMessages(ctx, "conv-1")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(msgs) != 0 {
			t.Errorf("expected no messages, got %d", len(msgs))
		}
	})
}

func TestFileStoreSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("data survives a reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chat.json")

		s, err := OpenFileStore(path, nil)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if _, err := s.CreateConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}
		if _, err := s.CreateMessage(ctx, "msg-1", "conv-1", chat.SenderUser, "hello"); err != nil {
			t.Fatalf("create message failed: %v", err)
		}
		if err := s.Close(ctx); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		reopened, err := OpenFileStore(path, nil)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		if _, err := reopened.GetConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("conversation lost across reopen: %v", err)
		}
		msgs, err := reopened.ListMessages(ctx, "conv-1")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(msgs) != 1 || msgs[0].Text != "hello" {
			t.Fatalf("messages lost across reopen: %+v", msgs)
		}
	})

	t.Run("snapshot is created inside a missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "chat.json")

		s, err := OpenFileStore(path, nil)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if _, err := s.CreateConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected snapshot file on disk: %v", err)
		}
	})

	t.Run("corrupt snapshot falls back to an empty store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chat.json")
		if err := os.WriteFile(path, []byte("not json{"), 0o644); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		s, err := OpenFileStore(path, nil)
		if err != nil {
			t.Fatalf("open should not fail on corrupt snapshot: %v", err)
		}

		_, err = s.GetConversation(ctx, "anything")
		if !errors.Is(err, chat.ErrConversationNotFound) {
			t.Fatalf("expected empty store, got: %v", err)
		}
	})
}
