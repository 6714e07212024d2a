// Package postgres implements chat.Store on PostgreSQL for deployments
// that outgrow the single-file snapshot store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techstyle/support-chat/internal/chat"
)

// Store implements chat.Store with pgx.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL-backed store on an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the schema. Safe to run against an initialized database.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			metadata TEXT
		);

		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL REFERENCES conversations(id),
			sender TEXT NOT NULL CHECK (sender IN ('user', 'ai')),
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation_id);
		CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at);
	`)
	if err != nil {
		return &chat.StorageError{Op: "migrate", Err: err}
	}
	return nil
}

func (s *Store) CreateConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (id, created_at, updated_at) VALUES ($1, $2, $3)`,
		id, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("conversation %s: %w", id, chat.ErrConversationExists)
		}
		return nil, &chat.StorageError{Op: "insert conversation", Err: err}
	}

	return &chat.Conversation{ID: id, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *Store) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, created_at, updated_at, COALESCE(metadata, '') FROM conversations WHERE id = $1`,
		id,
	)

	var conv chat.Conversation
	err := row.Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt, &conv.Metadata)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("conversation %s: %w", id, chat.ErrConversationNotFound)
	}
	if err != nil {
		return nil, &chat.StorageError{Op: "scan conversation", Err: err}
	}

	return &conv, nil
}

func (s *Store) TouchConversation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE conversations SET updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return &chat.StorageError{Op: "touch conversation", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", id, chat.ErrConversationNotFound)
	}
	return nil
}

// CreateMessage inserts the message and touches the parent conversation in
// one transaction, so a transcript never gains a row without the bumped
// updated_at.
func (s *Store) CreateMessage(ctx context.Context, id, conversationID string, sender chat.Sender, text string) (*chat.Message, error) {
	now := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &chat.StorageError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, sender, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, conversationID, string(sender), text, now,
	)
	if err != nil {
		return nil, &chat.StorageError{Op: "insert message", Err: err}
	}

	tag, err := tx.Exec(ctx,
		`UPDATE conversations SET updated_at = $1 WHERE id = $2`,
		now, conversationID,
	)
	if err != nil {
		return nil, &chat.StorageError{Op: "touch conversation", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, chat.ErrConversationNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &chat.StorageError{Op: "commit message", Err: err}
	}

	return &chat.Message{
		ID:             id,
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      now,
	}, nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, sender, text, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, &chat.StorageError{Op: "query messages", Err: err}
	}
	defer rows.Close()

	return scanMessages(rows)
}

// RecentMessages fetches the newest limit rows descending, then reverses
// them so callers always see ascending timestamp order.
func (s *Store) RecentMessages(ctx context.Context, conversationID string, limit int) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, sender, text, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at DESC LIMIT $2`,
		conversationID, limit,
	)
	if err != nil {
		return nil, &chat.StorageError{Op: "query recent messages", Err: err}
	}
	defer rows.Close()

	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &chat.StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

func scanMessages(rows pgx.Rows) ([]chat.Message, error) {
	msgs := make([]chat.Message, 0)
	for rows.Next() {
		var msg chat.Message
		var sender string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &sender, &msg.Text, &msg.Timestamp); err != nil {
			return nil, &chat.StorageError{Op: "scan message", Err: err}
		}
		msg.Sender = chat.Sender(sender)
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, &chat.StorageError{Op: "iterate messages", Err: err}
	}
	return msgs, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
