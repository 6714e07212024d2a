package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrConversationNotFound indicates the conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrConversationExists indicates a duplicate conversation id on create.
	ErrConversationExists = errors.New("conversation already exists")
)

// StorageError wraps a persistence read or flush failure. A failed flush
// means the durability contract was broken for that request; callers must
// treat it as fatal rather than assume a partial commit.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
