// Package validate holds the structural checks and text normalization
// applied to incoming chat input before it reaches storage or the LLM.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxMessageLength is the upper bound on message text, pre-sanitization.
	MaxMessageLength = 2000

	// MinMessageLength is the lower bound on message text.
	MinMessageLength = 1
)

var (
	// ErrEmptyMessage indicates a missing or zero-length message.
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrMessageTooLong indicates the message exceeds MaxMessageLength.
	ErrMessageTooLong = errors.New("message exceeds maximum length")

	// ErrEmptyAfterSanitize indicates sanitization reduced the message to nothing.
	ErrEmptyAfterSanitize = errors.New("message cannot be empty after sanitization")

	// ErrInvalidSessionID indicates the session identifier is not a v4 UUID.
	ErrInvalidSessionID = errors.New("invalid session ID format")
)

var whitespaceRuns = regexp.MustCompile(`\s{10,}`)

// Message validates and sanitizes raw chat input, returning the text as it
// should be persisted. Length is checked against the raw input; the
// emptiness-after-sanitization check is separate from the original emptiness
// check, so a whitespace-only message survives as a collapsed run rather
// than being rejected.
func Message(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(raw) > MaxMessageLength {
		return "", ErrMessageTooLong
	}

	sanitized := Sanitize(raw)
	if sanitized == "" {
		return "", ErrEmptyAfterSanitize
	}

	return sanitized, nil
}

// Sanitize strips embedded null characters and collapses runs of 10 or more
// whitespace characters down to exactly 10 spaces.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = whitespaceRuns.ReplaceAllString(s, strings.Repeat(" ", 10))
	return s
}

// SessionID reports whether id has canonical UUID-v4 textual shape. It says
// nothing about whether the conversation exists.
func SessionID(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	// uuid.Parse accepts several textual forms; only the canonical
	// hyphenated one is a valid session identifier.
	if len(id) != 36 {
		return false
	}
	return parsed.Version() == 4 && parsed.Variant() == uuid.RFC4122
}
