package httpapi

import (
	"errors"
	"net/http"

	"github.com/techstyle/support-chat/internal/chat"
	"github.com/techstyle/support-chat/internal/llm"
	"github.com/techstyle/support-chat/internal/validate"
)

// ErrorResponse is the body returned on every error path. Messages are
// human-readable and never include provider-internal detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// errorToResponse maps any error surfaced by the core onto an HTTP status
// and a structured body.
func errorToResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, validate.ErrEmptyMessage):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Error",
			Message: "Message cannot be empty",
			Code:    "VALIDATION_ERROR",
		}
	case errors.Is(err, validate.ErrMessageTooLong):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Error",
			Message: "Message cannot exceed 2000 characters",
			Code:    "VALIDATION_ERROR",
		}
	case errors.Is(err, validate.ErrEmptyAfterSanitize):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Error",
			Message: "Message cannot be empty after sanitization",
			Code:    "EMPTY_MESSAGE",
		}
	case errors.Is(err, validate.ErrInvalidSessionID):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Validation Error",
			Message: "Invalid session ID format",
			Code:    "INVALID_SESSION_ID",
		}
	case errors.Is(err, chat.ErrConversationNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: "Conversation not found",
			Code:    "CONVERSATION_NOT_FOUND",
		}
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return llmErr.Status, ErrorResponse{
			Error:   "AI Service Error",
			Message: llmErr.Message,
			Code:    string(llmErr.Code),
		}
	}

	var storageErr *chat.StorageError
	if errors.As(err, &storageErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Storage Error",
			Message: "Failed to persist conversation data. Please try again later.",
			Code:    "STORAGE_ERROR",
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal Server Error",
		Message: "An unexpected error occurred. Please try again later.",
		Code:    "INTERNAL_ERROR",
	}
}
