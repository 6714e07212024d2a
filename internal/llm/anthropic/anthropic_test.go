package anthropic

import (
	"context"
	"errors"
	"net/http"
	"testing"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/techstyle/support-chat/internal/chat"
	"github.com/techstyle/support-chat/internal/llm"
)

func TestGenerateReplyMissingKey(t *testing.T) {
	c := New("", "prompt", llm.Options{}, nil)

	_, err := c.GenerateReply(context.Background(), nil, "hello")

	var genErr *llm.Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *llm.Error, got: %v", err)
	}
	if genErr.Code != llm.CodeMissingAPIKey {
		t.Errorf("expected %s, got %s", llm.CodeMissingAPIKey, genErr.Code)
	}
}

func TestCheckHealthMissingKey(t *testing.T) {
	c := New("", "prompt", llm.Options{}, nil)
	if c.CheckHealth(context.Background()) {
		t.Error("expected unhealthy when no key is configured")
	}
}

func TestBuildMessages(t *testing.T) {
	c := New("key", "prompt", llm.Options{}, nil)

	history := []chat.Message{
		{Sender: chat.SenderUser, Text: "hi"},
		{Sender: chat.SenderAI, Text: "hello"},
	}
	messages := c.buildMessages(history, "next question")

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != anthropicsdk.MessageParamRoleUser {
		t.Errorf("expected user role first, got %s", messages[0].Role)
	}
	if messages[1].Role != anthropicsdk.MessageParamRoleAssistant {
		t.Errorf("expected assistant role second, got %s", messages[1].Role)
	}
	if messages[2].Role != anthropicsdk.MessageParamRoleUser {
		t.Errorf("expected the new message to be a user turn, got %s", messages[2].Role)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   llm.Code
		wantStatus int
	}{
		{
			name:       "deadline exceeded maps to timeout",
			err:        context.DeadlineExceeded,
			wantCode:   llm.CodeTimeout,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "401 maps to invalid key",
			err:        &anthropicsdk.Error{StatusCode: http.StatusUnauthorized},
			wantCode:   llm.CodeInvalidAPIKey,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "429 maps to rate limit",
			err:        &anthropicsdk.Error{StatusCode: http.StatusTooManyRequests},
			wantCode:   llm.CodeRateLimit,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "overloaded 529 maps to service unavailable",
			err:        &anthropicsdk.Error{StatusCode: 529},
			wantCode:   llm.CodeServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "plain error maps to generic api error",
			err:        errors.New("connection refused"),
			wantCode:   llm.CodeAPIError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError(tc.err)
			if got.Code != tc.wantCode {
				t.Errorf("expected code %s, got %s", tc.wantCode, got.Code)
			}
			if got.Status != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, got.Status)
			}
		})
	}
}
