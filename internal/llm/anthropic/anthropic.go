// Package anthropic provides an Anthropic-backed reply generator, selected
// with LLM_PROVIDER=anthropic.
package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/techstyle/support-chat/internal/chat"
	"github.com/techstyle/support-chat/internal/llm"
)

const defaultModel = "claude-3-5-haiku-latest"

// Client implements chat.Generator for Anthropic's Messages API.
type Client struct {
	client       anthropic.Client
	apiKey       string
	systemPrompt string
	opts         llm.Options
	logger       *slog.Logger
}

// New creates an Anthropic-backed generator.
func New(apiKey, systemPrompt string, opts llm.Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}

	var clientOpts []option.RequestOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}

	return &Client{
		client:       anthropic.NewClient(clientOpts...),
		apiKey:       apiKey,
		systemPrompt: systemPrompt,
		opts:         opts,
		logger:       logger,
	}
}

// GenerateReply sends the conversation to Anthropic and returns the trimmed
// completion text.
func (c *Client) GenerateReply(ctx context.Context, history []chat.Message, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", &llm.Error{
			Code:    llm.CodeMissingAPIKey,
			Message: "Anthropic API key is not configured. Please set ANTHROPIC_API_KEY environment variable.",
			Status:  http.StatusInternalServerError,
		}
	}

	maxTokens := c.opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.opts.Model),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: c.systemPrompt},
		},
		Messages:    c.buildMessages(history, userMessage),
		Temperature: anthropic.Float(float64(c.opts.Temperature)),
	}

	c.logger.Debug("creating message",
		slog.String("model", c.opts.Model),
		slog.Int("history_len", len(history)),
	)

	callCtx, cancel := contextWithTimeout(ctx, c.opts)
	defer cancel()

	resp, err := c.client.Messages.New(callCtx, params)
	if err != nil {
		return "", mapError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	reply := strings.TrimSpace(text.String())
	if reply == "" {
		return "", &llm.Error{
			Code:    llm.CodeEmptyResponse,
			Message: "No response generated from the AI. Please try again.",
			Status:  http.StatusInternalServerError,
		}
	}

	return reply, nil
}

// CheckHealth probes the provider with a lightweight model-listing call.
func (c *Client) CheckHealth(ctx context.Context) bool {
	if c.apiKey == "" {
		return false
	}

	callCtx, cancel := contextWithTimeout(ctx, c.opts)
	defer cancel()

	_, err := c.client.Models.List(callCtx, anthropic.ModelListParams{})
	return err == nil
}

// buildMessages maps the stored transcript to Anthropic turns. The system
// prompt travels separately as a top-level parameter.
func (c *Client) buildMessages(history []chat.Message, userMessage string) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(history)+1)

	for _, msg := range history {
		block := anthropic.NewTextBlock(msg.Text)
		if msg.Sender == chat.SenderUser {
			messages = append(messages, anthropic.NewUserMessage(block))
		} else {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		}
	}

	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)))

	return messages
}

func contextWithTimeout(ctx context.Context, opts llm.Options) (context.Context, context.CancelFunc) {
	if opts.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, opts.Timeout)
}

// mapError folds Anthropic API failures into the shared taxonomy.
func mapError(err error) *llm.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &llm.Error{
			Code:    llm.CodeTimeout,
			Message: "Request timed out. Please try again.",
			Status:  http.StatusGatewayTimeout,
			Err:     err,
		}
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return &llm.Error{
				Code:    llm.CodeInvalidAPIKey,
				Message: "Invalid API key. Please check your Anthropic API key configuration.",
				Status:  http.StatusUnauthorized,
				Err:     err,
			}
		case http.StatusTooManyRequests:
			return &llm.Error{
				Code:    llm.CodeRateLimit,
				Message: "Rate limit exceeded. Please wait a moment and try again.",
				Status:  http.StatusTooManyRequests,
				Err:     err,
			}
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, 529:
			return &llm.Error{
				Code:    llm.CodeServiceUnavailable,
				Message: "Anthropic service is temporarily unavailable. Please try again later.",
				Status:  http.StatusServiceUnavailable,
				Err:     err,
			}
		default:
			status := apiErr.StatusCode
			if status == 0 {
				status = http.StatusInternalServerError
			}
			return &llm.Error{
				Code:    llm.CodeAPIError,
				Message: "Anthropic API error: " + apiErr.Error(),
				Status:  status,
				Err:     err,
			}
		}
	}

	return &llm.Error{
		Code:    llm.CodeAPIError,
		Message: "An unexpected error occurred while generating the response. Please try again.",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
