package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/techstyle/support-chat/internal/chat"
)

// OpenAIClient is the default Generator, backed by the OpenAI chat
// completions API.
type OpenAIClient struct {
	client       *openai.Client
	apiKey       string
	systemPrompt string
	opts         Options
	logger       *slog.Logger
}

// NewOpenAIClient creates an OpenAI-backed generator. A missing API key is
// not an error here; GenerateReply fails fast with CodeMissingAPIKey so the
// server can still start and report degraded health.
func NewOpenAIClient(apiKey, systemPrompt string, opts Options, logger *slog.Logger) *OpenAIClient {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Model == "" {
		opts.Model = openai.GPT3Dot5Turbo
	}

	return &OpenAIClient{
		client:       openai.NewClient(apiKey),
		apiKey:       apiKey,
		systemPrompt: systemPrompt,
		opts:         opts,
		logger:       logger,
	}
}

// GenerateReply sends the conversation to OpenAI and returns the trimmed
// completion text.
func (c *OpenAIClient) GenerateReply(ctx context.Context, history []chat.Message, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", newError(CodeMissingAPIKey,
			"OpenAI API key is not configured. Please set OPENAI_API_KEY environment variable.",
			http.StatusInternalServerError, nil)
	}

	messages := c.buildMessages(history, userMessage)

	c.logger.Debug("creating chat completion",
		slog.String("model", c.opts.Model),
		slog.Int("history_len", len(history)),
		slog.Int("user_message_len", len(userMessage)),
	)

	ctx, cancel := c.opts.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            c.opts.Model,
		Messages:         messages,
		MaxTokens:        c.opts.MaxTokens,
		Temperature:      c.opts.Temperature,
		PresencePenalty:  c.opts.PresencePenalty,
		FrequencyPenalty: c.opts.FrequencyPenalty,
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", newError(CodeEmptyResponse,
			"No response generated from the AI. Please try again.",
			http.StatusInternalServerError, nil)
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)

	c.logger.Debug("chat completion successful",
		slog.String("model", c.opts.Model),
		slog.Int("response_len", len(reply)),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return reply, nil
}

// CheckHealth probes the provider with a lightweight models-list call.
func (c *OpenAIClient) CheckHealth(ctx context.Context) bool {
	if c.apiKey == "" {
		return false
	}

	ctx, cancel := c.opts.withTimeout(ctx)
	defer cancel()

	_, err := c.client.ListModels(ctx)
	return err == nil
}

// buildMessages assembles the provider message list: system prompt first,
// then history in chronological order, then the new user message.
func (c *OpenAIClient) buildMessages(history []chat.Message, userMessage string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: c.systemPrompt,
	})

	for _, msg := range history {
		role := openai.ChatMessageRoleAssistant
		if msg.Sender == chat.SenderUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Text,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	return messages
}

// mapOpenAIError folds provider failures into the closed taxonomy.
func mapOpenAIError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(CodeTimeout,
			"Request timed out. Please try again.",
			http.StatusGatewayTimeout, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return newError(CodeInvalidAPIKey,
				"Invalid API key. Please check your OpenAI API key configuration.",
				http.StatusUnauthorized, err)
		case http.StatusTooManyRequests:
			return newError(CodeRateLimit,
				"Rate limit exceeded. Please wait a moment and try again.",
				http.StatusTooManyRequests, err)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return newError(CodeServiceUnavailable,
				"OpenAI service is temporarily unavailable. Please try again later.",
				http.StatusServiceUnavailable, err)
		default:
			status := apiErr.HTTPStatusCode
			if status == 0 {
				status = http.StatusInternalServerError
			}
			return newError(CodeAPIError,
				fmt.Sprintf("OpenAI API error: %s", apiErr.Message),
				status, err)
		}
	}

	return newError(CodeAPIError,
		"An unexpected error occurred while generating the response. Please try again.",
		http.StatusInternalServerError, err)
}
