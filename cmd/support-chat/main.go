package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techstyle/support-chat/internal/chat"
	"github.com/techstyle/support-chat/internal/config"
	"github.com/techstyle/support-chat/internal/httpapi"
	"github.com/techstyle/support-chat/internal/knowledge"
	"github.com/techstyle/support-chat/internal/llm"
	"github.com/techstyle/support-chat/internal/llm/anthropic"
	"github.com/techstyle/support-chat/internal/store"
	"github.com/techstyle/support-chat/internal/store/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Error("failed to close store", slog.String("error", err.Error()))
		}
	}()

	kb, err := loadKnowledge(cfg, logger)
	if err != nil {
		return err
	}

	gen := newGenerator(cfg, kb.SystemPrompt(), logger)

	router := httpapi.NewRouter(
		httpapi.Deps{
			Process:         chat.NewService(st, gen, cfg.HistoryLimit, logger),
			History:         chat.NewHistoryService(st),
			NewConversation: chat.NewConversationService(st),
			Generator:       gen,
			Store:           st,
			Logger:          logger,
		},
		httpapi.Options{
			AllowedOrigins:     cfg.AllowedOrigins,
			RequestTimeout:     cfg.RequestTimeout,
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", server.Addr),
			slog.String("provider", string(cfg.Provider)),
			slog.String("storage", string(cfg.StorageBackend)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (chat.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st := postgres.New(pool)
		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}
		logger.Info("using postgres storage")
		return st, nil
	default:
		logger.Info("using file storage", slog.String("path", cfg.DatabasePath))
		return store.OpenFileStore(cfg.DatabasePath, logger)
	}
}

func loadKnowledge(cfg *config.Config, logger *slog.Logger) (*knowledge.Base, error) {
	if cfg.KnowledgePath == "" {
		return knowledge.Default(), nil
	}
	kb, err := knowledge.LoadFile(cfg.KnowledgePath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded knowledge base", slog.String("path", cfg.KnowledgePath))
	return kb, nil
}

func newGenerator(cfg *config.Config, systemPrompt string, logger *slog.Logger) chat.Generator {
	opts := llm.Options{
		Model:            cfg.Model,
		MaxTokens:        cfg.MaxTokens,
		Temperature:      0.7,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
		Timeout:          cfg.LLMTimeout,
	}

	if cfg.Provider == config.ProviderAnthropic {
		return anthropic.New(cfg.AnthropicAPIKey, systemPrompt, opts, logger)
	}
	return llm.NewOpenAIClient(cfg.OpenAIAPIKey, systemPrompt, opts, logger)
}
