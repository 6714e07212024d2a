// Package httpapi exposes the chat core over HTTP.
package httpapi

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/techstyle/support-chat/internal/chat"
)

// Deps are the collaborators the router exposes.
type Deps struct {
	Process         chat.ProcessFn
	History         chat.HistoryFn
	NewConversation chat.NewConversationFn
	Generator       chat.Generator
	Store           chat.Store
	Logger          *slog.Logger
}

// Options configure the HTTP surface around the core.
type Options struct {
	AllowedOrigins     []string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func (o Options) withDefaults() Options {
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 60 * time.Second
	}
	if o.MaxRequestBodySize <= 0 {
		o.MaxRequestBodySize = 10 * 1024
	}
	return o
}

// NewRouter creates the chi router with the full middleware stack and routes.
func NewRouter(deps Deps, opts Options) *chi.Mux {
	opts = opts.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(recoveryMiddleware(logger))
	r.Use(loggingMiddleware(logger))
	r.Use(chimiddleware.RealIP)
	r.Use(timeoutMiddleware(opts.RequestTimeout))
	r.Use(bodySizeLimitMiddleware(opts.MaxRequestBodySize))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", newIndexHandler())
	r.Get("/health", newHealthHandler(deps.Generator, deps.Store))

	r.Route("/chat", func(r chi.Router) {
		r.Post("/message", newChatHandler(deps.Process, logger))
		r.Get("/history/{sessionID}", newHistoryHandler(deps.History, logger))
		r.Post("/new", newConversationHandler(deps.NewConversation, logger))
	})

	r.NotFound(notFoundHandler)

	return r
}
