package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techstyle/support-chat/internal/chat"
)

// newChatHandler handles POST /chat/message.
func newChatHandler(process chat.ProcessFn, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chat.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid JSON in request body",
				Code:    "INVALID_JSON",
			})
			return
		}

		result, err := process(r.Context(), req)
		if err != nil {
			logger.Error("failed to process chat message",
				slog.String("request_id", getRequestID(r.Context())),
				slog.String("error", err.Error()),
			)
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// newHistoryHandler handles GET /chat/history/{sessionID}.
func newHistoryHandler(history chat.HistoryFn, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		transcript, err := history(r.Context(), sessionID)
		if err != nil {
			logger.Warn("failed to fetch history",
				slog.String("request_id", getRequestID(r.Context())),
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, transcript)
	}
}

// newConversationHandler handles POST /chat/new.
func newConversationHandler(create chat.NewConversationFn, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv, err := create(r.Context())
		if err != nil {
			logger.Error("failed to create conversation",
				slog.String("request_id", getRequestID(r.Context())),
				slog.String("error", err.Error()),
			)
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"sessionId": conv.ID,
			"message":   "New conversation started",
		})
	}
}

// HealthResponse reports overall and per-service health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// newHealthHandler handles GET /health. The response degrades to 503 when
// the LLM provider is unreachable; the API itself stays up.
func newHealthHandler(gen chat.Generator, st chat.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		llmHealthy := gen.CheckHealth(r.Context())
		dbHealthy := st.Ping(r.Context()) == nil

		services := map[string]string{
			"api":      "healthy",
			"database": healthWord(dbHealthy),
			"llm":      healthWord(llmHealthy),
		}

		status := "healthy"
		httpStatus := http.StatusOK
		if !llmHealthy || !dbHealthy {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		respondJSON(w, httpStatus, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Services:  services,
		})
	}
}

// newIndexHandler handles GET /, describing the service surface.
func newIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"name":        "AI Support Agent API",
			"version":     "1.0.0",
			"description": "Backend API for TechStyle AI Live Chat Support",
			"endpoints": map[string]any{
				"health": "GET /health",
				"chat": map[string]string{
					"sendMessage":     "POST /chat/message",
					"getHistory":      "GET /chat/history/:sessionId",
					"newConversation": "POST /chat/new",
				},
			},
		})
	}
}

// notFoundHandler returns a structured body for unknown routes.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "Not Found",
		Message: "Route " + r.Method + " " + r.URL.Path + " not found",
		Code:    "NOT_FOUND",
	})
}

func healthWord(ok bool) string {
	if ok {
		return "healthy"
	}
	return "unhealthy"
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	status, body := errorToResponse(err)
	respondJSON(w, status, body)
}
