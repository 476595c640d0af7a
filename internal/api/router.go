package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimline/internal/ratelimit"
)

// NewRouter registers every route and wraps the mux in the middleware chain:
// recovery, request log, request id, then rate limiting.
func NewRouter(h *ProceduresHandler, limiter *ratelimit.Limiter, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /submit-data", h.SubmitData)
	mux.HandleFunc("GET /get-data", h.GetData)
	mux.HandleFunc("PUT /update-data/{id}", h.UpdateData)
	mux.HandleFunc("DELETE /delete-data/{id}", h.DeleteData)
	mux.HandleFunc("GET /top-providers", h.TopProviders)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return Recovery(log)(
		Logger(log)(
			RequestID(
				RateLimit(limiter, log)(mux),
			),
		),
	)
}
