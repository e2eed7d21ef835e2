// Package proxy relays raw Codeforces API calls for browser clients that
// cannot reach the API directly because of CORS.
package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const Path = "/api/"

var methodName = regexp.MustCompile(`^[a-zA-Z.]+$`)

type Relayer interface {
	Relay(ctx context.Context, method, rawQuery string) (int, []byte, error)
}

type Handler struct {
	client Relayer
	logger zerolog.Logger
}

func NewHandler(client Relayer, logger zerolog.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

// ServeHTTP forwards GET /api/{method}?{query} and answers with the upstream
// status and body untouched.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", r.Method)
		return
	}

	method := strings.TrimPrefix(r.URL.Path, Path)
	if !methodName.MatchString(method) {
		writeError(w, http.StatusBadRequest, "invalid api method", method)
		return
	}

	start := time.Now()
	status, body, err := h.client.Relay(r.Context(), method, r.URL.RawQuery)
	if err != nil {
		h.logger.Error().Err(err).Str("api_method", method).Msg("relay failed")
		writeError(w, http.StatusInternalServerError, "Proxy error", err.Error())
		return
	}

	h.logger.Debug().
		Str("api_method", method).
		Int("status", status).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("relayed")

	if json.Valid(body) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", http.DetectContentType(body))
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "details": details})
}
