package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"channel-catalog/internal/logging"
	youtubeservice "channel-catalog/internal/platforms/youtube/service"
)

const quotaExceededMessage = "YouTube API quota exceeded"

type errorResponse struct {
	Error string `json:"error"`
}

func isGetRequest(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps service errors onto HTTP statuses. action names the
// failed operation in the generic 500 message and the log line.
func respondError(w http.ResponseWriter, logger logging.Logger, action string, err error) {
	switch {
	case errors.Is(err, youtubeservice.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, youtubeservice.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, youtubeservice.ErrQuotaExceeded):
		if logger != nil {
			logger.Printf("%s: %v", action, err)
		}
		writeError(w, http.StatusInternalServerError, quotaExceededMessage)
	default:
		if logger != nil {
			logger.Printf("%s: %v", action, err)
		}
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func notConfigured(what string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, what+" not configured")
	})
}

// firstQueryValue returns the first non-blank value among the named query parameters.
func firstQueryValue(r *http.Request, names ...string) string {
	query := r.URL.Query()
	for _, name := range names {
		if v := strings.TrimSpace(query.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
