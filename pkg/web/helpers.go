package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// MediaTypeJSON is the only media type accepted for request bodies.
const MediaTypeJSON = "application/json"

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", MediaTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// ParseID extracts the integer {id} path parameter. On failure it writes a 400 response and returns false.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		raw = chi.URLParam(r, "id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %s", raw))
		return 0, false
	}
	return id, true
}

// RequireContentType checks that the Content-Type header equals mediaType exactly.
// Otherwise it writes a 415 response and returns false.
func RequireContentType(w http.ResponseWriter, r *http.Request, logger *slog.Logger, mediaType string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == mediaType {
		return true
	}
	if contentType == "" {
		logger.ErrorContext(r.Context(), "No Content-Type specified")
	} else {
		logger.ErrorContext(r.Context(), "Invalid Content-Type", "content_type", contentType)
	}
	RespondError(w, logger, http.StatusUnsupportedMediaType, fmt.Sprintf("Content-Type must be %s", mediaType))
	return false
}

// AbsoluteURL builds an absolute URL for path on the host the request was addressed to.
func AbsoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, path)
}
