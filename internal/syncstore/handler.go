package syncstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"channel-catalog/internal/logging"
)

// MaxPayloadBytes caps the size of a stored sync value.
const MaxPayloadBytes = 1 << 20

// RevisionHeader carries the revision of the value returned by GET.
const RevisionHeader = "X-Sync-Revision"

// HandlerOptions configures the sync handler.
type HandlerOptions struct {
	Store  *Store
	Logger logging.Logger
}

type handler struct {
	store  *Store
	logger logging.Logger
}

// NewHandler serves GET/POST on the sync slot.
func NewHandler(opts HandlerOptions) http.Handler {
	if opts.Store == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusInternalServerError, "sync store not configured")
		})
	}
	h := &handler{store: opts.Store, logger: opts.Logger}
	return http.HandlerFunc(h.serveHTTP)
}

func (h *handler) serveHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.handleGet(w)
	case http.MethodPost, http.MethodPut:
		h.handlePost(w, r)
	default:
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodPost))
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *handler) handleGet(w http.ResponseWriter) {
	snap, err := h.store.Get()
	if errors.Is(err, ErrEmpty) {
		writeError(w, http.StatusNotFound, "no sync data stored")
		return
	}
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set(RevisionHeader, snap.Revision)
	w.Header().Set("Last-Modified", snap.UpdatedAt.Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snap.Data)
}

func (h *handler) handlePost(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "sync payload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	snap, err := h.store.Put(body)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if h.logger != nil {
		h.logger.Printf("sync value stored: revision=%s bytes=%d", snap.Revision, len(snap.Data))
	}
	writeJSON(w, http.StatusOK, struct {
		Revision  string    `json:"revision"`
		UpdatedAt time.Time `json:"updatedAt"`
	}{snap.Revision, snap.UpdatedAt})
}

func (h *handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		if h.logger != nil {
			h.logger.Printf("sync store: %v", err)
		}
		writeError(w, http.StatusInternalServerError, "failed to access sync store")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
