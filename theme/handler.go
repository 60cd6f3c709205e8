package theme

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
)

// Handler serves compiled styles and preview templates over HTTP.
type Handler struct {
	manager *Manager
	logger  *log.Logger
}

// NewHandler creates a new theme handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
		logger:  log.WithPrefix("theme"),
	}
}

// HandleStyles serves the compiled stylesheet.
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	css, err := h.manager.Stylesheet()
	if err != nil {
		h.fail(w, "compile styles", err)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(css))
}

// HandleHead serves the style block to place in the document head. With
// ?preview=1 the live preview client script is appended when configured.
func (h *Handler) HandleHead(w http.ResponseWriter, r *http.Request) {
	block, err := h.manager.Head()
	if err != nil {
		h.fail(w, "render head", err)
		return
	}
	if r.URL.Query().Get("preview") == "1" {
		block += PreviewScriptTag(h.manager.Tree().LibURL)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(block))
}

// HandlePreview returns the live preview templates keyed by setting key.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	templates, err := h.manager.PreviewTemplates()
	if err != nil {
		h.fail(w, "build preview templates", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(templates.Export()); err != nil {
		http.Error(w, "failed to encode templates", http.StatusInternalServerError)
		return
	}
}

func (h *Handler) fail(w http.ResponseWriter, what string, err error) {
	h.logger.Error(what, "err", err)
	http.Error(w, what+" failed", StatusCode(err))
}

// StatusCode maps engine errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidColor):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownColor):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
