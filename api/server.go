package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"themepainter/customizer"
	"themepainter/model"
	"themepainter/theme"
)

//go:embed static/preview.js
var previewScript []byte

const maxBodyBytes = 1 << 12

type valueRequest struct {
	Value string `json:"value"`
}

type settingResponse struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Value   string `json:"value"`
	Default string `json:"default"`
	Dark    bool   `json:"dark"`
}

type Server struct {
	manager  *theme.Manager
	theme    *theme.Handler
	ws       *WSConnectionManager
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func NewServer(manager *theme.Manager) *Server {
	return &Server{
		manager: manager,
		theme:   theme.NewHandler(manager),
		ws:      NewWSConnectionManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log.WithPrefix("api"),
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/styles.css", s.theme.HandleStyles)
	mux.HandleFunc("/api/head", s.theme.HandleHead)
	mux.HandleFunc("/api/preview", s.theme.HandlePreview)
	mux.HandleFunc("/api/preview/", s.handlePreviewValue)
	mux.HandleFunc("/api/controls", s.handleControls)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/settings/", s.handleSettingByID)
	mux.HandleFunc("/api/live", s.handleLive)
	mux.HandleFunc("/preview.js", s.handlePreviewScript)
}

// Reload swaps in a new configuration tree and tells live clients to refetch
// their templates.
func (s *Server) Reload(tree *model.ConfigTree) error {
	if err := s.manager.Load(tree); err != nil {
		return err
	}
	s.ws.Broadcast(map[string]interface{}{"type": "reload"})
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":       "ok",
		"colors":       s.manager.Colors().Len(),
		"live_clients": s.ws.Len(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---------- controls ----------

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	manifest := customizer.NewManifest()
	if err := customizer.Register(s.manager.Tree(), manifest); err != nil {
		s.fail(w, "register controls", err)
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

// ---------- settings ----------

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	values, err := s.manager.Values()
	if err != nil {
		s.fail(w, "resolve settings", err)
		return
	}

	resp := make([]settingResponse, 0, len(values))
	for _, def := range s.manager.Colors().All() {
		resp = append(resp, newSettingResponse(def, values[def.ID]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSettingByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/settings/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		def, ok := s.manager.Colors().Get(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		value, err := s.manager.Value(id)
		if err != nil {
			s.fail(w, "resolve setting", err)
			return
		}
		writeJSON(w, http.StatusOK, newSettingResponse(def, value))

	case http.MethodPut:
		req, err := decodeValue(r)
		if err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if err := s.manager.SetValue(id, req.Value); err != nil {
			s.fail(w, "save setting", err)
			return
		}
		s.broadcastStyles()
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := s.manager.ResetValue(id); err != nil {
			s.fail(w, "reset setting", err)
			return
		}
		s.broadcastStyles()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newSettingResponse(def model.ColorDefinition, value string) settingResponse {
	dark, _ := theme.IsColorDark(value, theme.DarkLimit)
	return settingResponse{
		ID:      def.ID,
		Key:     theme.SettingKey(def.ID),
		Value:   value,
		Default: def.Default,
		Dark:    dark,
	}
}

// ---------- live preview ----------

// handlePreviewValue renders an unsaved value and pushes it to live clients.
// Nothing is persisted and the style cache is not touched.
func (s *Server) handlePreviewValue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/preview/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	req, err := decodeValue(r)
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	css, err := s.manager.Preview(id, req.Value)
	if err != nil {
		s.fail(w, "preview setting", err)
		return
	}

	msg := map[string]interface{}{
		"type": "preview",
		"key":  theme.SettingKey(id),
		"css":  css,
	}
	s.ws.Broadcast(msg)
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}
	s.ws.Add(conn)
	defer func() {
		s.ws.Remove(conn)
		_ = conn.Close()
	}()

	templates, err := s.manager.PreviewTemplates()
	if err != nil {
		s.logger.Error("build preview templates", "err", err)
		return
	}
	hello := map[string]interface{}{
		"type":        "hello",
		"placeholder": theme.Placeholder,
		"templates":   templates.Export(),
	}
	if err := s.ws.WriteJSON(conn, hello); err != nil {
		return
	}

	// Clients only listen; reading keeps control frames flowing and detects
	// the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handlePreviewScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(previewScript)
}

func (s *Server) broadcastStyles() {
	css, err := s.manager.Stylesheet()
	if err != nil {
		s.logger.Error("compile styles for broadcast", "err", err)
		return
	}
	s.ws.Broadcast(map[string]interface{}{
		"type": "styles",
		"id":   theme.StyleElementID(s.manager.Handle()),
		"css":  css,
	})
}

// ---------- helpers ----------

func decodeValue(r *http.Request) (valueRequest, error) {
	var req valueRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return valueRequest{}, err
	}
	return req, nil
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	status := theme.StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(what, "err", err)
	}
	msg := what + " failed"
	var de *theme.DefinitionError
	if status < http.StatusInternalServerError || errors.As(err, &de) {
		msg = err.Error()
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("writeJSON", "err", err)
	}
}
