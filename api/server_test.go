package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"themepainter/model"
	"themepainter/storage"
	"themepainter/theme"
)

func testTree() *model.ConfigTree {
	return &model.ConfigTree{
		Stylesheet: "main",
		Colors: model.Colors{
			{ID: "link", Default: "#0000ff", Selectors: model.Strings{"a"}, Attributes: model.Strings{"color"}},
			{ID: "footer_bg", Section: "footer", Default: "#ffffff", Selectors: model.Strings{"footer"}, Attributes: model.Strings{"background-color"}},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	manager, err := theme.NewManager(testTree(), storage.NewMemory(), storage.NewMemory(), nil)
	require.NoError(t, err)

	s := NewServer(manager)
	mux := http.NewServeMux()
	s.Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSettingsLifecycle(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/settings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]settingResponse](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, settingResponse{ID: "link", Key: "setting_link", Value: "#0000ff", Default: "#0000ff", Dark: true}, list[0])
	assert.False(t, list[1].Dark)

	resp = do(t, http.MethodGet, ts.URL+"/styles.css", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/settings/link", `{"value":"#ff0000"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/settings/link", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "#ff0000", decode[settingResponse](t, resp).Value)

	resp = do(t, http.MethodGet, ts.URL+"/styles.css", "")
	css := readAll(t, resp)
	assert.Equal(t, "a{color:#ff0000}", css)

	resp = do(t, http.MethodDelete, ts.URL+"/api/settings/link", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, ts.URL+"/styles.css", "")
	assert.Empty(t, readAll(t, resp))
}

func TestSettingsErrors(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPut, ts.URL+"/api/settings/link", `{"value":"red"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[map[string]string](t, resp)["error"], "invalid hex color")

	resp = do(t, http.MethodPut, ts.URL+"/api/settings/nope", `{"value":"#fff"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/settings/link", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/settings/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/settings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestControls(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/controls", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var manifest struct {
		Settings []struct {
			ID string `json:"id"`
		} `json:"settings"`
		Controls []struct {
			ID      string `json:"id"`
			Section string `json:"section"`
		} `json:"controls"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&manifest))
	require.Len(t, manifest.Controls, 2)
	assert.Equal(t, "setting_link", manifest.Settings[0].ID)
	assert.Equal(t, "colors", manifest.Controls[0].Section)
	assert.Equal(t, "footer", manifest.Controls[1].Section)
}

func TestLivePreview(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello struct {
		Type        string            `json:"type"`
		Placeholder string            `json:"placeholder"`
		Templates   map[string]string `json:"templates"`
	}
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "hello", hello.Type)
	assert.Equal(t, theme.Placeholder, hello.Placeholder)
	assert.Equal(t, "a{color:%value%}", hello.Templates["setting_link"])
	assert.Equal(t, 1, s.ws.Len())

	resp := do(t, http.MethodPost, ts.URL+"/api/preview/link", `{"value":"#00ff00"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg map[string]string
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, map[string]string{"type": "preview", "key": "setting_link", "css": "a{color:#00ff00}"}, msg)

	resp = do(t, http.MethodPut, ts.URL+"/api/settings/footer_bg", `{"value":"#000"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "styles", msg["type"])
	assert.Equal(t, "main-inline-css", msg["id"], "styles must replace the block rendered for the handle")
	assert.Equal(t, "footer{background-color:#000}", msg["css"])

	resp = do(t, http.MethodDelete, ts.URL+"/api/settings/footer_bg", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	msg = nil
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, map[string]string{"type": "styles", "id": "main-inline-css", "css": ""}, msg)

	require.NoError(t, s.Reload(&model.ConfigTree{}))
	msg = nil
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "reload", msg["type"])
}

func TestHealth(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var hello map[string]any
	require.NoError(t, conn.ReadJSON(&hello))

	resp := do(t, http.MethodGet, ts.URL+"/api/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","colors":2,"live_clients":1}`, readAll(t, resp))
}

func TestPreviewScript(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/preview.js", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	script := readAll(t, resp)
	assert.Contains(t, script, "themePainterPreview")
	assert.Contains(t, script, "clearPreviews()")
	assert.Contains(t, script, "msg.id")
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
