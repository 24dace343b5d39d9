package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stackcalc"
	"github.com/aretw0/stackcalc/pkg/adapters/memory"
	"github.com/aretw0/stackcalc/pkg/commands"
	"github.com/aretw0/stackcalc/pkg/observability"
	"github.com/aretw0/stackcalc/pkg/registry"
	"github.com/aretw0/stackcalc/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (http.Handler, *observability.Metrics) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, commands.RegisterCore(reg))
	metrics := observability.NewMetrics()
	return NewHandler(session.NewManager(memory.NewStore()), reg, WithMetrics(metrics)), metrics
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Stack)
	return resp.ID
}

func TestServer_SessionLifecycle(t *testing.T) {
	h, _ := newTestServer(t)
	id := createSession(t, h)

	for _, line := range []string{"2", "3", "+"} {
		w := do(t, h, http.MethodPost, "/sessions/"+id+"/lines", LineRequest{Line: line})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/lines", LineRequest{Line: "undo"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float64{2, 3}, resp.Stack)

	w = do(t, h, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float64{2, 3}, resp.Stack)

	w = do(t, h, http.MethodGet, "/sessions", nil)
	assert.Contains(t, w.Body.String(), id)

	w = do(t, h, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_EnterLine_Messages(t *testing.T) {
	h, _ := newTestServer(t)
	id := createSession(t, h)

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/lines", LineRequest{Line: "frobnicate"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Command frobnicate is not a known command"}, resp.Messages)
	assert.Empty(t, resp.Stack)
}

func TestServer_EnterLine_ProcedureOutsideScriptDir(t *testing.T) {
	root := t.TempDir()
	scripts := filepath.Join(root, "scripts")
	require.NoError(t, os.Mkdir(scripts, 0o755))
	secret := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("db_password=hunter2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "sq.txt"), []byte("dup\n*\n"), 0o644))

	reg := registry.New()
	require.NoError(t, commands.RegisterCore(reg))
	sessions := session.NewManager(memory.NewStore(),
		session.WithCalculatorOptions(stackcalc.WithScriptDir(scripts)))
	h := NewHandler(sessions, reg)
	id := createSession(t, h)

	for _, target := range []string{secret, "../secret.txt", "./../secret.txt"} {
		w := do(t, h, http.MethodPost, "/sessions/"+id+"/lines", LineRequest{Line: "proc:" + target})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hunter2", target)
		assert.Contains(t, w.Body.String(), "unavailable", target)
	}

	do(t, h, http.MethodPost, "/sessions/"+id+"/lines", LineRequest{Line: "3"})
	w := do(t, h, http.MethodPost, "/sessions/"+id+"/lines", LineRequest{Line: "proc:sq.txt"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float64{9}, resp.Stack)
}

func TestServer_EnterLine_UnknownSession(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, http.MethodPost, "/sessions/nope/lines", LineRequest{Line: "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_EnterLine_BadBody(t *testing.T) {
	h, _ := newTestServer(t)
	id := createSession(t, h)

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/lines", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/lines", LineRequest{Line: strings.Repeat("1", 1<<20)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Commands(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, http.MethodGet, "/commands", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []registry.Description
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	names := make([]string, 0, len(list))
	for _, d := range list {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "+")
	assert.Contains(t, names, "swap")
}

func TestServer_HealthAndMetrics(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", nil)
	assert.Contains(t, w.Body.String(), "stackcalc-http")

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stackcalc_stack_depth")
}

func TestServer_CORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s1")

	assert.Equal(t, 1, sm.Broadcast("s1", "hello"))
	assert.Equal(t, 0, sm.Broadcast("s2", "ignored"))

	select {
	case msg := <-ch:
		assert.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("expected message")
	}

	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, sm.Broadcast("s1", "late"))
}
