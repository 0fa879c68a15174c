package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aledsz/pluginfield4/pkg/procon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type recorder struct {
	mu   sync.Mutex
	got  []procon.Notification
	errs map[string]error
}

func (r *recorder) handle(n procon.Notification) error {
	if err, ok := r.errs[n.Event]; ok {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return nil
}

func newTestServer(t *testing.T, errs map[string]error) (*Server, *recorder) {
	t.Helper()
	rec := &recorder{errs: errs}
	return New(rec.handle, nopLogger{}, WithStatus(func() bool { return false })), rec
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNotify_Accepted(t *testing.T) {
	s, rec := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/notify/OnTeamChat", `["Alice","hi",1]`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, `["ok","OnTeamChat"]`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	require.Len(t, rec.got, 1)
	assert.Equal(t, "OnTeamChat", rec.got[0].Event)
	assert.Len(t, rec.got[0].Args, 3)
}

func TestNotify_EmptyBody(t *testing.T) {
	s, rec := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/notify/OnLevelStarted", "")

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, rec.got, 1)
	assert.Empty(t, rec.got[0].Args)
}

func TestNotify_BadJSON(t *testing.T) {
	s, rec := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/notify/OnPlayerJoin", `{"not":"an array"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error","OnPlayerJoin"`)
	assert.Empty(t, rec.got)
}

func TestNotify_HandlerErrors(t *testing.T) {
	s, _ := newTestServer(t, map[string]error{
		"OnNope":       fmt.Errorf("%w: OnNope", procon.ErrUnknownEvent),
		"OnPlayerJoin": fmt.Errorf("%w: OnPlayerJoin", procon.ErrNotRegistered),
		"OnTeamChat":   fmt.Errorf("want 3 arguments, got 1"),
	})

	assert.Equal(t, http.StatusNotFound, do(s, http.MethodPost, "/notify/OnNope", `[]`).Code)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodPost, "/notify/OnPlayerJoin", `["A"]`).Code)

	w := do(s, http.MethodPost, "/notify/OnTeamChat", `["A"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `["error","OnTeamChat","want 3 arguments, got 1"]`, w.Body.String())
}

func TestNotify_WrongMethod(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, do(s, http.MethodGet, "/notify/OnPlayerJoin", "").Code)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","enabled":false}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, nil)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
