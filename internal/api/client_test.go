// internal/api/client_test.go
package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", WithAPIKey("secret123"))

	require.NotNil(t, c)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
	assert.Equal(t, "secret123", c.APIKey())
	assert.NotNil(t, c.httpClient)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/")
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestNew_WithTimeout(t *testing.T) {
	c := New("http://localhost:5000", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestSendEvent_Request(t *testing.T) {
	var (
		gotMethod, gotPath, gotAuth, gotType, gotRequestID string
		gotBody                                            []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ignored"))
	}))
	defer server.Close()

	c := New(server.URL+"/", WithAPIKey("k"))
	body := `{"data":{"soldier_name":"Alice"}}`

	err := c.SendEvent(context.Background(), "OnPlayerJoin", body)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/events/OnPlayerJoin", gotPath)
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, body, string(gotBody))
	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err, "X-Request-ID should be a UUID")
}

func TestSendEvent_EmptyKeyStillSent(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	c := New(server.URL)
	require.NoError(t, c.SendEvent(context.Background(), "OnLevelStarted", `{"data":{}}`))
	assert.Equal(t, "Bearer", strings.TrimSpace(gotAuth))
}

func TestSendEvent_Non2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	before := testutil.ToFloat64(deliveries.WithLabelValues("OnBanAdded", "error"))

	err := c.SendEvent(context.Background(), "OnBanAdded", `{"data":{}}`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, before+1, testutil.ToFloat64(deliveries.WithLabelValues("OnBanAdded", "error")))
}

func TestSendEvent_Unreachable(t *testing.T) {
	c := New("http://localhost:59999") // unlikely to be listening
	err := c.SendEvent(context.Background(), "OnPlayerLeft", `{"data":{}}`)
	assert.Error(t, err)
}

func TestSendEvent_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := New(server.URL).SendEvent(ctx, "OnPlayerKilled", `{"data":{}}`)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendEvent_CountsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	before := testutil.ToFloat64(deliveries.WithLabelValues("OnCurrentLevel", "ok"))
	require.NoError(t, New(server.URL).SendEvent(context.Background(), "OnCurrentLevel", `{"data":{}}`))
	assert.Equal(t, before+1, testutil.ToFloat64(deliveries.WithLabelValues("OnCurrentLevel", "ok")))
}

func TestSetAPIKey_ConcurrentWithSends(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.Header.Get("Authorization")] = true
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, WithAPIKey("a"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.SendEvent(context.Background(), "OnGlobalChat", `{"data":{}}`)
		}()
		go func() {
			defer wg.Done()
			c.SetAPIKey("b")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for auth := range seen {
		assert.Contains(t, []string{"Bearer a", "Bearer b"}, auth)
	}
	assert.Equal(t, "b", c.APIKey())
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthcheck", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, New(server.URL).Healthcheck(context.Background()))
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Error(t, New(server.URL).Healthcheck(context.Background()))
}
