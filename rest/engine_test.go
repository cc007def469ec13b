package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	e, err := New(srv.URL, "dgo-test", nil)
	require.NoError(t, err)

	resp, err := e.Do(context.Background(), http.MethodGet, "/channels/1", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestDo204ReturnsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e, err := New(srv.URL, "dgo-test", nil)
	require.NoError(t, err)

	resp, err := e.Do(context.Background(), http.MethodDelete, "/channels/1", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)
	assert.Empty(t, resp.Body)
}

func TestDoHTTPErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"missing"}`))
	}))
	defer srv.Close()

	e, err := New(srv.URL, "dgo-test", nil)
	require.NoError(t, err)

	_, err = e.Do(context.Background(), http.MethodGet, "/channels/1", "", nil)
	require.Error(t, err)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Status)
}

// TestDoGlobal429WithRetryAfterUnblocksAndSucceeds exercises the
// X-RateLimit-Global branch of update_bucket (spec §4.4), which is the one
// branch where Retry-After actually gates the sleep duration.
func TestDoGlobal429WithRetryAfterUnblocksAndSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.Header().Set("X-RateLimit-Global", "true")
			w.Header().Set("Retry-After", "200")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	e, err := New(srv.URL, "dgo-test", nil)
	require.NoError(t, err)

	start := time.Now()
	resp, err := e.Do(context.Background(), http.MethodGet, "/channels/1", "", nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(5))
}

// TestDo429WithoutHeadersFallsBackToOneSecond exercises the "no headers"
// 429 branch, which the spec pins to a flat one-second sleep regardless of
// any Retry-After value (spec §4.4).
func TestDo429WithoutHeadersFallsBackToOneSecond(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	e, err := New(srv.URL, "dgo-test", nil)
	require.NoError(t, err)

	start := time.Now()
	resp, err := e.Do(context.Background(), http.MethodGet, "/channels/1", "", nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.GreaterOrEqual(t, elapsed, time.Second)
}

func TestDoRedirectFollowedInsideBase(t *testing.T) {
	var hitTarget bool
	mux := http.NewServeMux()
	mux.HandleFunc("/channels/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/channels/2")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/channels/2", func(w http.ResponseWriter, r *http.Request) {
		hitTarget = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e, err := New(srv.URL, "dgo-test", nil)
	require.NoError(t, err)

	_, err = e.Do(context.Background(), http.MethodGet, "/channels/1", "", nil)
	require.NoError(t, err)
	assert.True(t, hitTarget)
}

func TestDoRedirectOutsideBaseRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://evil.example.com/steal")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	e, err := New(srv.URL, "dgo-test", nil)
	require.NoError(t, err)

	_, err = e.Do(context.Background(), http.MethodGet, "/channels/1", "", nil)
	require.Error(t, err)
	var badRedirect *BadRedirect
	assert.ErrorAs(t, err, &badRedirect)
}

func TestNormalizeRouteAndBucket(t *testing.T) {
	route, bucket := normalize("channels/1", "")
	assert.Equal(t, "/channels/1", route)
	assert.Equal(t, "/channels/1", bucket)

	route, bucket = normalize("/channels/1", "messages")
	assert.Equal(t, "/channels/1", route)
	assert.Equal(t, "/messages", bucket)
}
