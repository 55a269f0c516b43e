package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/pkg/workerpool"
)

func newPool(t *testing.T) *workerpool.Pool {
	t.Helper()
	pool, err := workerpool.New(workerpool.Config{Name: "test-alert", Size: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })
	return pool
}

func TestSlowResponse_Message(t *testing.T) {
	ev := SlowResponse{Method: "GET", Path: "/api/v1/playlists/1", Duration: 3120 * time.Millisecond}
	assert.Equal(t, "[API-RESPONSE] GET /api/v1/playlists/1, took 3120ms, @oncall", ev.Message("@oncall"))
}

func TestSlackClient_PostMessage(t *testing.T) {
	var got slackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer xoxb-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewSlackClient(SlackConfig{URL: srv.URL, Token: "xoxb-token", Channel: "#alerts"})
	ok, err := client.PostMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "#alerts", got.Channel)
}

func TestSlackClient_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewSlackClient(SlackConfig{URL: srv.URL}).PostMessage(context.Background(), "x")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("ok false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
		}))
		defer srv.Close()

		ok, err := NewSlackClient(SlackConfig{URL: srv.URL}).PostMessage(context.Background(), "x")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := NewSlackClient(SlackConfig{URL: srv.URL, Timeout: 20 * time.Millisecond}).PostMessage(context.Background(), "x")
		assert.Error(t, err)
	})
}

func TestDispatcher_NotifyDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	d := NewDispatcher(NewSlackClient(SlackConfig{URL: srv.URL, Timeout: 5 * time.Second}), newPool(t), "sig", true)

	start := time.Now()
	future := d.Notify(context.Background(), SlowResponse{Method: "GET", Path: "/slow", Duration: 4 * time.Second})
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	select {
	case <-future.Done():
		t.Fatal("notification resolved before the endpoint answered")
	default:
	}

	close(release)
	ok, err := future.Get()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDispatcher_SurvivesCancelledRequestContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	d := NewDispatcher(NewSlackClient(SlackConfig{URL: srv.URL}), newPool(t), "sig", true)

	ctx, cancel := context.WithCancel(context.Background())
	future := d.Notify(ctx, SlowResponse{Method: "POST", Path: "/x", Duration: time.Second})
	cancel()

	ok, err := future.Get()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDispatcher_FailureStaysInFuture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(NewSlackClient(SlackConfig{URL: srv.URL}), newPool(t), "sig", true)

	ok, err := d.Notify(context.Background(), SlowResponse{Method: "GET", Path: "/x", Duration: time.Second}).Get()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotificationFailed)
}

func TestDispatcher_Disabled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	d := NewDispatcher(NewSlackClient(SlackConfig{URL: srv.URL}), newPool(t), "sig", false)

	ok, err := d.Notify(context.Background(), SlowResponse{Method: "GET", Path: "/x"}).Get()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
