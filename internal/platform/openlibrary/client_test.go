package openlibrary

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

func newTestClient(t *testing.T, rps float64, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient("bookshelf-test", rps, 2*time.Second)
	c.baseURL = srv.URL
	c.coverURL = "https://covers.test"
	return c
}

func TestFindCover(t *testing.T) {
	c := newTestClient(t, 1000, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "Dune", r.URL.Query().Get("title"))
		assert.Equal(t, "Frank Herbert", r.URL.Query().Get("author"))
		assert.Equal(t, "bookshelf-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"numFound":2,"docs":[{"key":"/works/OL1W","title":"Dune"},{"key":"/works/OL2W","title":"Dune","cover_i":42}]}`))
	})

	got, err := c.FindCover(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, "https://covers.test/b/id/42-L.jpg", got)
}

func TestFindCover_NoMatch(t *testing.T) {
	c := newTestClient(t, 1000, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound":0,"docs":[]}`))
	})

	got, err := c.FindCover(context.Background(), "Unknown", "Nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindCover_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, 1000, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FindCover(context.Background(), "T", "A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFindCover_ThrottledWithoutWaiting(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, 0.001, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"docs":[{"cover_i":7}]}`))
	})

	_, err := c.FindCover(context.Background(), "T", "A")
	require.NoError(t, err)

	start := time.Now()
	_, err = c.FindCover(context.Background(), "T", "A")
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFindCover_RespectsContextDeadline(t *testing.T) {
	c := newTestClient(t, 1000, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.FindCover(ctx, "T", "A")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
