package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.PostCreated()
	c.PostCreated()
	c.CommentCreated()
	c.LikeCreated()
	c.LikeConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.postsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commentsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.likesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.likesConflicts))
}

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest(http.MethodGet, "/posts/{id}/", http.StatusOK, 20*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/posts/{id}/", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/posts/{id}/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/posts/{id}/", "404")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.PostCreated()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "feed_posts_created_total 1")
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.PostCreated()
		c.CommentCreated()
		c.LikeCreated()
		c.LikeConflict()
		c.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Second)
	})
}
