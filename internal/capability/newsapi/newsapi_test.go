package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopHeadlinesShapesTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/top-headlines", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("pageSize"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Markets rally","source":{"name":"Reuters"}},
			{"title":"Rain expected","source":{"name":"BBC"}}
		]}`))
	}))
	defer srv.Close()

	c := New("key", srv.URL)
	got, err := c.TopHeadlines(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Markets rally from Reuters", "Rain expected from BBC"}, got)
}

func TestTopHeadlinesEmptyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	c := New("key", srv.URL)
	_, err := c.TopHeadlines(context.Background(), 3)
	require.Error(t, err)
}
