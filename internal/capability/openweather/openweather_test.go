package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentFormatsConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Pune", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cod":200,"name":"Pune","main":{"temp":27.4},"weather":[{"description":"clear sky"}]}`))
	}))
	defer srv.Close()

	c := New("key", srv.URL)
	got, err := c.Current(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, "Weather in Pune: 27.4°C, clear sky.", got)
}

func TestCurrentReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	c := New("key", srv.URL)
	_, err := c.Current(context.Background(), "Nowhereville")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city not found")
}
