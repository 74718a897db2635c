package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-123", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"features":[{"place_name":"Market St, San Francisco, California"}]}`))
	}))
	defer ts.Close()

	g := NewGeocoder("token-123")
	g.Client = ts.Client()
	g.baseURL = ts.URL

	place := g.Reverse(context.Background(), 37.7749, -122.4194)

	assert.Equal(t, "Market St, San Francisco, California", place)
}

func TestReverseNoFeatures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer ts.Close()

	g := NewGeocoder("token-123")
	g.Client = ts.Client()
	g.baseURL = ts.URL

	assert.Equal(t, UnknownLocation, g.Reverse(context.Background(), 37.7749, -122.4194))
}

func TestReverseProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	g := NewGeocoder("bad-token")
	g.Client = ts.Client()
	g.baseURL = ts.URL

	assert.Equal(t, UnknownLocation, g.Reverse(context.Background(), 37.7749, -122.4194))
}
