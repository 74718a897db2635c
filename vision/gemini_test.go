package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Contents, 1)
		assert.Equal(t, "image/jpeg", req.Contents[0].Parts[1].InlineData.MimeType)

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A parked sedan with a shattered rear window. "}]}}]}`))
	}))
	defer ts.Close()

	d := NewDescriber("test-key")
	d.Client = ts.Client()
	d.baseURL = ts.URL

	desc, err := d.DescribeImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")

	assert.NoError(t, err)
	assert.Equal(t, "A parked sedan with a shattered rear window.", desc)
}

func TestDescribeImageNoCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	d := NewDescriber("test-key")
	d.Client = ts.Client()
	d.baseURL = ts.URL

	desc, err := d.DescribeImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")

	assert.NoError(t, err)
	assert.Equal(t, "", desc)
}

func TestDescribeImageUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	d := NewDescriber("test-key")
	d.Client = ts.Client()
	d.baseURL = ts.URL

	_, err := d.DescribeImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")

	assert.Error(t, err)
}
