// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	archiveerr "github.com/pdiddy/bio-archive/pkg/errors"
	"github.com/pdiddy/bio-archive/pkg/types"
)

func testClient(baseURL string) *Client {
	return NewClient(types.FetchConfig{BaseURL: baseURL, MaxRetries: 1}, zerolog.Nop())
}

func TestFetchIndex_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/index.json", r.URL.Path)
		assert.Equal(t, "bio-archive/0.1", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"id":"paper-a","title":"Bone Density in Orbit","year":2018}]`))
	}))
	defer ts.Close()

	records, err := testClient(ts.URL).FetchIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "paper-a", records[0].ID)
	assert.Equal(t, 2018, records[0].Year)
}

func TestFetchIndex_HTTPErrorIsNetworkUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchIndex(context.Background())
	assert.ErrorIs(t, err, archiveerr.ErrNetworkUnavailable)
}

func TestFetchIndex_BadJSONIsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchIndex(context.Background())
	assert.ErrorIs(t, err, archiveerr.ErrMalformedResponse)
}

func TestFetchIndex_UnreachableHostIsNetworkUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close()

	_, err := testClient(ts.URL).FetchIndex(context.Background())
	assert.ErrorIs(t, err, archiveerr.ErrNetworkUnavailable)
}

func TestResourceURL(t *testing.T) {
	c := testClient("https://archive.example/base/")

	assert.Equal(t,
		"https://archive.example/base/data/papers/paper-a.json",
		c.resourceURL("data/papers/{id}.json", "paper-a"))

	noBase := testClient("")
	assert.Equal(t, "data/index.json", noBase.resourceURL("data/index.json", ""))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(types.FetchConfig{}, zerolog.Nop())
	assert.Equal(t, DefaultSources, c.Sources())
}
