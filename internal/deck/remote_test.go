package deck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const remoteYAML = "pages:\n  - label: Remote\n    body: fetched\n"

func TestCacheReusesFreshFile(t *testing.T) {
	t.Setenv(cacheEnvVar, t.TempDir())

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte(remoteYAML))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(server.Client())
	require.NoError(t, err)
	ctx := context.Background()

	pages, err := cache.LoadRemote(ctx, server.URL+"/decks/today.yaml")
	require.NoError(t, err)
	require.Equal(t, []Page{{Label: "Remote", Body: "fetched"}}, pages)

	_, err = cache.LoadRemote(ctx, server.URL+"/decks/today.yaml")
	require.NoError(t, err)
	require.Equal(t, 1, hits, "fresh copy should not be downloaded again")
}

func TestCacheRevalidatesStaleFile(t *testing.T) {
	t.Setenv(cacheEnvVar, t.TempDir())

	var conditional int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			conditional++
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte(remoteYAML))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(server.Client())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := cache.Fetch(ctx, server.URL+"/deck.yaml")
	require.NoError(t, err)
	require.Equal(t, ".yaml", path[len(path)-5:])

	old := time.Now().Add(-(cacheTTL + time.Hour))
	require.NoError(t, os.Chtimes(path, old, old))

	again, err := cache.Fetch(ctx, server.URL+"/deck.yaml")
	require.NoError(t, err)
	require.Equal(t, path, again)
	require.Equal(t, 1, conditional)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), info.ModTime(), time.Minute)
}

func TestCacheFallsBackToStaleCopy(t *testing.T) {
	t.Setenv(cacheEnvVar, t.TempDir())

	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(remoteYAML))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(server.Client())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := cache.Fetch(ctx, server.URL+"/deck.yaml")
	require.NoError(t, err)
	old := time.Now().Add(-(cacheTTL + time.Hour))
	require.NoError(t, os.Chtimes(path, old, old))

	fail.Store(true)
	again, err := cache.Fetch(ctx, server.URL+"/deck.yaml")
	require.NoError(t, err)
	require.Equal(t, path, again)

	_, err = cache.Fetch(ctx, server.URL+"/other.yaml")
	require.ErrorContains(t, err, "500")
}

func TestIsRemote(t *testing.T) {
	require.True(t, IsRemote("https://example.com/deck.yaml"))
	require.True(t, IsRemote("http://localhost/deck.pdf"))
	require.False(t, IsRemote("deck.yaml"))
	require.False(t, IsRemote("/tmp/https.yaml"))
}
