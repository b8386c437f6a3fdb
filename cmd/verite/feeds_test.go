// cmd/verite/feeds_test.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Outlet</title>
    <item>
      <title>Claim one circulating online</title>
      <link>https://example.ht/one</link>
      <description>First description</description>
    </item>
    <item>
      <title>Claim two circulating online</title>
      <link>https://example.ht/two</link>
      <description>Second description</description>
    </item>
    <item>
      <title>Claim three circulating online</title>
      <link>https://example.ht/three</link>
      <description>Third description</description>
    </item>
  </channel>
</rss>`

func newFeedServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testFeedXML)
	}))
}

func TestFeedIngestion(t *testing.T) {
	server := newFeedServer()
	defer server.Close()

	store := NewMemoryStore()
	sources := []FeedSource{{Name: "Test Outlet", URL: server.URL}}
	fw := NewFeedWatcher(store, nil, sources, "VeriteBot/test", 10)

	created := fw.IngestAll(context.Background())
	require.Equal(t, 3, created)

	subs, err := store.Submissions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 3)
	for _, sub := range subs {
		require.Equal(t, StatusNew, sub.Status)
		require.Equal(t, "Test Outlet", sub.SubmitterName)
		require.NotEmpty(t, sub.ClaimText)
		require.NotEmpty(t, sub.URLSubmitted)
	}

	// Items already seen are not filed again
	created = fw.IngestAll(context.Background())
	require.Equal(t, 0, created)

	subs, err = store.Submissions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 3)
}

func TestFeedIngestionRespectsMaxPerFeed(t *testing.T) {
	server := newFeedServer()
	defer server.Close()

	store := NewMemoryStore()
	fw := NewFeedWatcher(store, nil, []FeedSource{{Name: "Test Outlet", URL: server.URL}}, "", 2)

	created := fw.IngestAll(context.Background())
	require.Equal(t, 2, created)
}

func TestFeedIngestionSkipsPausedSources(t *testing.T) {
	server := newFeedServer()
	defer server.Close()

	store := NewMemoryStore()
	fw := NewFeedWatcher(store, nil, []FeedSource{{Name: "Paused Outlet", URL: server.URL, Paused: true}}, "", 10)

	created := fw.IngestAll(context.Background())
	require.Equal(t, 0, created)
}

func TestFeedIngestionSurvivesBrokenSource(t *testing.T) {
	good := newFeedServer()
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	store := NewMemoryStore()
	sources := []FeedSource{
		{Name: "Broken Outlet", URL: bad.URL},
		{Name: "Test Outlet", URL: good.URL},
	}
	fw := NewFeedWatcher(store, nil, sources, "", 10)

	created := fw.IngestAll(context.Background())
	require.Equal(t, 3, created)
}

func TestLoadFeedSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yml")
	content := `sources:
  - name: Le Nouvelliste
    url: https://lenouvelliste.com/rss
    category: news
  - name: Paused Source
    url: https://example.ht/rss
    paused: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	sources, err := LoadFeedSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	require.Equal(t, "Le Nouvelliste", sources[0].Name)
	require.False(t, sources[0].Paused)
	require.True(t, sources[1].Paused)

	_, err = LoadFeedSources(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}
