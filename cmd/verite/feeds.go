// cmd/verite/feeds.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
	cache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v2"
)

// FeedSource is a monitored publication whose items become submissions
type FeedSource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Paused   bool   `yaml:"paused"`
}

type feedsFile struct {
	Sources []FeedSource `yaml:"sources"`
}

// LoadFeedSources reads the feed list from a YAML file
func LoadFeedSources(path string) ([]FeedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %v", err)
	}

	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %v", err)
	}
	return f.Sources, nil
}

// FeedWatcher polls monitored feeds and files each new item as a submission
// so the review queue picks up circulating claims without waiting for a
// reader to submit them.
type FeedWatcher struct {
	parser      *gofeed.Parser
	store       Store
	hub         *Hub
	sources     []FeedSource
	seen        *cache.Cache
	maxPerFeed  int
}

// NewFeedWatcher creates a watcher over the given sources
func NewFeedWatcher(store Store, hub *Hub, sources []FeedSource, userAgent string, maxPerFeed int) *FeedWatcher {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	if maxPerFeed <= 0 {
		maxPerFeed = DefaultMaxPostsPerFeed
	}
	return &FeedWatcher{
		parser:     parser,
		store:      store,
		hub:        hub,
		sources:    sources,
		seen:       cache.New(feedSeenTTL, feedSeenTTL),
		maxPerFeed: maxPerFeed,
	}
}

// IngestAll fetches every active source once. Per-source failures are logged
// and skipped; the return value is the number of submissions created.
func (fw *FeedWatcher) IngestAll(ctx context.Context) int {
	created := 0
	for _, source := range fw.sources {
		if source.Paused {
			continue
		}
		n, err := fw.ingestSource(ctx, source)
		if err != nil {
			Logger().Warning("Feed ingestion failed for %s: %v", source.Name, err)
			continue
		}
		created += n
	}
	if created > 0 {
		Logger().Info("Feed ingestion created %d submissions", created)
	}
	return created
}

func (fw *FeedWatcher) ingestSource(ctx context.Context, source FeedSource) (int, error) {
	feed, err := fw.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, item := range feed.Items {
		if i >= fw.maxPerFeed {
			break
		}
		if item.Link == "" || item.Title == "" {
			continue
		}
		if _, dup := fw.seen.Get(item.Link); dup {
			continue
		}

		sub := &Submission{
			SubmitterName: source.Name,
			ClaimText:     strings.TrimSpace(item.Title),
			Context:       strings.TrimSpace(item.Description),
			URLSubmitted:  item.Link,
			Status:        StatusNew,
		}
		if err := fw.store.CreateSubmission(ctx, sub); err != nil {
			Logger().Warning("Failed to store feed submission from %s: %v", source.Name, err)
			continue
		}

		fw.seen.Set(item.Link, true, cache.DefaultExpiration)
		if fw.hub != nil {
			fw.hub.Broadcast("submission_created", sub)
		}
		created++
	}
	return created, nil
}
