// cmd/verite/extract.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	cache "github.com/patrickmn/go-cache"
)

// URLExtractor pulls a short claim text out of a submitted URL: the page
// title plus its description when one is present. Results are cached so
// repeated analyses of the same URL do not refetch the page.
type URLExtractor struct {
	client    *http.Client
	cache     *cache.Cache
	userAgent string
}

// NewURLExtractor creates an extractor with its own HTTP client and cache
func NewURLExtractor(userAgent string) *URLExtractor {
	return &URLExtractor{
		client: &http.Client{
			Timeout: extractTimeout,
		},
		cache:     cache.New(extractCacheTTL, extractCacheTTL),
		userAgent: userAgent,
	}
}

// ExtractClaim fetches the URL and composes a claim text from its metadata
func (e *URLExtractor) ExtractClaim(ctx context.Context, url string) (string, error) {
	if cached, found := e.cache.Get(url); found {
		return cached.(string), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %v", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %v", url, err)
	}

	claim := composeClaim(doc)
	if claim == "" {
		return "", fmt.Errorf("no usable title or description at %s", url)
	}

	e.cache.Set(url, claim, cache.DefaultExpiration)
	return claim, nil
}

// composeClaim prefers OpenGraph metadata and falls back to the title tag
func composeClaim(doc *goquery.Document) string {
	title := metaContent(doc, "og:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	description := metaContent(doc, "og:description")
	if description == "" {
		description, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
		description = strings.TrimSpace(description)
	}

	claim := title
	if description != "" {
		if claim != "" {
			claim += " - " + description
		} else {
			claim = description
		}
	}

	if len(claim) > maxClaimLength {
		claim = claim[:maxClaimLength]
	}
	return strings.TrimSpace(claim)
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}
