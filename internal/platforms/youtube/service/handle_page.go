package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultHandlePageTimeout = 5 * time.Second
	defaultHandlePageBaseURL = "https://www.youtube.com"
	handlePageUserAgent      = "Mozilla/5.0 (compatible; ChannelCatalog/1.0)"
)

var channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)

// HandlePageLookup resolves an @handle by reading the channel ID from the
// public channel page metadata. It spends no API quota but depends on page
// markup, so callers treat any failure as "no ID found".
type HandlePageLookup struct {
	Client  *http.Client
	Timeout time.Duration
	BaseURL string
}

// LookupHandle fetches /@handle and extracts the canonical channel ID.
func (l HandlePageLookup) LookupHandle(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", fmt.Errorf("%w: handle is required", ErrValidation)
	}
	if !strings.HasPrefix(handle, handlePrefix) {
		handle = handlePrefix + handle
	}

	ctx, cancel := context.WithTimeout(ctx, l.requestTimeout())
	defer cancel()

	target := strings.TrimRight(l.baseURL(), "/") + "/" + url.PathEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", handlePageUserAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := l.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch handle page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s when resolving handle", resp.Status)
	}

	limited := io.LimitReader(resp.Body, 2<<20) // 2 MB
	doc, err := goquery.NewDocumentFromReader(limited)
	if err != nil {
		return "", fmt.Errorf("parse handle page: %w", err)
	}

	candidates := []string{
		doc.Find(`meta[itemprop="channelId"]`).AttrOr("content", ""),
		doc.Find(`meta[itemprop="identifier"]`).AttrOr("content", ""),
		channelIDFromURL(doc.Find(`link[rel="canonical"]`).AttrOr("href", "")),
		channelIDFromURL(doc.Find(`meta[property="og:url"]`).AttrOr("content", "")),
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); channelIDPattern.MatchString(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("channel ID not found in handle page")
}

func (l HandlePageLookup) requestTimeout() time.Duration {
	if l.Timeout > 0 {
		return l.Timeout
	}
	return defaultHandlePageTimeout
}

func (l HandlePageLookup) httpClient() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return &http.Client{Timeout: l.requestTimeout()}
}

func (l HandlePageLookup) baseURL() string {
	if l.BaseURL != "" {
		return l.BaseURL
	}
	return defaultHandlePageBaseURL
}

func channelIDFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "channel" {
		return parts[1]
	}
	return ""
}
