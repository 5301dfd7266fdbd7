// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package wiki

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jcodagnone/efemapa/utils/htmlutils"
	"github.com/jcodagnone/efemapa/utils/textutils"
)

const (
	// DefaultLanguage selects the English Wikipedia.
	DefaultLanguage = "en"

	// DefaultTimeout bounds the page fetch.
	DefaultTimeout = 10 * time.Second

	userAgent = "efemapa/1.0 (github.com/jcodagnone/efemapa)"
)

// Client fetches anniversary pages from one Wikipedia language edition.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
}

// Option customizes a Client.
type Option func(*Client)

// WithLanguage selects the Wikipedia language edition (e.g. "en", "es", "tr").
func WithLanguage(lang string) Option {
	return func(c *Client) {
		lang = strings.TrimSpace(strings.ToLower(lang))
		if lang != "" {
			c.language = lang
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at a different host. Link URLs are rewritten
// against the same host. Meant for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewClient creates a Client for the configured language edition.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		language:   DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		c.baseURL = fmt.Sprintf("https://%s.wikipedia.org", c.language)
	}

	return c
}

// PageURL returns the anniversary page address for a date. Month names stay
// in English across language editions, which is how the page is titled.
func (c *Client) PageURL(month time.Month, day int) string {
	return fmt.Sprintf("%s/wiki/Wikipedia:Selected_anniversaries/%s_%d", c.baseURL, month, day)
}

// FetchEvents downloads and parses the anniversary page for a date. An empty
// slice with a nil error means the page had no usable events.
func (c *Client) FetchEvents(ctx context.Context, month time.Month, day int) ([]Event, error) {
	pageURL := c.PageURL(month, day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := htmlutils.AsReader(resp)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	return c.parseEvents(doc), nil
}

// parseEvents turns every list item with at least one article link into an
// Event. The first linked article names the event.
func (c *Client) parseEvents(doc *goquery.Document) []Event {
	events := make([]Event, 0, 64)

	doc.Find("ul > li").Each(func(_ int, li *goquery.Selection) {
		text := textutils.CompactWhitespace(li.Text())
		if text == "" {
			return
		}

		links := c.parseLinks(li)
		if len(links) == 0 {
			return
		}

		events = append(events, Event{
			Text:  text,
			Title: links[0].Title,
			Links: links,
		})
	})

	return events
}

func (c *Client) parseLinks(li *goquery.Selection) []Link {
	var links []Link

	li.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "/wiki/") || strings.Contains(href, ":") {
			// Skips namespaced pages (File:, Wikipedia:, ...) and
			// anything outside the article space.
			return
		}

		title, ok := a.Attr("title")
		if !ok || strings.TrimSpace(title) == "" {
			title = textutils.CompactWhitespace(a.Text())
		}

		if title == "" {
			return
		}

		links = append(links, Link{
			Title: title,
			URL:   c.baseURL + href,
		})
	})

	return links
}

// SampleEvents picks at most n events uniformly at random, preserving no
// particular order. It returns the input untouched when it already fits.
func SampleEvents(events []Event, n int) []Event {
	if n <= 0 || len(events) == 0 {
		return nil
	}

	if len(events) <= n {
		return events
	}

	shuffled := make([]Event, len(events))
	copy(shuffled, events)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:n]
}
