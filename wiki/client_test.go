// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package wiki

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const anniversariesFixture = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Selected anniversaries</title></head>
<body>
<ul>
<li>
  1815 – Napoleonic Wars: The Battle of <a href="/wiki/Battle_of_Waterloo" title="Battle of Waterloo">Waterloo</a>,
  fought near <a href="/wiki/Waterloo,_Belgium" title="Waterloo, Belgium">Waterloo, Belgium</a>.
  <a href="/wiki/File:Waterloo.jpg" title="File:Waterloo.jpg">image</a>
  <a href="https://example.com/out">external</a>
</li>
<li>Plain text item with no links at all</li>
<li>
  1953 – <a href="/wiki/Egypt">Egypt</a> declared itself a republic.
</li>
</ul>
</body></html>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(WithBaseURL(srv.URL))
}

func TestFetchEvents(t *testing.T) {
	var gotPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, anniversariesFixture)
	})

	events, err := client.FetchEvents(context.Background(), time.June, 18)
	if err != nil {
		t.Fatalf("FetchEvents() error = %v", err)
	}

	if gotPath != "/wiki/Wikipedia:Selected_anniversaries/June_18" {
		t.Errorf("request path = %q", gotPath)
	}

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2 (the linkless item is dropped)", len(events))
	}

	waterloo := events[0]
	if waterloo.Title != "Battle of Waterloo" {
		t.Errorf("Title = %q, want the first link's title", waterloo.Title)
	}

	wantLinks := []Link{
		{Title: "Battle of Waterloo", URL: client.baseURL + "/wiki/Battle_of_Waterloo"},
		{Title: "Waterloo, Belgium", URL: client.baseURL + "/wiki/Waterloo,_Belgium"},
	}
	if diff := cmp.Diff(wantLinks, waterloo.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}

	// Multi-line markup collapses into single-space text.
	wantText := "1815 – Napoleonic Wars: The Battle of Waterloo, fought near Waterloo, Belgium. image external"
	if waterloo.Text != wantText {
		t.Errorf("Text = %q, want %q", waterloo.Text, wantText)
	}

	// No title attribute: anchor text is used instead.
	egypt := events[1]
	if egypt.Title != "Egypt" {
		t.Errorf("Title = %q, want Egypt", egypt.Title)
	}
}

func TestFetchEventsHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	})

	if _, err := client.FetchEvents(context.Background(), time.January, 1); err == nil {
		t.Error("FetchEvents() expected error for 503")
	}
}

func TestFetchEventsEmptyPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<html><body><p>nothing here</p></body></html>")
	})

	events, err := client.FetchEvents(context.Background(), time.January, 1)
	if err != nil {
		t.Fatalf("FetchEvents() error = %v", err)
	}

	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestPageURLLanguage(t *testing.T) {
	client := NewClient(WithLanguage("tr"))

	want := "https://tr.wikipedia.org/wiki/Wikipedia:Selected_anniversaries/May_12"
	if got := client.PageURL(time.May, 12); got != want {
		t.Errorf("PageURL() = %q, want %q", got, want)
	}
}

func TestSampleEvents(t *testing.T) {
	events := make([]Event, 20)
	for i := range events {
		events[i] = Event{Title: string(rune('a' + i))}
	}

	t.Run("caps the batch", func(t *testing.T) {
		got := SampleEvents(events, 5)
		if len(got) != 5 {
			t.Errorf("len = %d, want 5", len(got))
		}

		seen := map[string]bool{}
		for _, e := range got {
			if seen[e.Title] {
				t.Errorf("duplicate event %q in sample", e.Title)
			}

			seen[e.Title] = true
		}
	})

	t.Run("fits already", func(t *testing.T) {
		got := SampleEvents(events[:3], 5)
		if len(got) != 3 {
			t.Errorf("len = %d, want 3", len(got))
		}
	})

	t.Run("degenerate sizes", func(t *testing.T) {
		if got := SampleEvents(events, 0); got != nil {
			t.Errorf("n=0 should yield nil, got %d events", len(got))
		}

		if got := SampleEvents(nil, 5); got != nil {
			t.Errorf("empty input should yield nil, got %d events", len(got))
		}
	})
}
