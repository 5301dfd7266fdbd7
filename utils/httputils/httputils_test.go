// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAppendRequestHeadersRoundTripper(t *testing.T) {
	var gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: &AppendRequestHeadersRoundTripper{
			Transport: http.DefaultTransport,
			Headers:   map[string]string{"User-Agent": "efemapa/test"},
		},
	}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	if gotUA != "efemapa/test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "efemapa/test")
	}
}

func TestLoggingRoundTripper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	}))
	defer srv.Close()

	t.Run("dumps request and response", func(t *testing.T) {
		var buf bytes.Buffer

		client := &http.Client{
			Transport: &LoggingRoundTripper{
				Transport: http.DefaultTransport,
				Writer:    &buf,
				DumpBody:  true,
			},
		}

		resp, err := client.Get(srv.URL + "/ping")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		resp.Body.Close()

		out := buf.String()
		if !strings.Contains(out, "> GET /ping") {
			t.Errorf("missing request dump in %q", out)
		}

		if !strings.Contains(out, "< RESPONSE:") {
			t.Errorf("missing response dump in %q", out)
		}

		if !strings.Contains(out, "pong") {
			t.Errorf("missing response body in %q", out)
		}
	})

	t.Run("nil writer is passthrough", func(t *testing.T) {
		client := &http.Client{
			Transport: &LoggingRoundTripper{Transport: http.DefaultTransport},
		}

		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}
