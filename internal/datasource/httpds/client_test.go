// These tests exercise the HTTP download client against httptest servers:
// defaults, headers, success, non-2xx statuses, and transport failures.

package httpds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dylantanyz/zoomcamp2024/internal/datasource"
)

// TestNewClient_Defaults verifies defaults and TLS settings when no custom
// Transport is supplied.
func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true})

	if c.httpClient.Timeout != 0 {
		t.Fatalf("expected no overall timeout, got %v", c.httpClient.Timeout)
	}
	transport, ok := c.httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.httpClient.Transport)
	}
	if transport.ResponseHeaderTimeout != 30*time.Second {
		t.Fatalf("ResponseHeaderTimeout = %v", transport.ResponseHeaderTimeout)
	}
	if transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify=true when configured")
	}
}

type countingTransport struct {
	hits int32
	rt   http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.hits, 1)
	return c.rt.RoundTrip(r)
}

func TestGet_HeadersAndCustomTransport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Base") != "b" || r.Header.Get("X-Req") != "r" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ct := &countingTransport{rt: http.DefaultTransport}
	c := NewClient(Config{
		BaseHeaders: http.Header{"X-Base": {"b"}},
		Transport:   ct,
	})
	resp, err := c.Get(context.Background(), srv.URL, http.Header{"X-Req": {"r"}})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if atomic.LoadInt32(&ct.hits) != 1 {
		t.Fatalf("custom transport used %d times", ct.hits)
	}
	if _, err := c.Get(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	const body = "VendorID,tpep_pickup_datetime\n1,2021-01-01 00:30:10\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "output.csv")
	res, err := NewClient(Config{}).Download(context.Background(), srv.URL+"/yellow.csv", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if res.Path != dest || res.Bytes != int64(len(body)) || len(res.Checksum) != 16 {
		t.Fatalf("Result = %+v", res)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != body {
		t.Fatalf("content = %q", got)
	}
}

// TestDownload_StatusIsNotRetried checks that a 5xx is reported once, with
// the status, and leaves an existing local file alone.
func TestDownload_StatusIsNotRetried(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "output.csv")
	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewClient(Config{}).Download(context.Background(), srv.URL, dest)

	var de *datasource.DownloadError
	if !errors.As(err, &de) || de.StatusCode != http.StatusServiceUnavailable || de.URL != srv.URL {
		t.Fatalf("err = %v; want DownloadError with 503", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("server hit %d times; want 1", n)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "stale" {
		t.Fatalf("local file changed: %q", got)
	}
}

func TestDownload_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(Config{}).Download(context.Background(), url, filepath.Join(t.TempDir(), "o.csv"))
	var de *datasource.DownloadError
	if !errors.As(err, &de) || de.StatusCode != 0 || de.Err == nil {
		t.Fatalf("err = %v; want transport DownloadError", err)
	}
}

func TestDownload_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(Config{}).Download(ctx, srv.URL, filepath.Join(t.TempDir(), "o.csv"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
}
