// Package datasource fetches the source CSV onto local disk and opens it for
// reading. Concrete fetchers live in subpackages (httpds for http(s) URLs, gcs
// for gs:// URLs); file opens what they leave behind.
package datasource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// Source opens a readable stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Downloader copies the object at url to the local path dest.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (Result, error)
}

// Result describes a completed download.
type Result struct {
	Path  string
	Bytes int64
	// Checksum is the hex xxh3-64 of the downloaded content.
	Checksum string
}

// DownloadError is returned by every Downloader. StatusCode is set when the
// server answered with a non-2xx status, zero for transport or disk failures.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Save streams r into dest+".part" and renames it to dest once the copy
// finished, so an interrupted download never replaces a previous file.
func Save(ctx context.Context, dest string, r io.Reader) (Result, error) {
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return Result{}, fmt.Errorf("create %s: %w", part, err)
	}

	h := xxh3.New()
	n, err := io.Copy(io.MultiWriter(f, h), ctxReader{ctx: ctx, r: r})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		return Result{}, fmt.Errorf("write %s: %w", part, err)
	}
	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return Result{}, fmt.Errorf("rename %s: %w", part, err)
	}
	return Result{Path: dest, Bytes: n, Checksum: fmt.Sprintf("%016x", h.Sum64())}, nil
}

// ctxReader stops a long copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
