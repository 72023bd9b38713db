// Package gcs downloads gs://bucket/object URLs onto local disk with
// cloud.google.com/go/storage. Credentials come from the environment
// (Application Default Credentials).
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/dylantanyz/zoomcamp2024/internal/datasource"
)

// opener opens an object for reading.
type opener func(ctx context.Context, bucket, object string) (io.ReadCloser, error)

// Downloader implements datasource.Downloader for gs:// URLs.
type Downloader struct {
	open opener
}

// NewDownloader wraps an existing storage client. The caller owns client.
func NewDownloader(client *storage.Client) *Downloader {
	return &Downloader{open: func(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
		return client.Bucket(bucket).Object(object).NewReader(ctx)
	}}
}

// Download copies the object named by rawURL to dest.
func (d *Downloader) Download(ctx context.Context, rawURL, dest string) (datasource.Result, error) {
	bucket, object, err := ParseURL(rawURL)
	if err != nil {
		return datasource.Result{}, &datasource.DownloadError{URL: rawURL, Err: err}
	}
	r, err := d.open(ctx, bucket, object)
	if err != nil {
		de := &datasource.DownloadError{URL: rawURL, Err: err}
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			de.StatusCode = 404
		}
		return datasource.Result{}, de
	}
	defer r.Close()

	res, err := datasource.Save(ctx, dest, r)
	if err != nil {
		return datasource.Result{}, &datasource.DownloadError{URL: rawURL, Err: err}
	}
	return res, nil
}

// ParseURL splits gs://bucket/path/to/object.
func ParseURL(rawURL string) (bucket, object string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("gcs: %w", err)
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("gcs: scheme %q is not gs", u.Scheme)
	}
	object = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || object == "" {
		return "", "", fmt.Errorf("gcs: %q must be gs://bucket/object", rawURL)
	}
	return u.Host, object, nil
}

var _ datasource.Downloader = (*Downloader)(nil)
