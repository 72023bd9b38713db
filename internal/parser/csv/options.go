package csv

import (
	"github.com/dylantanyz/zoomcamp2024/internal/config"
)

// Options configures ChunkReader. The zero value reads standard
// comma-separated input and keeps header names as written.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// LazyQuotes lets a quote appear in an unquoted field and a non-doubled
	// quote appear in a quoted field.
	LazyQuotes bool

	// TrimSpace trims leading and trailing white space from every cell and
	// header name.
	TrimSpace bool

	// NormalizeHeaders lower-cases header names and replaces spaces with
	// underscores. Applied after HeaderMap.
	NormalizeHeaders bool

	// HeaderMap renames source header cells (after TrimSpace) to new names.
	HeaderMap map[string]string
}

// OptionsFrom reads the keys comma, lazy_quotes, trim_space,
// normalize_headers and header_map from a parser options bag.
func OptionsFrom(o config.Options) Options {
	hm := o.StringMap("header_map")
	if len(hm) == 0 {
		hm = nil
	}
	return Options{
		Comma:            o.Rune("comma", ','),
		LazyQuotes:       o.Bool("lazy_quotes", false),
		TrimSpace:        o.Bool("trim_space", false),
		NormalizeHeaders: o.Bool("normalize_headers", false),
		HeaderMap:        hm,
	}
}
