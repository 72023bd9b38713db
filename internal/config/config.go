// Package config defines the configuration model for an ingestion run: where
// the CSV comes from, how it is parsed, which columns become timestamps, and
// which database table receives the rows.
//
// A run is configured in layers. Defaults() provides the NYC taxi values
// (output.csv, 100000-row chunks, the two timestamp columns). A JSON or
// YAML file may override them, INGEST_* environment variables override the
// file, and explicitly set CLI flags win last.
//
// Example (trimmed):
//
//	{
//	  "job":     "yellow_taxi_2021_01",
//	  "source":  { "url": "https://example.org/yellow_tripdata_2021-01.csv" },
//	  "storage": { "kind": "postgres", "db": { "user": "root", "host": "pg", "name": "ny_taxi", "table": "yellow_taxi_data" } },
//	  "runtime": { "chunk_size": 100000 }
//	}
package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

const (
	// DefaultChunkSize is the number of CSV rows transformed and written as one
	// unit.
	DefaultChunkSize = 100000

	// DefaultOutputPath is the local file the source URL is downloaded to.
	DefaultOutputPath = "output.csv"

	// DefaultJob labels metrics and log lines when no job name is configured.
	DefaultJob = "ingest-data"
)

// DefaultTimestampColumns are the pickup and dropoff columns of the NYC TLC
// yellow taxi trip files.
var DefaultTimestampColumns = []string{"tpep_pickup_datetime", "tpep_dropoff_datetime"}

// Ingest is the top-level configuration of a single ingestion run.
type Ingest struct {
	// Job names the run for metrics and logs.
	Job string `json:"job" yaml:"job"`

	Source    Source        `json:"source" yaml:"source"`
	Parser    Parser        `json:"parser" yaml:"parser"`
	Transform Transform     `json:"transform" yaml:"transform"`
	Storage   Storage       `json:"storage" yaml:"storage"`
	Runtime   RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// Source describes where the CSV is fetched from and where it lands locally.
type Source struct {
	// URL is fetched before loading. http(s):// and gs:// are supported.
	URL string `json:"url" yaml:"url"`

	// Path is the local file the URL is downloaded to and then loaded from.
	Path string `json:"path" yaml:"path"`

	// SkipDownload loads Path as-is without fetching URL.
	SkipDownload bool `json:"skip_download" yaml:"skip_download"`

	// ContinueOnDownloadError logs a failed download and loads whatever is at
	// Path anyway. Off by default; a failed download aborts the run.
	ContinueOnDownloadError bool `json:"continue_on_download_error" yaml:"continue_on_download_error"`

	// TimeoutSeconds bounds the whole download. Zero means the client default.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Parser carries CSV reader options. Recognized keys:
//
//	comma (string), lazy_quotes (bool), trim_space (bool),
//	normalize_headers (bool), header_map (object)
type Parser struct {
	Options Options `json:"options" yaml:"options"`
}

// Transform configures the per-chunk field conversions.
type Transform struct {
	// TimestampColumns are parsed from text into timestamps.
	TimestampColumns []string `json:"timestamp_columns" yaml:"timestamp_columns"`

	// TimestampLayouts are Go time layouts tried in order. Empty means the
	// transformer's built-in list.
	TimestampLayouts []string `json:"timestamp_layouts" yaml:"timestamp_layouts"`

	// ColumnKinds pins column kinds (int, float, timestamp, text) instead of
	// inferring them from the first chunk.
	ColumnKinds map[string]string `json:"column_kinds" yaml:"column_kinds"`

	// IndexLabel, when set, prepends a BIGINT row-ordinal column with this name.
	IndexLabel string `json:"index_label" yaml:"index_label"`
}

// Kinds parses ColumnKinds. It returns nil when none are set.
func (t Transform) Kinds() (map[string]ddl.Kind, error) {
	if len(t.ColumnKinds) == 0 {
		return nil, nil
	}
	out := make(map[string]ddl.Kind, len(t.ColumnKinds))
	for name, raw := range t.ColumnKinds {
		k, err := ddl.ParseKind(raw)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out[name] = k
	}
	return out, nil
}

// Storage selects the destination backend.
type Storage struct {
	// Kind is one of postgres, sqlite, mssql, mysql, clickhouse.
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig holds the connection parameters and the destination table.
type DBConfig struct {
	// DSN, when set, is used verbatim and the discrete fields below are ignored
	// for connecting.
	DSN string `json:"dsn" yaml:"dsn"`

	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Name     string `json:"name" yaml:"name"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table" yaml:"table"`
}

// RuntimeConfig controls batching.
type RuntimeConfig struct {
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// Defaults returns the NYC yellow taxi configuration.
func Defaults() Ingest {
	return Ingest{
		Job: DefaultJob,
		Source: Source{
			Path: DefaultOutputPath,
		},
		Parser: Parser{Options: Options{}},
		Transform: Transform{
			TimestampColumns: append([]string(nil), DefaultTimestampColumns...),
		},
		Storage: Storage{
			Kind: "postgres",
			DB: DBConfig{
				Host: "localhost",
			},
		},
		Runtime: RuntimeConfig{ChunkSize: DefaultChunkSize},
	}
}

// Options is a small helper to fetch typed values from arbitrary JSON or YAML
// maps. It performs only minimal type coercion and returns the provided
// default when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON makes a missing or null "options" object decode to an empty,
// non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// UnmarshalYAML is the yaml.v3 counterpart of UnmarshalJSON.
func (o *Options) UnmarshalYAML(value *yaml.Node) error {
	var tmp map[string]any
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	if tmp == nil {
		tmp = map[string]any{}
	}
	*o = Options(tmp)
	return nil
}
