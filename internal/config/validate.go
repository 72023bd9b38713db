// This file adds a lightweight validator for Ingest values. It performs static
// checks over a resolved configuration and returns a list of issues (errors and
// warnings) that the CLI surfaces before anything touches the network or the
// database.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to the user but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "storage.db.table").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be returned as an error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// KnownStorageKinds lists the backends compiled into the binary.
var KnownStorageKinds = []string{"postgres", "sqlite", "mssql", "mysql", "clickhouse"}

// ValidateIngest performs static validation of a resolved configuration. It
// does not mutate cfg.
func ValidateIngest(cfg Ingest) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  fmt.Sprintf("job is empty; metrics will be labeled %q", DefaultJob),
		})
	}
	issues = append(issues, validateSource(cfg.Source)...)
	issues = append(issues, validateParser(cfg.Parser)...)
	issues = append(issues, validateTransform(cfg.Transform)...)
	issues = append(issues, validateStorage(cfg.Storage)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)

	return issues
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "local path must not be empty",
		})
	}

	if s.SkipDownload {
		if s.URL != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.url",
				Message:  "skip_download is set; url is ignored",
			})
		}
		return issues
	}

	if strings.TrimSpace(s.URL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.url",
			Message:  "url is required unless skip_download is set",
		})
		return issues
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.url",
			Message:  fmt.Sprintf("invalid url: %v", err),
		})
		return issues
	}
	switch u.Scheme {
	case "http", "https", "gs":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.url",
			Message:  fmt.Sprintf("unsupported url scheme %q (want http, https or gs)", u.Scheme),
		})
	}

	if s.ContinueOnDownloadError {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.continue_on_download_error",
			Message:  "a failed download will not stop the run; a stale or missing local file may be loaded",
		})
	}
	if s.TimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.timeout_seconds",
			Message:  "timeout must not be negative",
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue

	if comma := p.Options.String("comma", ","); len([]rune(comma)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  fmt.Sprintf("comma must be a single character, got %q", comma),
		})
	} else if c := []rune(comma)[0]; c == '"' || c == '\r' || c == '\n' {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  fmt.Sprintf("comma %q is not a valid delimiter", comma),
		})
	}
	return issues
}

func validateTransform(t Transform) []Issue {
	var issues []Issue

	if len(t.TimestampColumns) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "transform.timestamp_columns",
			Message:  "no timestamp columns configured; every column keeps its inferred type",
		})
	}
	seen := map[string]struct{}{}
	for i, c := range t.TimestampColumns {
		if strings.TrimSpace(c) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("transform.timestamp_columns[%d]", i),
				Message:  "column name must not be empty",
			})
			continue
		}
		if _, dup := seen[c]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transform.timestamp_columns[%d]", i),
				Message:  fmt.Sprintf("duplicate column %q", c),
			})
		}
		seen[c] = struct{}{}
	}
	for name, raw := range t.ColumnKinds {
		if _, err := ddl.ParseKind(raw); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "transform.column_kinds." + name,
				Message:  err.Error(),
			})
		}
	}
	if _, clash := seen[t.IndexLabel]; clash && t.IndexLabel != "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.index_label",
			Message:  fmt.Sprintf("index label %q is also a timestamp column", t.IndexLabel),
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	known := false
	for _, k := range KnownStorageKinds {
		if s.Kind == k {
			known = true
			break
		}
	}
	if !known {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (want one of %s)", s.Kind, strings.Join(KnownStorageKinds, ", ")),
		})
	}

	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "destination table must not be empty",
		})
	}

	if s.DB.DSN == "" {
		if s.Kind == "sqlite" {
			if s.DB.Name == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "storage.db.name",
					Message:  "sqlite requires a database file name (or dsn)",
				})
			}
		} else {
			if s.DB.Host == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "storage.db.host",
					Message:  "host must not be empty",
				})
			}
			if s.DB.Name == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "storage.db.name",
					Message:  "database name must not be empty",
				})
			}
			if s.DB.User == "" {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     "storage.db.user",
					Message:  "user is empty; the driver default will be used",
				})
			}
		}
	}
	if s.DB.Port < 0 || s.DB.Port > 65535 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.port",
			Message:  fmt.Sprintf("port %d out of range", s.DB.Port),
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	if r.ChunkSize < 1 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "runtime.chunk_size",
			Message:  fmt.Sprintf("chunk_size must be >= 1, got %d", r.ChunkSize),
		}}
	}
	return nil
}
