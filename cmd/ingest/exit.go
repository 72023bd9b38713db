package main

import (
	"errors"
	"io/fs"

	"github.com/dylantanyz/zoomcamp2024/internal/config"
	"github.com/dylantanyz/zoomcamp2024/internal/datasource"
	"github.com/dylantanyz/zoomcamp2024/internal/loader"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitSource  = 3
	ExitParse   = 4
	ExitWrite   = 5
	ExitConnect = 6
)

// usageError marks bad flags, arguments or configuration.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// connectError marks a failure to open the destination database.
type connectError struct{ err error }

func (e *connectError) Error() string { return "connect: " + e.err.Error() }
func (e *connectError) Unwrap() error { return e.err }

// exitCode maps an error returned by the root command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		ue    *usageError
		issue config.Issue
		de    *datasource.DownloadError
		pe    *loader.ParseError
		we    *loader.WriteError
		ce    *connectError
	)
	switch {
	case errors.As(err, &ue), errors.As(err, &issue):
		return ExitUsage
	case errors.As(err, &de):
		return ExitSource
	case errors.As(err, &pe):
		return ExitParse
	case errors.As(err, &we):
		return ExitWrite
	case errors.As(err, &ce):
		return ExitConnect
	case errors.Is(err, fs.ErrNotExist):
		// The local CSV is missing: download skipped or failed.
		return ExitSource
	}
	return ExitGeneral
}
