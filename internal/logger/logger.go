// Package logger builds the zerolog loggers handed to every component.
package logger

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures New.
type Options struct {
	Format  Format
	Verbose bool
}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatConsole:
		return FormatConsole, nil
	case FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want console or json)", s)
	}
}

// New returns a logger writing to w. Verbose lowers the level to debug and
// adds the caller.
func New(w io.Writer, opt Options) zerolog.Logger {
	out := w
	if opt.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05.99",
			FormatCaller: func(i interface{}) string {
				return filepath.Base(fmt.Sprintf("%s", i))
			},
		}
	}

	ctx := zerolog.New(out).With().Timestamp()
	level := zerolog.InfoLevel
	if opt.Verbose {
		level = zerolog.DebugLevel
		ctx = ctx.Caller()
	}
	return ctx.Logger().Level(level)
}
