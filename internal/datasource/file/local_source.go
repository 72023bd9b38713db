// Package file opens the local copy of the source CSV.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dylantanyz/zoomcamp2024/internal/datasource"
)

// Local opens one file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open returns the file for reading. A canceled ctx short-circuits. Errors
// keep their cause, so errors.Is(err, fs.ErrNotExist) works for a missing
// file. Directories are rejected.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, fmt.Errorf("open %s: is a directory", l.path)
	}
	return f, nil
}

var _ datasource.Source = (*Local)(nil)
