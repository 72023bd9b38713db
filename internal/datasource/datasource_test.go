package datasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/xxh3"
)

func TestSave(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "nested", "output.csv")
	const body = "a,b\n1,2\n"

	res, err := Save(context.Background(), dest, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Path != dest || res.Bytes != int64(len(body)) {
		t.Fatalf("Result = %+v", res)
	}
	if want := fmt.Sprintf("%016x", xxh3.HashString(body)); res.Checksum != want {
		t.Fatalf("Checksum = %s; want %s", res.Checksum, want)
	}
	got, err := os.ReadFile(dest)
	if err != nil || string(got) != body {
		t.Fatalf("dest content = %q, %v", got, err)
	}
	if _, err := os.Stat(dest + ".part"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf(".part file left behind: %v", err)
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSave_FailureKeepsPreviousFile(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "output.csv")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(context.Background(), dest, brokenReader{}); err == nil {
		t.Fatal("expected error")
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "old" {
		t.Fatalf("previous file replaced: %q", got)
	}
	if _, err := os.Stat(dest + ".part"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf(".part file left behind: %v", err)
	}
}

func TestSave_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Save(ctx, filepath.Join(t.TempDir(), "x.csv"), strings.NewReader("data"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
}

func TestDownloadError(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	e := &DownloadError{URL: "http://x/y.csv", StatusCode: 404, Err: base}
	if !errors.Is(e, base) {
		t.Fatal("Unwrap lost the cause")
	}
	if !strings.Contains(e.Error(), "status 404") {
		t.Fatalf("Error() = %q", e.Error())
	}
	e2 := &DownloadError{URL: "http://x/y.csv", Err: base}
	if strings.Contains(e2.Error(), "status") {
		t.Fatalf("Error() = %q", e2.Error())
	}
}
