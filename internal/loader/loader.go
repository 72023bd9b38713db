// Package loader drives an ingestion run: it pulls one chunk of CSV records
// at a time, converts the configured timestamp columns, appends the chunk to
// the destination table, and logs how long the chunk took.
//
// A run is strictly sequential. The next chunk is not read until the previous
// one has been written, so at most one chunk is held in memory. Each chunk is
// written all-or-nothing; a failure stops the run and leaves every earlier
// chunk committed.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dylantanyz/zoomcamp2024/internal/config"
	"github.com/dylantanyz/zoomcamp2024/internal/datasource"
	"github.com/dylantanyz/zoomcamp2024/internal/datasource/file"
	"github.com/dylantanyz/zoomcamp2024/internal/ddl"
	"github.com/dylantanyz/zoomcamp2024/internal/metrics"
	csvparser "github.com/dylantanyz/zoomcamp2024/internal/parser/csv"
	"github.com/dylantanyz/zoomcamp2024/internal/storage"
	"github.com/dylantanyz/zoomcamp2024/internal/transformer"
)

// Config describes one run.
type Config struct {
	// Kind selects the DDL dialect used to create the table.
	Kind string
	// Table is the destination, optionally "schema.table".
	Table string

	ChunkSize        int
	TimestampColumns []string
	TimestampLayouts []string
	// ColumnKinds pins the kind of the named columns instead of inferring it
	// from the first chunk.
	ColumnKinds map[string]ddl.Kind
	// IndexLabel, when set, prepends a row-ordinal column with this name.
	IndexLabel string

	CSV csvparser.Options
	// Job labels metrics.
	Job string
}

// Summary is what a completed run did.
type Summary struct {
	Chunks  int
	Rows    int64
	Elapsed time.Duration
}

// Option customizes a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// Loader appends a CSV document to one table through a storage.Repository.
type Loader struct {
	repo storage.Repository
	cfg  Config
	log  zerolog.Logger
	now  func() time.Time
}

// New returns a Loader writing through repo. Zero ChunkSize means
// config.DefaultChunkSize; nil TimestampColumns means the taxi pickup and
// dropoff columns. Pass an empty non-nil slice to convert nothing.
func New(repo storage.Repository, cfg Config, opts ...Option) *Loader {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = config.DefaultChunkSize
	}
	if cfg.TimestampColumns == nil {
		cfg.TimestampColumns = config.DefaultTimestampColumns
	}
	if cfg.Job == "" {
		cfg.Job = config.DefaultJob
	}
	l := &Loader{
		repo: repo,
		cfg:  cfg,
		log:  zerolog.Nop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// RunFile opens the local file at path and runs it. A missing file yields an
// error satisfying errors.Is(err, fs.ErrNotExist).
func (l *Loader) RunFile(ctx context.Context, path string) (Summary, error) {
	l.log.Debug().Str("path", path).Msg("loading local file")
	return l.RunSource(ctx, file.NewLocal(path))
}

// RunSource opens src and runs it.
func (l *Loader) RunSource(ctx context.Context, src datasource.Source) (Summary, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer rc.Close()
	return l.Run(ctx, rc)
}

// Run loads every chunk of r until r is exhausted or a chunk fails.
func (l *Loader) Run(ctx context.Context, r io.Reader) (Summary, error) {
	if l.cfg.Table == "" {
		return Summary{}, errors.New("loader: table must not be empty")
	}
	if l.cfg.ChunkSize < 1 {
		return Summary{}, fmt.Errorf("loader: chunk size must be >= 1, got %d", l.cfg.ChunkSize)
	}

	start := l.now()
	var sum Summary

	cr, err := csvparser.NewChunkReader(r, l.cfg.ChunkSize, l.cfg.CSV)
	if err != nil {
		return sum, readError(0, err)
	}
	header := cr.Header()
	if err := requireColumns(header, l.cfg.TimestampColumns, "timestamp column"); err != nil {
		return sum, &ParseError{Chunk: 0, Err: err}
	}
	if err := requireColumns(header, kindColumns(l.cfg.ColumnKinds), "column"); err != nil {
		return sum, &ParseError{Chunk: 0, Err: err}
	}
	l.log.Debug().Strs("columns", header).Int("chunk_size", l.cfg.ChunkSize).Msg("header read")

	var coercer *transformer.Coercer
	for {
		if err := ctx.Err(); err != nil {
			return l.finish(sum, start), err
		}

		t0 := l.now()
		ch, err := l.nextChunk(cr)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l.finish(sum, start), readError(sum.Chunks, err)
		}

		if coercer == nil {
			kinds := transformer.InferKinds(header, ch.Rows, l.cfg.TimestampColumns)
			transformer.OverrideKinds(header, kinds, l.cfg.ColumnKinds)
			coercer, err = transformer.NewCoercer(header, kinds, l.cfg.TimestampLayouts, l.cfg.IndexLabel)
			if err != nil {
				return l.finish(sum, start), &ParseError{Chunk: ch.Index, Err: err}
			}
		}

		batch, err := l.transform(coercer, ch)
		if err != nil {
			return l.finish(sum, start), &ParseError{Chunk: ch.Index, Err: err}
		}

		if ch.Index == 0 {
			if err := l.ensureTable(ctx, coercer.Columns(), coercer.Kinds()); err != nil {
				return l.finish(sum, start), &WriteError{Chunk: ch.Index, Rows: batch.Len(), Err: err}
			}
		}

		n, err := l.writeChunk(ctx, batch)
		if err != nil {
			return l.finish(sum, start), &WriteError{Chunk: ch.Index, Rows: batch.Len(), Err: err}
		}

		took := l.now().Sub(t0)
		sum.Chunks++
		sum.Rows += n
		metrics.RecordStep(l.cfg.Job, "chunk", nil, took)
		metrics.RecordBatches(l.cfg.Job, 1)

		l.log.Info().
			Int("chunk", ch.Index).
			Int("rows", batch.Len()).
			Int64("total_rows", sum.Rows).
			Msgf("inserted another chunk, took %.3f", took.Seconds())
	}

	sum = l.finish(sum, start)
	l.log.Info().
		Int("chunks", sum.Chunks).
		Int64("rows", sum.Rows).
		Str("table", l.cfg.Table).
		Dur("elapsed", sum.Elapsed).
		Msg("ingestion complete")
	return sum, nil
}

func (l *Loader) finish(sum Summary, start time.Time) Summary {
	sum.Elapsed = l.now().Sub(start)
	return sum
}

// nextChunk returns io.EOF once the source is exhausted.
func (l *Loader) nextChunk(cr *csvparser.ChunkReader) (*csvparser.Chunk, error) {
	t0 := l.now()
	ch, err := cr.Next()
	if errors.Is(err, io.EOF) {
		return nil, err
	}
	metrics.RecordStep(l.cfg.Job, "read", err, l.now().Sub(t0))
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(l.cfg.Job, "read", int64(ch.Len()))
	return ch, nil
}

func (l *Loader) transform(c *transformer.Coercer, ch *csvparser.Chunk) (transformer.Batch, error) {
	t0 := l.now()
	b, err := c.Apply(ch)
	metrics.RecordStep(l.cfg.Job, "transform", err, l.now().Sub(t0))
	return b, err
}

// ensureTable creates the destination if absent. It runs once per run, after
// the first chunk has been read and before it is written.
func (l *Loader) ensureTable(ctx context.Context, columns []string, kinds []ddl.Kind) error {
	t0 := l.now()
	def, err := ddl.FromKinds(l.cfg.Table, columns, kinds)
	if err == nil {
		err = storage.EnsureTable(ctx, l.cfg.Kind, l.repo, def)
	}
	metrics.RecordStep(l.cfg.Job, "ensure_table", err, l.now().Sub(t0))
	if err != nil {
		return err
	}
	l.log.Debug().Str("table", l.cfg.Table).Str("kind", l.cfg.Kind).Msg("table ensured")
	return nil
}

// writeChunk appends one batch in a single all-or-nothing unit. No retry.
func (l *Loader) writeChunk(ctx context.Context, b transformer.Batch) (int64, error) {
	t0 := l.now()
	n, err := l.repo.CopyFrom(ctx, b.Columns, b.Rows)
	metrics.RecordStep(l.cfg.Job, "write", err, l.now().Sub(t0))
	if err != nil {
		return 0, err
	}
	metrics.RecordRow(l.cfg.Job, "inserted", n)
	return n, nil
}

// readError classifies a reader failure: malformed CSV is a ParseError, any
// other error (I/O on the source) is returned as-is with the chunk noted.
func readError(chunk int, err error) error {
	var pe *csvparser.ParseError
	if errors.As(err, &pe) || errors.Is(err, csvparser.ErrNoHeader) {
		return &ParseError{Chunk: chunk, Err: err}
	}
	return fmt.Errorf("chunk %d: read: %w", chunk, err)
}

// requireColumns fails when a configured column is not in the header.
func requireColumns(header, want []string, what string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := have[w]; !ok {
			return fmt.Errorf("%s %q not in header", what, w)
		}
	}
	return nil
}

func kindColumns(m map[string]ddl.Kind) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
