package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dylantanyz/zoomcamp2024/internal/config"
	"github.com/dylantanyz/zoomcamp2024/internal/datasource"
	"github.com/dylantanyz/zoomcamp2024/internal/datasource/gcs"
	"github.com/dylantanyz/zoomcamp2024/internal/datasource/httpds"
	"github.com/dylantanyz/zoomcamp2024/internal/loader"
	"github.com/dylantanyz/zoomcamp2024/internal/logger"
	"github.com/dylantanyz/zoomcamp2024/internal/metrics"
	"github.com/dylantanyz/zoomcamp2024/internal/metrics/datadog"
	"github.com/dylantanyz/zoomcamp2024/internal/metrics/prompush"
	csvparser "github.com/dylantanyz/zoomcamp2024/internal/parser/csv"
	"github.com/dylantanyz/zoomcamp2024/internal/storage"

	// register all backends with the storage factory.
	_ "github.com/dylantanyz/zoomcamp2024/internal/storage/all"
)

// deps are the process-level seams tests replace.
type deps struct {
	lookupEnv    func(string) (string, bool)
	isTerminal   func() bool
	readPassword func() (string, error)
	// downloader returns the fetcher for rawURL and a release func.
	downloader func(ctx context.Context, rawURL string, src config.Source) (datasource.Downloader, func(), error)
	openRepo   func(ctx context.Context, cfg storage.Config) (storage.Repository, error)
}

func defaultDeps() deps {
	fd := int(os.Stdin.Fd())
	return deps{
		lookupEnv:  os.LookupEnv,
		isTerminal: func() bool { return term.IsTerminal(fd) },
		readPassword: func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		},
		downloader: newDownloader,
		openRepo:   storage.New,
	}
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	cmd := newRootCmd(d, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "ingest-data: %v\n", err)
	}
	return exitCode(err)
}

func newRootCmd(d deps, stderr io.Writer) *cobra.Command {
	var f flagValues
	cmd := &cobra.Command{
		Use:   "ingest-data",
		Short: "Download a CSV file and append it to a database table in chunks",
		Long: `ingest-data downloads a CSV file, reads it in fixed-size chunks, converts the
configured timestamp columns, and appends every chunk to a database table,
creating the table first if it does not exist.

Configuration is layered: built-in defaults, then --config, then INGEST_*
environment variables (after loading --env-file), then flags set on the
command line.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd, &f, d, stderr)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return &usageError{err} })
	bindFlags(cmd.Flags(), &f)
	return cmd
}

func runIngest(cmd *cobra.Command, f *flagValues, d deps, stderr io.Writer) error {
	ctx := cmd.Context()

	format, err := logger.ParseFormat(f.logFormat)
	if err != nil {
		return &usageError{err}
	}
	log := logger.New(stderr, logger.Options{Format: format, Verbose: f.verbose})

	cfg, err := resolveConfig(cmd.Flags(), f, d.lookupEnv)
	if err != nil {
		return err
	}
	if err := checkConfig(cfg, log); err != nil {
		return err
	}
	if f.validate {
		log.Info().Msg("configuration is valid")
		return nil
	}

	if needsPassword(cfg) && d.isTerminal() {
		fmt.Fprintf(stderr, "Password for %s@%s: ", cfg.Storage.DB.User, cfg.Storage.DB.Host)
		pw, err := d.readPassword()
		fmt.Fprintln(stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		cfg.Storage.DB.Password = pw
	}

	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Str("job", cfg.Job).Logger()

	flush, err := setupMetrics(f, cfg.Job, runID)
	if err != nil {
		return &usageError{err}
	}
	defer func() {
		if err := flush(); err != nil {
			log.Warn().Err(err).Msg("metrics flush failed")
		}
	}()

	if err := fetch(ctx, cfg.Job, cfg.Source, d, log); err != nil {
		return err
	}

	dsn, err := cfg.Storage.DB.ConnString(cfg.Storage.Kind)
	if err != nil {
		return &usageError{err}
	}
	log.Debug().Str("storage", cfg.Storage.Kind).Str("dsn", cfg.Storage.DB.Redacted(cfg.Storage.Kind)).Msg("connecting")

	t0 := time.Now()
	repo, err := d.openRepo(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: dsn, Table: cfg.Storage.DB.Table})
	metrics.RecordStep(cfg.Job, "connect", err, time.Since(t0))
	if err != nil {
		return &connectError{err}
	}
	defer repo.Close()

	kinds, err := cfg.Transform.Kinds()
	if err != nil {
		return &usageError{err}
	}
	l := loader.New(repo, loader.Config{
		Kind:             cfg.Storage.Kind,
		Table:            cfg.Storage.DB.Table,
		ChunkSize:        cfg.Runtime.ChunkSize,
		TimestampColumns: cfg.Transform.TimestampColumns,
		TimestampLayouts: cfg.Transform.TimestampLayouts,
		ColumnKinds:      kinds,
		IndexLabel:       cfg.Transform.IndexLabel,
		CSV:              csvparser.OptionsFrom(cfg.Parser.Options),
		Job:              cfg.Job,
	}, loader.WithLogger(log))

	if _, err := l.RunFile(ctx, cfg.Source.Path); err != nil {
		log.Error().Err(err).Msg("ingestion failed")
		return err
	}
	return nil
}

// checkConfig logs every issue and fails when any is an error.
func checkConfig(cfg config.Ingest, log zerolog.Logger) error {
	issues := config.ValidateIngest(cfg)
	var errs []error
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			log.Error().Str("path", iss.Path).Msg(iss.Message)
			errs = append(errs, iss)
			continue
		}
		log.Warn().Str("path", iss.Path).Msg(iss.Message)
	}
	return errors.Join(errs...)
}

func needsPassword(cfg config.Ingest) bool {
	db := cfg.Storage.DB
	return cfg.Storage.Kind != "sqlite" && db.DSN == "" && db.Password == "" && db.User != ""
}

// fetch downloads the source URL unless skipped. A failed download aborts the
// run unless ContinueOnDownloadError is set.
func fetch(ctx context.Context, job string, src config.Source, d deps, log zerolog.Logger) error {
	if src.SkipDownload {
		log.Info().Str("path", src.Path).Msg("download skipped")
		return nil
	}

	t0 := time.Now()
	dl, release, err := d.downloader(ctx, src.URL, src)
	if err == nil {
		defer release()
		var res datasource.Result
		res, err = dl.Download(ctx, src.URL, src.Path)
		if err == nil {
			log.Info().
				Str("url", src.URL).
				Str("path", res.Path).
				Int64("bytes", res.Bytes).
				Str("xxh3", res.Checksum).
				Dur("took", time.Since(t0)).
				Msg("downloaded")
		}
	}
	metrics.RecordStep(job, "download", err, time.Since(t0))
	if err == nil {
		return nil
	}

	if src.ContinueOnDownloadError {
		log.Error().Err(err).Str("path", src.Path).Msg("download failed; loading local file anyway")
		return nil
	}
	log.Error().Err(err).Msg("download failed")
	return err
}

// newDownloader picks the fetcher for the URL scheme.
func newDownloader(ctx context.Context, rawURL string, src config.Source) (datasource.Downloader, func(), error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, &datasource.DownloadError{URL: rawURL, Err: err}
	}
	switch u.Scheme {
	case "gs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, nil, &datasource.DownloadError{URL: rawURL, Err: fmt.Errorf("gcs client: %w", err)}
		}
		return gcs.NewDownloader(client), func() { client.Close() }, nil
	default:
		c := httpds.NewClient(httpds.Config{Timeout: time.Duration(src.TimeoutSeconds) * time.Second})
		return c, func() {}, nil
	}
}

// setupMetrics installs the selected backend and returns its flush func.
func setupMetrics(f *flagValues, job, runID string) (func() error, error) {
	switch f.metricsBackend {
	case "", "none":
		return func() error { return nil }, nil
	case "pushgateway":
		b, err := prompush.NewBackend(prompush.Config{
			GatewayURL: f.pushgatewayURL,
			Job:        job,
			Grouping:   map[string]string{"run_id": runID},
		})
		if err != nil {
			return nil, err
		}
		metrics.SetBackend(b)
		return metrics.Flush, nil
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       f.statsdAddr,
			GlobalTags: []string{"job:" + job, "run_id:" + runID},
		})
		if err != nil {
			return nil, err
		}
		metrics.SetBackend(b)
		return b.Close, nil
	}
	return nil, fmt.Errorf("unknown metrics backend %q (want none, pushgateway or datadog)", f.metricsBackend)
}
