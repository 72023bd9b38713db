package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dylantanyz/zoomcamp2024/internal/config"
)

// flagValues holds every command-line flag.
type flagValues struct {
	// Connection flags are snake_case to match existing invocations.
	user      string
	password  string
	host      string
	port      int
	db        string
	tableName string
	url       string

	storage string
	dsn     string
	output  string

	chunkSize        int
	timestampColumns []string
	timestampLayouts []string
	columnKinds      map[string]string
	indexLabel       string
	job              string

	configPath string
	envFile    string

	skipDownload            bool
	continueOnDownloadError bool
	downloadTimeout         int

	metricsBackend string
	pushgatewayURL string
	statsdAddr     string

	logFormat string
	verbose   bool
	validate  bool
}

func bindFlags(fs *pflag.FlagSet, f *flagValues) {
	d := config.Defaults()

	fs.StringVar(&f.user, "user", "", "database user")
	fs.StringVar(&f.password, "password", "", "database password (prompted for on a terminal when empty)")
	fs.StringVar(&f.host, "host", d.Storage.DB.Host, "database host")
	fs.IntVar(&f.port, "port", 0, "database port (0 = backend default)")
	fs.StringVar(&f.db, "db", "", "database name (file path for sqlite)")
	fs.StringVar(&f.tableName, "table_name", "", "destination table, optionally schema-qualified")
	fs.StringVar(&f.url, "url", "", "URL of the CSV file (http, https or gs)")

	fs.StringVar(&f.storage, "storage", d.Storage.Kind, "destination backend: "+strings.Join(config.KnownStorageKinds, "|"))
	fs.StringVar(&f.dsn, "dsn", "", "driver connection string; overrides user/password/host/port/db")
	fs.StringVarP(&f.output, "output", "o", d.Source.Path, "local file the CSV is downloaded to")

	fs.IntVar(&f.chunkSize, "chunk-size", d.Runtime.ChunkSize, "rows per chunk")
	fs.StringSliceVar(&f.timestampColumns, "timestamp-columns", d.Transform.TimestampColumns, "columns converted to timestamps")
	fs.StringArrayVar(&f.timestampLayouts, "timestamp-layouts", nil, "Go time layouts tried in order (repeatable)")
	fs.StringToStringVar(&f.columnKinds, "column-kinds", nil, "pin column kinds instead of inferring them, e.g. VendorID=int")
	fs.StringVar(&f.indexLabel, "index-label", "", "prepend a row-ordinal column with this name")
	fs.StringVar(&f.job, "job", d.Job, "job name for logs and metrics")

	fs.StringVarP(&f.configPath, "config", "c", "", "JSON or YAML config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading INGEST_* variables")

	fs.BoolVar(&f.skipDownload, "skip-download", false, "load the existing local file without downloading")
	fs.BoolVar(&f.continueOnDownloadError, "continue-on-download-error", false, "log a failed download and load the local file anyway")
	fs.IntVar(&f.downloadTimeout, "download-timeout", 0, "seconds allowed for the whole download (0 = no limit)")

	fs.StringVar(&f.metricsBackend, "metrics-backend", "none", "metrics backend: none|pushgateway|datadog")
	fs.StringVar(&f.pushgatewayURL, "pushgateway-url", os.Getenv("PUSHGATEWAY_URL"), "Pushgateway base URL")
	fs.StringVar(&f.statsdAddr, "statsd-addr", "127.0.0.1:8125", "DogStatsD address")

	fs.StringVar(&f.logFormat, "log-format", "console", "log format: console|json")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logs")
	fs.BoolVar(&f.validate, "validate", false, "validate the configuration and exit")
}

// resolveConfig layers defaults, the config file, the environment and the
// flags the user actually set, in that order.
func resolveConfig(fs *pflag.FlagSet, f *flagValues, lookupEnv func(string) (string, bool)) (config.Ingest, error) {
	cfg := config.Defaults()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, &usageError{err}
		}
	}

	if err := config.LoadDotEnv(f.envFile, fs.Changed("env-file")); err != nil {
		return cfg, &usageError{err}
	}
	if err := config.ApplyEnv(&cfg, lookupEnv); err != nil {
		return cfg, &usageError{fmt.Errorf("environment: %w", err)}
	}

	str := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	str("user", &cfg.Storage.DB.User, f.user)
	str("password", &cfg.Storage.DB.Password, f.password)
	str("host", &cfg.Storage.DB.Host, f.host)
	str("db", &cfg.Storage.DB.Name, f.db)
	str("table_name", &cfg.Storage.DB.Table, f.tableName)
	str("url", &cfg.Source.URL, f.url)
	str("storage", &cfg.Storage.Kind, f.storage)
	str("dsn", &cfg.Storage.DB.DSN, f.dsn)
	str("output", &cfg.Source.Path, f.output)
	str("index-label", &cfg.Transform.IndexLabel, f.indexLabel)
	str("job", &cfg.Job, f.job)

	if fs.Changed("port") {
		cfg.Storage.DB.Port = f.port
	}
	if fs.Changed("chunk-size") {
		cfg.Runtime.ChunkSize = f.chunkSize
	}
	if fs.Changed("timestamp-columns") {
		cfg.Transform.TimestampColumns = f.timestampColumns
	}
	if fs.Changed("column-kinds") {
		cfg.Transform.ColumnKinds = f.columnKinds
	}
	if fs.Changed("timestamp-layouts") {
		cfg.Transform.TimestampLayouts = f.timestampLayouts
	}
	if fs.Changed("skip-download") {
		cfg.Source.SkipDownload = f.skipDownload
	}
	if fs.Changed("continue-on-download-error") {
		cfg.Source.ContinueOnDownloadError = f.continueOnDownloadError
	}
	if fs.Changed("download-timeout") {
		cfg.Source.TimeoutSeconds = f.downloadTimeout
	}
	return cfg, nil
}
