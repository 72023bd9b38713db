package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a JSON or YAML config file on top of Defaults(). The format is
// chosen by extension: .yaml/.yml use yaml.v3, everything else encoding/json.
// Unknown fields are rejected so typos do not silently fall back to defaults.
func Load(path string) (Ingest, error) {
	cfg := Defaults()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode json config %s: %w", path, err)
		}
	}
	if cfg.Parser.Options == nil {
		cfg.Parser.Options = Options{}
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is only
// an error when required is true.
func LoadDotEnv(path string, required bool) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Environment variables recognized by ApplyEnv.
const (
	EnvJob       = "INGEST_JOB"
	EnvURL       = "INGEST_URL"
	EnvOutput    = "INGEST_OUTPUT"
	EnvStorage   = "INGEST_STORAGE"
	EnvDSN       = "INGEST_DSN"
	EnvUser      = "INGEST_DB_USER"
	EnvPassword  = "INGEST_DB_PASSWORD"
	EnvHost      = "INGEST_DB_HOST"
	EnvPort      = "INGEST_DB_PORT"
	EnvDatabase  = "INGEST_DB_NAME"
	EnvTable     = "INGEST_TABLE"
	EnvChunkSize = "INGEST_CHUNK_SIZE"
)

// ApplyEnv overlays INGEST_* variables onto cfg. lookup is usually
// os.LookupEnv; tests pass a map-backed function.
func ApplyEnv(cfg *Ingest, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str(EnvJob, &cfg.Job)
	str(EnvURL, &cfg.Source.URL)
	str(EnvOutput, &cfg.Source.Path)
	str(EnvStorage, &cfg.Storage.Kind)
	str(EnvDSN, &cfg.Storage.DB.DSN)
	str(EnvUser, &cfg.Storage.DB.User)
	str(EnvPassword, &cfg.Storage.DB.Password)
	str(EnvHost, &cfg.Storage.DB.Host)
	str(EnvDatabase, &cfg.Storage.DB.Name)
	str(EnvTable, &cfg.Storage.DB.Table)

	if err := num(EnvPort, &cfg.Storage.DB.Port); err != nil {
		return err
	}
	return num(EnvChunkSize, &cfg.Runtime.ChunkSize)
}
