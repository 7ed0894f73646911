// Package config loads service settings from env files, an optional YAML
// file and the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type Config struct {
	Addr            string        `yaml:"addr"`
	BooksPrefix     string        `yaml:"books_prefix"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
	HTTP  HTTPConfig  `yaml:"http"`

	// AuditSchedule is a cron spec for the orphan comment report. Empty disables it.
	AuditSchedule string `yaml:"audit_schedule"`
}

type StoreConfig struct {
	Driver       string        `yaml:"driver"`
	DataDir      string        `yaml:"data_dir"`
	BooksFile    string        `yaml:"books_file"`
	CommentsFile string        `yaml:"comments_file"`
	ImgDir       string        `yaml:"img_dir"`
	DSN          string        `yaml:"dsn"`
	Timeout      time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HTTPConfig struct {
	CORSOrigins    []string `yaml:"cors_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// BooksPath is the books collection file.
func (s StoreConfig) BooksPath() string {
	return filepath.Join(s.DataDir, s.BooksFile)
}

// CommentsPath is the comments collection file.
func (s StoreConfig) CommentsPath() string {
	return filepath.Join(s.DataDir, s.CommentsFile)
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":8080",
		BooksPrefix:     "/books",
		ShutdownTimeout: 10 * time.Second,
		Store: StoreConfig{
			Driver:       DriverFile,
			DataDir:      "data",
			BooksFile:    "books.json",
			CommentsFile: "comments.json",
			ImgDir:       "public/img/books",
			Timeout:      3 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			MaxBodyBytes:   1 << 20,
			MaxUploadBytes: 10 << 20,
			RateLimitBurst: 20,
		},
	}
}

// LoadEnvFiles reads .env and .env.local. Variables already present in the
// environment are not overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration: defaults, then CONFIG_FILE (YAML) if set,
// then environment variables.
func Load() (Config, error) {
	LoadEnvFiles()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.BooksPrefix = strings.TrimRight(cfg.BooksPrefix, "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	i64 := func(key string, dst *int64) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("APP_ADDR", &c.Addr)
	str("BOOKS_PREFIX", &c.BooksPrefix)
	dur("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
	str("AUDIT_SCHEDULE", &c.AuditSchedule)

	str("STORE_DRIVER", &c.Store.Driver)
	str("DATA_DIR", &c.Store.DataDir)
	str("BOOKS_FILE", &c.Store.BooksFile)
	str("COMMENTS_FILE", &c.Store.CommentsFile)
	str("IMG_DIR", &c.Store.ImgDir)
	str("DB_DSN", &c.Store.DSN)
	dur("DB_TIMEOUT", &c.Store.Timeout)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.HTTP.CORSOrigins = splitList(v)
	}
	i64("MAX_BODY_BYTES", &c.HTTP.MaxBodyBytes)
	i64("MAX_UPLOAD_BYTES", &c.HTTP.MaxUploadBytes)
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: %w", err))
		} else {
			c.HTTP.RateLimitRPS = f
		}
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST: %w", err))
		} else {
			c.HTTP.RateLimitBurst = n
		}
	}

	return errors.Join(errs...)
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("DB_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %q or %q)", c.Store.Driver, DriverFile, DriverPostgres)
	}
	if c.BooksPrefix != "" && !strings.HasPrefix(c.BooksPrefix, "/") {
		return fmt.Errorf("BOOKS_PREFIX must start with '/', got %q", c.BooksPrefix)
	}
	if c.HTTP.MaxBodyBytes <= 0 || c.HTTP.MaxUploadBytes <= 0 {
		return errors.New("MAX_BODY_BYTES and MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
