// Package config loads scraper settings from defaults, an optional YAML file,
// a .env file and the environment, in that order of precedence (last wins).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bookscraper/src/internal/httpx"
	"bookscraper/src/internal/tables"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "bookscrape.yaml"

type Config struct {
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	RespectRobots     bool          `yaml:"respect_robots"`
	CacheSize         int           `yaml:"cache_size"`
	Retries           int           `yaml:"retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	FallbackYear      int           `yaml:"fallback_year"`
	DumpDir           string        `yaml:"dump_dir"`
	DataDir           string        `yaml:"data_dir"`
	Output            string        `yaml:"output"`
	LogLevel          string        `yaml:"log_level"`
	Mongo             Mongo         `yaml:"mongo"`
	Tables            Tables        `yaml:"tables"`
}

type Mongo struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// Tables lists words added to the built-in title and credential tables.
type Tables struct {
	ExtraTitles      []string `yaml:"extra_titles"`
	ExtraCredentials []string `yaml:"extra_credentials"`
}

func Default() Config {
	return Config{
		BaseURL:           "https://www.amazon.com",
		UserAgent:         httpx.ChromeUA,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 1,
		CacheSize:         128,
		Retries:           1,
		RetryBackoff:      2 * time.Second,
		FallbackYear:      2001,
		DataDir:           "data/books",
		Output:            "json",
		LogLevel:          "info",
		Mongo: Mongo{
			Database:   "bookscrape",
			Collection: "books",
		},
	}
}

// Load builds the configuration. path may be empty, in which case DefaultFile
// is used if it exists.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s not found", path)
		}
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup("BOOKSCRAPE_BASE_URL"); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup("BOOKSCRAPE_USER_AGENT"); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := lookup("BOOKSCRAPE_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: BOOKSCRAPE_RPS: %w", err)
		}
		c.RequestsPerSecond = f
	}
	if v, ok := lookup("BOOKSCRAPE_FALLBACK_YEAR"); ok && v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: BOOKSCRAPE_FALLBACK_YEAR: %w", err)
		}
		c.FallbackYear = y
	}
	if v, ok := lookup("BOOKSCRAPE_DATA_DIR"); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup("BOOKSCRAPE_MONGO_URI"); ok && v != "" {
		c.Mongo.URI = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the values a run depends on.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base_url must be an http(s) URL: %q", c.BaseURL)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: requests_per_second must be positive: %v", c.RequestsPerSecond)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive: %v", c.Timeout)
	}
	if c.Retries < 0 || c.CacheSize < 0 {
		return errors.New("config: retries and cache_size must not be negative")
	}
	if c.FallbackYear <= 0 {
		return fmt.Errorf("config: fallback_year must be positive: %d", c.FallbackYear)
	}
	switch c.Output {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: output must be json or yaml: %q", c.Output)
	}
	return nil
}

// NameTables returns the built-in tables plus any configured extras.
func (c Config) NameTables() *tables.Tables {
	if len(c.Tables.ExtraTitles) == 0 && len(c.Tables.ExtraCredentials) == 0 {
		return tables.Default()
	}
	return tables.Default().Extend(c.Tables.ExtraTitles, c.Tables.ExtraCredentials)
}

// SlogLevel maps log_level to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
