// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"docharvester/internal/dates"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Archive ArchiveConfig `mapstructure:"archive"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Dates   DatesConfig   `mapstructure:"dates"`
	Storage StorageConfig `mapstructure:"storage"`
	DB      DBConfig      `mapstructure:"db"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ArchiveConfig points at the remote archive and its page structure.
type ArchiveConfig struct {
	IndexURLs     []string `mapstructure:"index_urls"`
	LinkSelector  string   `mapstructure:"link_selector"`
	UserAgent     string   `mapstructure:"user_agent"`
	RespectRobots bool     `mapstructure:"respect_robots"`
}

// FilterConfig bounds the optional publication date filter.
type FilterConfig struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
	// IncludeUndated passes documents with no extractable date through
	// an active filter. Documented policy choice, not silent behavior.
	IncludeUndated bool `mapstructure:"include_undated"`
}

// DatesConfig fixes the extraction locale bias.
type DatesConfig struct {
	DayFirst bool `mapstructure:"day_first"`
}

// StorageConfig sets where downloaded documents land.
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// DBConfig controls access to the download record store.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// HTTPConfig configures transfer timeout and retry behavior.
type HTTPConfig struct {
	TimeoutSeconds   int `mapstructure:"timeout_seconds"`
	MaxRetries       int `mapstructure:"max_retries"`
	BackoffInitialMs int `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int `mapstructure:"backoff_max_ms"`
}

// MetricsConfig optionally exposes Prometheus metrics during a run.
type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// LoggingConfig toggles zap development features and the minimum level.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("archive.link_selector", "a[href]")
	v.SetDefault("archive.user_agent", "docharvester/0.1")
	v.SetDefault("archive.respect_robots", true)
	v.SetDefault("filter.include_undated", true)
	v.SetDefault("dates.day_first", true)
	v.SetDefault("storage.dir", "./documents")
	v.SetDefault("db.table", "downloads")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_initial_ms", 250)
	v.SetDefault("http.backoff_max_ms", 5000)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Archive.IndexURLs) == 0 {
		return fmt.Errorf("archive.index_urls must not be empty")
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir must be set")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if _, err := c.Filter.Range(); err != nil {
		return err
	}
	return nil
}

// Range parses the filter bounds. A nil result means no filtering.
func (f FilterConfig) Range() (*dates.Range, error) {
	if f.From == "" && f.To == "" {
		return nil, nil
	}
	var r dates.Range
	if f.From != "" {
		d, err := dates.Parse(f.From)
		if err != nil {
			return nil, fmt.Errorf("filter.from: %w", err)
		}
		r.From = &d
	}
	if f.To != "" {
		d, err := dates.Parse(f.To)
		if err != nil {
			return nil, fmt.Errorf("filter.to: %w", err)
		}
		r.To = &d
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return nil, fmt.Errorf("filter.from %s is after filter.to %s", r.From, r.To)
	}
	return &r, nil
}

// Timeout converts the HTTP timeout into a duration.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackoffInitial converts the initial backoff into a duration.
func (c HTTPConfig) BackoffInitial() time.Duration {
	return time.Duration(c.BackoffInitialMs) * time.Millisecond
}

// BackoffMax converts the backoff cap into a duration.
func (c HTTPConfig) BackoffMax() time.Duration {
	return time.Duration(c.BackoffMaxMs) * time.Millisecond
}
