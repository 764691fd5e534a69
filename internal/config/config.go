// Package config provides configuration management for nsipops.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (NSIPOPS_*)
// 3. Project config (.nsipops/config.yaml in cwd)
// 4. Home config (~/.nsipops/config.yaml)
// 5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all nsipops configuration.
type Config struct {
	// Output controls the default output format (table, json).
	Output string `yaml:"output" json:"output"`

	// BaseDir is the nsipops data directory (default: ~/.nsipops).
	BaseDir string `yaml:"base_dir" json:"base_dir"`

	// Verbose enables verbose diagnostic logging.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// API settings for the outbound NSIP endpoint.
	API APIConfig `yaml:"api" json:"api"`

	// Cache settings for the TTL result cache.
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Retry settings for the failure-recovery probe.
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Alerts settings for the repeated-failure notifier.
	Alerts AlertConfig `yaml:"alerts" json:"alerts"`
}

// APIConfig holds settings for the public NSIP search API.
type APIConfig struct {
	// BaseURL is the API root. The endpoint is read-only and unauthenticated.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// TimeoutSeconds is the fixed socket timeout on every call.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`

	// RatePerSecond caps outbound requests client-side.
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"`

	// Burst is the rate limiter burst size.
	Burst int `yaml:"burst" json:"burst"`
}

// CacheConfig holds settings for the TTL result cache.
type CacheConfig struct {
	// TTLMinutes is how long a cached result stays fresh.
	TTLMinutes int `yaml:"ttl_minutes" json:"ttl_minutes"`
}

// RetryConfig holds the fixed retry schedule used after API failures.
type RetryConfig struct {
	// MaxAttempts is the fixed number of recovery probes.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`

	// DelaysSeconds are the sleeps before each attempt. Must be strictly
	// increasing; validated at load time.
	DelaysSeconds []int `yaml:"delays_seconds" json:"delays_seconds"`
}

// AlertConfig holds thresholds for the repeated-failure notifier.
type AlertConfig struct {
	// FailureThreshold is how many failures inside the window trip an alert.
	FailureThreshold int `yaml:"failure_threshold" json:"failure_threshold"`

	// WindowMinutes is the sliding window for counting failures.
	WindowMinutes int `yaml:"window_minutes" json:"window_minutes"`

	// CooldownMinutes suppresses repeat alerts after one fires.
	CooldownMinutes int `yaml:"cooldown_minutes" json:"cooldown_minutes"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput  = "table"
	defaultAPIBase = "http://nsipsearch.nsip.org/api"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output:  defaultOutput,
		BaseDir: defaultBaseDir(),
		Verbose: false,
		API: APIConfig{
			BaseURL:        defaultAPIBase,
			TimeoutSeconds: 5,
			RatePerSecond:  5,
			Burst:          5,
		},
		Cache: CacheConfig{
			TTLMinutes: 60,
		},
		Retry: RetryConfig{
			MaxAttempts:   3,
			DelaysSeconds: []int{1, 2, 4},
		},
		Alerts: AlertConfig{
			FailureThreshold: 3,
			WindowMinutes:    5,
			CooldownMinutes:  10,
		},
	}
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nsipops"
	}
	return filepath.Join(home, ".nsipops")
}

// LogsDir is the directory holding JSONL logs and alert artifacts.
func (c *Config) LogsDir() string { return filepath.Join(c.BaseDir, "logs") }

// CacheDir is the directory holding TTL cache entries.
func (c *Config) CacheDir() string { return filepath.Join(c.BaseDir, "cache") }

// ExportsDir is the directory holding generated CSV, pedigree, and report files.
func (c *Config) ExportsDir() string { return filepath.Join(c.BaseDir, "exports") }

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// APITimeout returns the fixed API socket timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RetryDelays returns the retry schedule as durations.
func (c *Config) RetryDelays() []time.Duration {
	delays := make([]time.Duration, len(c.Retry.DelaysSeconds))
	for i, s := range c.Retry.DelaysSeconds {
		delays[i] = time.Duration(s) * time.Second
	}
	return delays
}

// AlertWindow returns the failure-counting window as a duration.
func (c *Config) AlertWindow() time.Duration {
	return time.Duration(c.Alerts.WindowMinutes) * time.Minute
}

// AlertCooldown returns the alert suppression period as a duration.
func (c *Config) AlertCooldown() time.Duration {
	return time.Duration(c.Alerts.CooldownMinutes) * time.Minute
}

// EnsureDirs creates the logs, cache, and exports directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.LogsDir(), c.CacheDir(), c.ExportsDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	homeConfig, _ := loadFromPath(homeConfigPath())
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	projectConfig, _ := loadFromPath(projectConfigPath())
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects config states the hooks cannot honor.
func (c *Config) validate() error {
	if c.Retry.MaxAttempts < 1 {
		return ErrRetryAttempts
	}
	if len(c.Retry.DelaysSeconds) < c.Retry.MaxAttempts {
		return ErrRetrySchedule
	}
	prev := 0
	for _, d := range c.Retry.DelaysSeconds {
		if d <= prev {
			return ErrRetrySchedule
		}
		prev = d
	}
	if c.Cache.TTLMinutes <= 0 {
		return ErrCacheTTL
	}
	if c.Alerts.FailureThreshold < 1 || c.Alerts.WindowMinutes < 1 {
		return ErrAlertThreshold
	}
	return nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nsipops", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("NSIPOPS_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".nsipops", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("NSIPOPS_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("NSIPOPS_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("NSIPOPS_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("NSIPOPS_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("NSIPOPS_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("NSIPOPS_CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.TTLMinutes = n
		}
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeInt overwrites dst with src when src is non-zero.
func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Output, src.Output)
	mergeStr(&dst.BaseDir, src.BaseDir)
	if src.Verbose {
		dst.Verbose = true
	}

	mergeAPI(&dst.API, &src.API)
	mergeInt(&dst.Cache.TTLMinutes, src.Cache.TTLMinutes)
	mergeRetry(&dst.Retry, &src.Retry)
	mergeAlerts(&dst.Alerts, &src.Alerts)

	return dst
}

// mergeAPI merges API-specific config fields.
func mergeAPI(dst, src *APIConfig) {
	mergeStr(&dst.BaseURL, src.BaseURL)
	mergeInt(&dst.TimeoutSeconds, src.TimeoutSeconds)
	if src.RatePerSecond != 0 {
		dst.RatePerSecond = src.RatePerSecond
	}
	mergeInt(&dst.Burst, src.Burst)
}

// mergeRetry merges retry config fields.
func mergeRetry(dst, src *RetryConfig) {
	mergeInt(&dst.MaxAttempts, src.MaxAttempts)
	if len(src.DelaysSeconds) > 0 {
		dst.DelaysSeconds = src.DelaysSeconds
	}
}

// mergeAlerts merges alert config fields.
func mergeAlerts(dst, src *AlertConfig) {
	mergeInt(&dst.FailureThreshold, src.FailureThreshold)
	mergeInt(&dst.WindowMinutes, src.WindowMinutes)
	mergeInt(&dst.CooldownMinutes, src.CooldownMinutes)
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.nsipops/config.yaml"
	SourceProject Source = ".nsipops/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

// resolved pairs a config value with its source for `nsip config --show`.
type resolved struct {
	Value  any    `json:"value"`
	Source Source `json:"source"`
}

// ResolvedConfig shows config values with their sources.
type ResolvedConfig struct {
	Output     resolved `json:"output"`
	BaseDir    resolved `json:"base_dir"`
	Verbose    resolved `json:"verbose"`
	APIBaseURL resolved `json:"api_base_url"`
	CacheTTL   resolved `json:"cache_ttl_minutes"`
}

// resolveStringField resolves a string through the precedence chain.
func resolveStringField(home, project, env, flag, def string) resolved {
	result := resolved{Value: def, Source: SourceDefault}
	if home != "" {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != "" {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != "" {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != "" {
		result = resolved{Value: flag, Source: SourceFlag}
	}
	return result
}

// Resolve returns configuration with source tracking.
// Uses precedence chain: flags > env > project > home > defaults.
func Resolve(flagOutput, flagBaseDir string, flagVerbose bool) *ResolvedConfig {
	homeConfig, _ := loadFromPath(homeConfigPath())
	projectConfig, _ := loadFromPath(projectConfigPath())

	var homeOutput, homeBaseDir, homeAPIBase string
	var homeTTL int
	var homeVerbose bool
	if homeConfig != nil {
		homeOutput = homeConfig.Output
		homeBaseDir = homeConfig.BaseDir
		homeAPIBase = homeConfig.API.BaseURL
		homeTTL = homeConfig.Cache.TTLMinutes
		homeVerbose = homeConfig.Verbose
	}

	var projectOutput, projectBaseDir, projectAPIBase string
	var projectTTL int
	var projectVerbose bool
	if projectConfig != nil {
		projectOutput = projectConfig.Output
		projectBaseDir = projectConfig.BaseDir
		projectAPIBase = projectConfig.API.BaseURL
		projectTTL = projectConfig.Cache.TTLMinutes
		projectVerbose = projectConfig.Verbose
	}

	rc := &ResolvedConfig{
		Output:     resolveStringField(homeOutput, projectOutput, os.Getenv("NSIPOPS_OUTPUT"), flagOutput, defaultOutput),
		BaseDir:    resolveStringField(homeBaseDir, projectBaseDir, os.Getenv("NSIPOPS_BASE_DIR"), flagBaseDir, defaultBaseDir()),
		APIBaseURL: resolveStringField(homeAPIBase, projectAPIBase, os.Getenv("NSIPOPS_API_BASE_URL"), "", defaultAPIBase),
		Verbose:    resolved{Value: false, Source: SourceDefault},
		CacheTTL:   resolved{Value: 60, Source: SourceDefault},
	}

	if homeTTL > 0 {
		rc.CacheTTL = resolved{Value: homeTTL, Source: SourceHome}
	}
	if projectTTL > 0 {
		rc.CacheTTL = resolved{Value: projectTTL, Source: SourceProject}
	}
	if v := os.Getenv("NSIPOPS_CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rc.CacheTTL = resolved{Value: n, Source: SourceEnv}
		}
	}

	// Verbose uses OR semantics through the chain.
	if homeVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceHome}
	}
	if projectVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceProject}
	}
	if v := os.Getenv("NSIPOPS_VERBOSE"); v == "true" || v == "1" {
		rc.Verbose = resolved{Value: true, Source: SourceEnv}
	}
	if flagVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceFlag}
	}

	return rc
}
