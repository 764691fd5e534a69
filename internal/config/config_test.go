package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the project config at temp dirs so the real
// user config never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NSIPOPS_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	return home
}

func writeHomeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".nsipops")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg := Default()

	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "http://nsipsearch.nsip.org/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, cfg.RetryDelays())
	assert.Equal(t, 3, cfg.Alerts.FailureThreshold)
	assert.Equal(t, 5*time.Minute, cfg.AlertWindow())
	assert.Equal(t, 10*time.Minute, cfg.AlertCooldown())
}

func TestLoadDefaultsValidate(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
}

func TestLoadHomeConfig(t *testing.T) {
	home := isolate(t)
	writeHomeConfig(t, home, "output: json\ncache:\n  ttl_minutes: 30\n")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL())
	// Untouched sections keep defaults.
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestProjectOverridesHome(t *testing.T) {
	home := isolate(t)
	writeHomeConfig(t, home, "output: json\n")

	project := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(project, []byte("output: table\napi:\n  timeout_seconds: 10\n"), 0o600))
	t.Setenv("NSIPOPS_CONFIG", project)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, 10*time.Second, cfg.APITimeout())
}

func TestEnvOverridesFiles(t *testing.T) {
	home := isolate(t)
	writeHomeConfig(t, home, "output: json\n")
	t.Setenv("NSIPOPS_OUTPUT", "table")
	t.Setenv("NSIPOPS_API_BASE_URL", "http://localhost:8080/api")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
}

func TestFlagsOverrideEverything(t *testing.T) {
	isolate(t)
	t.Setenv("NSIPOPS_OUTPUT", "json")

	cfg, err := Load(&Config{Output: "table"})
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
}

func TestValidateRejectsBadRetrySchedule(t *testing.T) {
	isolate(t)

	_, err := Load(&Config{Retry: RetryConfig{MaxAttempts: 3, DelaysSeconds: []int{4, 2, 1}}})
	assert.ErrorIs(t, err, ErrRetrySchedule)

	_, err = Load(&Config{Retry: RetryConfig{MaxAttempts: 5, DelaysSeconds: []int{1, 2, 4}}})
	assert.ErrorIs(t, err, ErrRetrySchedule)
}

func TestValidateRejectsBadTTL(t *testing.T) {
	isolate(t)
	_, err := Load(&Config{Cache: CacheConfig{TTLMinutes: -1}})
	assert.ErrorIs(t, err, ErrCacheTTL)
}

func TestDirHelpers(t *testing.T) {
	cfg := &Config{BaseDir: "/tmp/nsipops"}
	assert.Equal(t, "/tmp/nsipops/logs", cfg.LogsDir())
	assert.Equal(t, "/tmp/nsipops/cache", cfg.CacheDir())
	assert.Equal(t, "/tmp/nsipops/exports", cfg.ExportsDir())
}

func TestEnsureDirs(t *testing.T) {
	cfg := &Config{BaseDir: filepath.Join(t.TempDir(), "data")}
	require.NoError(t, cfg.EnsureDirs())
	for _, dir := range []string{cfg.LogsDir(), cfg.CacheDir(), cfg.ExportsDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestResolveTracksSources(t *testing.T) {
	home := isolate(t)
	writeHomeConfig(t, home, "output: json\n")
	t.Setenv("NSIPOPS_CACHE_TTL_MINUTES", "15")

	rc := Resolve("", "", true)
	assert.Equal(t, "json", rc.Output.Value)
	assert.Equal(t, SourceHome, rc.Output.Source)
	assert.Equal(t, 15, rc.CacheTTL.Value)
	assert.Equal(t, SourceEnv, rc.CacheTTL.Source)
	assert.Equal(t, SourceFlag, rc.Verbose.Source)
	assert.Equal(t, SourceDefault, rc.APIBaseURL.Source)
}
