package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/alert"
	"github.com/boshu2/nsipops/cli/internal/cache"
	"github.com/boshu2/nsipops/cli/internal/config"
	"github.com/boshu2/nsipops/cli/internal/nsip"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check NSIP integration health",
	Long: `Run health checks on the NSIP integration.

Validates configuration, data directories, hook installation, and API
reachability. Optional components are reported as warnings but do not
cause failure.

Examples:
  nsip doctor
  nsip doctor --json`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output results as JSON")
	rootCmd.AddCommand(doctorCmd)
}

type doctorCheck struct {
	Name     string `json:"name"`
	Status   string `json:"status"` // "pass", "warn", "fail"
	Detail   string `json:"detail"`
	Required bool   `json:"required"`
}

type doctorOutput struct {
	Checks  []doctorCheck `json:"checks"`
	Result  string        `json:"result"` // "HEALTHY", "DEGRADED", "UNHEALTHY"
	Summary string        `json:"summary"`
}

// hookEvents are the events the nsip manifest installs into.
var hookEvents = []string{"SessionStart", "PreToolUse", "PostToolUse", "UserPromptSubmit"}

// gatherDoctorChecks runs all doctor checks and returns the results.
func gatherDoctorChecks() []doctorCheck {
	checks := []doctorCheck{
		{Name: "nsip CLI", Status: "pass", Detail: fmt.Sprintf("v%s", version), Required: true},
	}

	cfg, check := checkConfig()
	checks = append(checks, check)
	if cfg == nil {
		cfg = config.Default()
	}
	checks = append(checks,
		checkDataDirs(cfg),
		checkHookCoverage(),
		checkAPIHealth(cfg),
		checkCache(cfg),
		checkAlertState(cfg),
	)
	return checks
}

func checkConfig() (*config.Config, doctorCheck) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, doctorCheck{Name: "Configuration", Status: "fail", Detail: err.Error(), Required: true}
	}
	return cfg, doctorCheck{Name: "Configuration", Status: "pass", Detail: "valid", Required: true}
}

func checkDataDirs(cfg *config.Config) doctorCheck {
	if err := cfg.EnsureDirs(); err != nil {
		return doctorCheck{Name: "Data Directories", Status: "fail",
			Detail: fmt.Sprintf("cannot create %s: %v", cfg.BaseDir, err), Required: true}
	}
	probe := filepath.Join(cfg.BaseDir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return doctorCheck{Name: "Data Directories", Status: "fail",
			Detail: fmt.Sprintf("%s not writable: %v", cfg.BaseDir, err), Required: true}
	}
	_ = os.Remove(probe)
	return doctorCheck{Name: "Data Directories", Status: "pass", Detail: cfg.BaseDir, Required: true}
}

// checkHookCoverage checks whether nsip hooks are installed in Claude settings.
func checkHookCoverage() doctorCheck {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return doctorCheck{Name: "Hook Coverage", Status: "fail",
			Detail: "cannot determine home directory", Required: false}
	}

	settingsPath := filepath.Join(homeDir, ".claude", "settings.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return doctorCheck{Name: "Hook Coverage", Status: "warn",
			Detail: "No Claude settings found — run 'nsip hooks install'", Required: false}
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return doctorCheck{Name: "Hook Coverage", Status: "warn",
			Detail: "settings.json is not valid JSON", Required: false}
	}
	hooksMap, ok := settings["hooks"].(map[string]any)
	if !ok {
		return doctorCheck{Name: "Hook Coverage", Status: "warn",
			Detail: "No hooks configured — run 'nsip hooks install'", Required: false}
	}

	installed := 0
	for _, event := range hookEvents {
		if hookGroupContainsNsip(hooksMap, event) {
			installed++
		}
	}
	switch {
	case installed == 0:
		return doctorCheck{Name: "Hook Coverage", Status: "warn",
			Detail: "No nsip hooks found — run 'nsip hooks install'", Required: false}
	case installed < len(hookEvents):
		return doctorCheck{Name: "Hook Coverage", Status: "warn",
			Detail: fmt.Sprintf("Partial coverage: %d/%d events — run 'nsip hooks install --force'",
				installed, len(hookEvents)), Required: false}
	}
	return doctorCheck{Name: "Hook Coverage", Status: "pass",
		Detail: fmt.Sprintf("Full coverage: %d/%d events", installed, len(hookEvents)), Required: false}
}

// checkAPIHealth probes the GetLastUpdate endpoint. A down API degrades
// the install but does not fail it: the fallback cache covers outages.
func checkAPIHealth(cfg *config.Config) doctorCheck {
	client := nsip.New(cfg.API.BaseURL, cfg.APITimeout())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout())
	defer cancel()

	report := client.CheckHealth(ctx)
	if !report.Healthy {
		return doctorCheck{Name: "NSIP API", Status: "warn",
			Detail: fmt.Sprintf("unreachable: %s", report.Error), Required: false}
	}
	detail := fmt.Sprintf("reachable in %s", report.Latency.Round(time.Millisecond))
	if report.DataUpdatedAt != "" {
		detail += fmt.Sprintf(", data updated %s", report.DataUpdatedAt)
	}
	return doctorCheck{Name: "NSIP API", Status: "pass", Detail: detail, Required: false}
}

func checkCache(cfg *config.Config) doctorCheck {
	store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
	stats, err := store.Stats()
	if err != nil {
		return doctorCheck{Name: "Result Cache", Status: "warn",
			Detail: fmt.Sprintf("cannot read cache: %v", err), Required: false}
	}
	return doctorCheck{Name: "Result Cache", Status: "pass",
		Detail: fmt.Sprintf("%d entries (%d fresh, %d stale)", stats.Entries, stats.Fresh, stats.Stale),
		Required: false}
}

func checkAlertState(cfg *config.Config) doctorCheck {
	tracker := alert.NewTracker(cfg.LogsDir(), cfg.Alerts.FailureThreshold,
		cfg.AlertWindow(), cfg.AlertCooldown())
	pending, err := tracker.Pending()
	if err != nil {
		return doctorCheck{Name: "Alert State", Status: "warn",
			Detail: fmt.Sprintf("cannot read failure state: %v", err), Required: false}
	}
	if len(pending) >= cfg.Alerts.FailureThreshold {
		return doctorCheck{Name: "Alert State", Status: "warn",
			Detail: fmt.Sprintf("%d failures in the last %d minutes",
				len(pending), cfg.Alerts.WindowMinutes), Required: false}
	}
	return doctorCheck{Name: "Alert State", Status: "pass",
		Detail: fmt.Sprintf("%d failures in window", len(pending)), Required: false}
}

// computeResult classifies the checks into an overall result.
func computeResult(checks []doctorCheck) doctorOutput {
	fails := 0
	warns := 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	output := doctorOutput{Checks: checks}
	switch {
	case fails > 0:
		output.Result = "UNHEALTHY"
		output.Summary = fmt.Sprintf("UNHEALTHY: %d check(s) failed", fails)
	case warns > 0:
		output.Result = "DEGRADED"
		output.Summary = fmt.Sprintf("DEGRADED: %d warning(s)", warns)
	default:
		output.Result = "HEALTHY"
		output.Summary = "HEALTHY: all checks passed"
	}
	return output
}

// doctorStatusIcon returns the display icon for a check status.
func doctorStatusIcon(status string) string {
	switch status {
	case "pass":
		return "✓"
	case "warn":
		return "!"
	case "fail":
		return "✗"
	}
	return "?"
}

// renderDoctorTable writes the formatted doctor output table.
func renderDoctorTable(w io.Writer, output doctorOutput) {
	fmt.Fprintln(w, "nsip doctor")
	fmt.Fprintln(w, "───────────")

	maxName := 0
	for _, c := range output.Checks {
		if len(c.Name) > maxName {
			maxName = len(c.Name)
		}
	}

	for _, c := range output.Checks {
		padding := strings.Repeat(" ", maxName-len(c.Name))
		fmt.Fprintf(w, "%s %s%s  %s\n", doctorStatusIcon(c.Status), c.Name, padding, c.Detail)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", output.Summary)
}

// hasRequiredFailure returns true if any required check has failed.
func hasRequiredFailure(checks []doctorCheck) bool {
	for _, c := range checks {
		if c.Required && c.Status == "fail" {
			return true
		}
	}
	return false
}

func runDoctor(cmd *cobra.Command, args []string) error {
	output := computeResult(gatherDoctorChecks())
	w := cmd.OutOrStdout()

	if doctorJSON {
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal doctor output: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	renderDoctorTable(w, output)

	if hasRequiredFailure(output.Checks) {
		return fmt.Errorf("doctor failed: one or more required checks did not pass")
	}
	return nil
}
