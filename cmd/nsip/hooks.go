package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/embedded"
)

var (
	hooksOutputFormat string
	hooksDryRun       bool
	hooksForce        bool
)

// HookEntry represents a single hook command (e.g., {"type": "command", "command": "..."}).
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// HookGroup represents a hook group with optional matcher and a hooks array.
// Claude Code format: {"matcher": "mcp__nsip__.*", "hooks": [{"type": "command", "command": "..."}]}
type HookGroup struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []HookEntry `json:"hooks"`
}

// AllEventNames returns the Claude Code hook event names in canonical order.
// Only four carry nsip hooks, but show/install must walk the full set to
// leave foreign hooks untouched.
func AllEventNames() []string {
	return []string{
		"SessionStart", "SessionEnd",
		"PreToolUse", "PostToolUse",
		"UserPromptSubmit", "TaskCompleted",
		"Stop", "PreCompact",
		"SubagentStop", "WorktreeCreate",
		"WorktreeRemove", "ConfigChange",
	}
}

// HooksConfig represents the hooks section of Claude settings.
type HooksConfig struct {
	SessionStart     []HookGroup `json:"SessionStart,omitempty"`
	SessionEnd       []HookGroup `json:"SessionEnd,omitempty"`
	PreToolUse       []HookGroup `json:"PreToolUse,omitempty"`
	PostToolUse      []HookGroup `json:"PostToolUse,omitempty"`
	UserPromptSubmit []HookGroup `json:"UserPromptSubmit,omitempty"`
	TaskCompleted    []HookGroup `json:"TaskCompleted,omitempty"`
	Stop             []HookGroup `json:"Stop,omitempty"`
	PreCompact       []HookGroup `json:"PreCompact,omitempty"`
	SubagentStop     []HookGroup `json:"SubagentStop,omitempty"`
	WorktreeCreate   []HookGroup `json:"WorktreeCreate,omitempty"`
	WorktreeRemove   []HookGroup `json:"WorktreeRemove,omitempty"`
	ConfigChange     []HookGroup `json:"ConfigChange,omitempty"`
}

func (c *HooksConfig) eventGroupPtrs() map[string]*[]HookGroup {
	return map[string]*[]HookGroup{
		"SessionStart":     &c.SessionStart,
		"SessionEnd":       &c.SessionEnd,
		"PreToolUse":       &c.PreToolUse,
		"PostToolUse":      &c.PostToolUse,
		"UserPromptSubmit": &c.UserPromptSubmit,
		"TaskCompleted":    &c.TaskCompleted,
		"Stop":             &c.Stop,
		"PreCompact":       &c.PreCompact,
		"SubagentStop":     &c.SubagentStop,
		"WorktreeCreate":   &c.WorktreeCreate,
		"WorktreeRemove":   &c.WorktreeRemove,
		"ConfigChange":     &c.ConfigChange,
	}
}

// GetEventGroups returns the hook groups for a given event name.
func (c *HooksConfig) GetEventGroups(event string) []HookGroup {
	ptr := c.eventGroupPtrs()[event]
	if ptr == nil {
		return nil
	}
	return *ptr
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage Claude Code hooks for the NSIP integration",
	Long: `The hooks command manages the Claude Code hooks that wrap NSIP tool calls.

Subcommands:
  init      Print the hooks configuration
  install   Install hooks to ~/.claude/settings.json
  show      Display current hook configuration

The installed hooks validate LPN IDs before API calls, log and cache
results, recover from API failures with stale data and retry probes,
alert on failure bursts, enrich prompts and queries with breed and trait
context, and export results as CSV, breeding reports, and pedigrees.

Example workflow:
  nsip hooks init                  # Inspect the configuration
  nsip hooks install               # Install to Claude Code
  nsip hooks show                  # Verify the installation`,
}

var hooksInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Print the hooks configuration",
	Long: `Print the Claude Code hooks configuration for the NSIP integration.

Output formats:
  json     JSON for manual settings.json editing
  shell    The hook commands, one per line, for manual verification`,
	RunE: runHooksInit,
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install hooks to Claude Code settings",
	Long: `Install nsip hooks to ~/.claude/settings.json.

This command:
  1. Reads existing settings.json (if any)
  2. Merges nsip hooks with existing configuration, leaving foreign hooks alone
  3. Creates a backup of the original settings
  4. Writes the updated configuration

Use --force to overwrite existing nsip hooks.`,
	RunE: runHooksInstall,
}

var hooksShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current hook configuration",
	Long:  `Display the current Claude Code hooks configuration from ~/.claude/settings.json.`,
	RunE:  runHooksShow,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksInitCmd)
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksShowCmd)

	hooksInitCmd.Flags().StringVar(&hooksOutputFormat, "format", "json", "Output format: json, shell")

	hooksInstallCmd.Flags().BoolVar(&hooksDryRun, "dry-run", false, "Show what would be installed without making changes")
	hooksInstallCmd.Flags().BoolVar(&hooksForce, "force", false, "Overwrite existing nsip hooks")
}

// hooksManifest wraps the hooks.json file format which has a top-level "hooks" key.
type hooksManifest struct {
	Hooks *HooksConfig `json:"hooks"`
}

// ReadHooksManifest parses a hooks.json manifest from raw bytes.
func ReadHooksManifest(data []byte) (*HooksConfig, error) {
	var manifest hooksManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse hooks manifest: %w", err)
	}
	if manifest.Hooks == nil {
		return nil, fmt.Errorf("hooks manifest missing 'hooks' key")
	}
	return manifest.Hooks, nil
}

// findHooksManifest searches for hooks.json in known locations.
// Priority: ./hooks/hooks.json (repo checkout), ~/.nsipops/hooks.json
// (operator override), then the manifest embedded in the binary.
func findHooksManifest() []byte {
	paths := []string{"hooks/hooks.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".nsipops", "hooks.json"))
	}
	for _, p := range paths {
		if data, err := os.ReadFile(p); err == nil {
			return data
		}
	}
	return embedded.HooksJSON
}

// generateHooksConfig loads the hooks configuration from the manifest.
func generateHooksConfig() (*HooksConfig, error) {
	return ReadHooksManifest(findHooksManifest())
}

func runHooksInit(cmd *cobra.Command, args []string) error {
	hooks, err := generateHooksConfig()
	if err != nil {
		return err
	}

	switch hooksOutputFormat {
	case "json":
		wrapper := hooksManifest{Hooks: hooks}
		data, err := json.MarshalIndent(wrapper, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal hooks: %w", err)
		}
		fmt.Println(string(data))

	case "shell":
		for _, event := range AllEventNames() {
			groups := hooks.GetEventGroups(event)
			if len(groups) == 0 {
				continue
			}
			fmt.Printf("# %s\n", event)
			for _, g := range groups {
				for _, h := range g.Hooks {
					fmt.Println(h.Command)
				}
			}
		}

	default:
		return fmt.Errorf("unknown format: %s (use json or shell)", hooksOutputFormat)
	}

	return nil
}

func loadHooksSettings(settingsPath string) (map[string]any, error) {
	rawSettings := make(map[string]any)
	data, err := os.ReadFile(settingsPath)
	if err == nil {
		if err := json.Unmarshal(data, &rawSettings); err != nil {
			return nil, fmt.Errorf("parse existing settings: %w", err)
		}
		return rawSettings, nil
	}
	if os.IsNotExist(err) {
		return rawSettings, nil
	}
	return nil, fmt.Errorf("read settings: %w", err)
}

func cloneHooksMap(rawSettings map[string]any) map[string]any {
	hooksMap := make(map[string]any)
	if existing, ok := rawSettings["hooks"].(map[string]any); ok {
		for k, v := range existing {
			hooksMap[k] = v
		}
	}
	return hooksMap
}

// mergeHookEvents replaces nsip-managed groups with the manifest's groups,
// appending after whatever foreign groups each event already carries.
func mergeHookEvents(hooksMap map[string]any, newHooks *HooksConfig) int {
	installedEvents := 0
	for _, event := range AllEventNames() {
		newGroups := newHooks.GetEventGroups(event)
		if len(newGroups) == 0 {
			continue
		}
		groups := filterForeignHookGroups(hooksMap, event)
		for _, g := range newGroups {
			groups = append(groups, hookGroupToMap(g))
		}
		hooksMap[event] = groups
		installedEvents++
	}
	return installedEvents
}

func backupHooksSettings(settingsPath string) error {
	if _, err := os.Stat(settingsPath); err != nil {
		return nil
	}
	backupPath := fmt.Sprintf("%s.backup.%s", settingsPath, time.Now().Format("20060102-150405"))
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil
	}
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	fmt.Printf("Backed up existing settings to %s\n", backupPath)
	return nil
}

func writeHooksSettings(settingsPath string, rawSettings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return fmt.Errorf("create .claude directory: %w", err)
	}
	data, err := json.MarshalIndent(rawSettings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(settingsPath, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func printHooksInstallSummary(settingsPath string, newHooks *HooksConfig, installedEvents int) {
	fmt.Printf("✓ Installed nsip hooks to %s\n", settingsPath)
	fmt.Println()
	fmt.Printf("Hooks installed: %d event(s)\n", installedEvents)
	for _, event := range AllEventNames() {
		groups := newHooks.GetEventGroups(event)
		if len(groups) == 0 {
			continue
		}
		hookCount := 0
		for _, g := range groups {
			hookCount += len(g.Hooks)
		}
		fmt.Printf("  %s: %d hook(s)\n", event, hookCount)
	}
	fmt.Println()
	fmt.Println("Run 'nsip hooks show' to verify the installation.")
}

// existingNsipHooksBlock returns true if nsip hooks are already installed and --force was not set.
func existingNsipHooksBlock(rawSettings map[string]any) bool {
	if hooksForce {
		return false
	}
	existingHooks, ok := rawSettings["hooks"].(map[string]any)
	if !ok {
		return false
	}
	for _, event := range AllEventNames() {
		if hookGroupContainsNsip(existingHooks, event) {
			return true
		}
	}
	return false
}

func dryRunPrintSettings(settingsPath string, rawSettings map[string]any) (bool, error) {
	if !hooksDryRun {
		return false, nil
	}
	fmt.Println("[dry-run] Would write to", settingsPath)
	data, err := json.MarshalIndent(rawSettings, "", "  ")
	if err != nil {
		return true, fmt.Errorf("marshal hooks settings: %w", err)
	}
	fmt.Println(string(data))
	return true, nil
}

func runHooksInstall(cmd *cobra.Command, args []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home directory: %w", err)
	}

	settingsPath := filepath.Join(homeDir, ".claude", "settings.json")
	rawSettings, err := loadHooksSettings(settingsPath)
	if err != nil {
		return err
	}

	newHooks, err := generateHooksConfig()
	if err != nil {
		return err
	}

	if existingNsipHooksBlock(rawSettings) {
		fmt.Println("nsip hooks already installed. Use --force to overwrite.")
		return nil
	}

	hooksMap := cloneHooksMap(rawSettings)
	installedEvents := mergeHookEvents(hooksMap, newHooks)
	rawSettings["hooks"] = hooksMap

	if done, err := dryRunPrintSettings(settingsPath, rawSettings); done || err != nil {
		return err
	}

	if err := backupHooksSettings(settingsPath); err != nil {
		return err
	}
	if err := writeHooksSettings(settingsPath, rawSettings); err != nil {
		return err
	}
	printHooksInstallSummary(settingsPath, newHooks, installedEvents)
	return nil
}

// loadHooksMap reads settings.json and extracts the hooks map.
// Returns (nil, nil) with a printed message when hooks are absent or invalid.
func loadHooksMap(settingsPath string) (map[string]any, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No Claude settings found at", settingsPath)
			fmt.Println("Run 'nsip hooks install' to set up hooks.")
			return nil, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	hooks, ok := settings["hooks"]
	if !ok {
		fmt.Println("No hooks configured in", settingsPath)
		fmt.Println("Run 'nsip hooks install' to set up hooks.")
		return nil, nil
	}

	hooksMap, ok := hooks.(map[string]any)
	if !ok {
		fmt.Println("Invalid hooks format in", settingsPath)
		return nil, nil
	}
	return hooksMap, nil
}

func countRawGroupHooks(groups []any) int {
	count := 0
	for _, g := range groups {
		gm, ok := g.(map[string]any)
		if !ok {
			continue
		}
		if hs, ok := gm["hooks"].([]any); ok {
			count += len(hs)
		}
	}
	return count
}

func runHooksShow(cmd *cobra.Command, args []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home directory: %w", err)
	}

	settingsPath := filepath.Join(homeDir, ".claude", "settings.json")
	hooksMap, err := loadHooksMap(settingsPath)
	if err != nil {
		return err
	}
	if hooksMap == nil {
		return nil
	}

	nsipEvents := 0
	fmt.Println("Hook Event Coverage:")
	fmt.Println()
	for _, event := range AllEventNames() {
		groups, hasEvent := hooksMap[event].([]any)
		switch {
		case hasEvent && hookGroupContainsNsip(hooksMap, event):
			fmt.Printf("  ✓ %-20s %d hook(s)\n", event, countRawGroupHooks(groups))
			nsipEvents++
		case hasEvent && len(groups) > 0:
			fmt.Printf("  - %-20s %d foreign hook(s)\n", event, countRawGroupHooks(groups))
		default:
			fmt.Printf("  - %-20s not installed\n", event)
		}
	}

	fmt.Println()
	if nsipEvents > 0 {
		fmt.Printf("✓ nsip hooks are installed (%d event(s))\n", nsipEvents)
	} else {
		fmt.Println("⚠ nsip hooks not found. Run 'nsip hooks install' to set up.")
	}
	return nil
}

// rawGroupIsNsipManaged checks whether a single raw hook group contains an
// nsip-managed command.
func rawGroupIsNsipManaged(group map[string]any) bool {
	hooks, ok := group["hooks"].([]any)
	if !ok {
		return false
	}
	for _, h := range hooks {
		entry, ok := h.(map[string]any)
		if !ok {
			continue
		}
		if cmd, ok := entry["command"].(string); ok && isNsipManagedHookCommand(cmd) {
			return true
		}
	}
	return false
}

// hookGroupContainsNsip checks if any hook group in the given event contains an nsip command.
func hookGroupContainsNsip(hooksMap map[string]any, event string) bool {
	groups, ok := hooksMap[event].([]any)
	if !ok {
		return false
	}
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if ok && rawGroupIsNsipManaged(group) {
			return true
		}
	}
	return false
}

// filterForeignHookGroups returns hook groups that don't contain nsip commands.
func filterForeignHookGroups(hooksMap map[string]any, event string) []any {
	result := make([]any, 0)
	groups, ok := hooksMap[event].([]any)
	if !ok {
		return result
	}
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		if !rawGroupIsNsipManaged(group) {
			result = append(result, group)
		}
	}
	return result
}

func isNsipManagedHookCommand(cmd string) bool {
	return strings.HasPrefix(cmd, "nsip hook ") || strings.Contains(cmd, "/nsip hook ")
}

// hookGroupToMap converts a HookGroup to a map for JSON serialization.
func hookGroupToMap(g HookGroup) map[string]any {
	hooks := make([]map[string]any, len(g.Hooks))
	for i, h := range g.Hooks {
		entry := map[string]any{
			"type":    h.Type,
			"command": h.Command,
		}
		if h.Timeout > 0 {
			entry["timeout"] = h.Timeout
		}
		hooks[i] = entry
	}
	result := map[string]any{"hooks": hooks}
	if g.Matcher != "" {
		result["matcher"] = g.Matcher
	}
	return result
}
