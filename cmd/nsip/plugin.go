package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/embedded"
	"github.com/boshu2/nsipops/cli/internal/manifest"
)

var (
	pluginDryRun bool
	pluginForce  bool
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage the NSIP plugin surface (data server and slash commands)",
	Long: `The plugin command surfaces the embedded plugin manifest: the external
NSIP data server that answers mcp__nsip__* tool calls, and the prompt
templates exposed as slash commands.

Subcommands:
  show      Display the manifest
  install   Register the data server and install the slash commands`,
}

var pluginShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the plugin manifest",
	RunE:  runPluginShow,
}

var pluginInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the data server and install the slash commands",
	Long: `Install the plugin surface into Claude Code:

  1. Adds the NSIP data server to mcpServers in ~/.claude/settings.json
  2. Writes the slash command templates to ~/.claude/commands/nsip/

Existing settings are backed up first. Foreign mcpServers entries are
left alone. Use --force to overwrite an existing nsip server entry.`,
	RunE: runPluginInstall,
}

func init() {
	rootCmd.AddCommand(pluginCmd)
	pluginCmd.AddCommand(pluginShowCmd)
	pluginCmd.AddCommand(pluginInstallCmd)

	pluginInstallCmd.Flags().BoolVar(&pluginDryRun, "dry-run", false, "Show what would be installed without making changes")
	pluginInstallCmd.Flags().BoolVar(&pluginForce, "force", false, "Overwrite an existing nsip server entry")
}

// loadManifest reads the plugin manifest, preferring an operator override
// at ~/.nsipops/manifest.yaml over the embedded copy.
func loadManifest() (*manifest.Manifest, error) {
	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".nsipops", "manifest.yaml")); err == nil {
			return manifest.Parse(data)
		}
	}
	return manifest.Parse(embedded.ManifestYAML)
}

func runPluginShow(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	if output == "json" {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal manifest: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s %s\n", m.Name, m.Version)
	if m.Description != "" {
		fmt.Println(m.Description)
	}
	fmt.Println()
	fmt.Printf("Data server: %s %s\n", m.Server.Command, strings.Join(m.Server.Args, " "))
	for k, v := range m.Server.Env {
		fmt.Printf("  env %s=%s\n", k, v)
	}
	if len(m.Commands) > 0 {
		fmt.Println("\nCommands:")
		for _, c := range m.Commands {
			fmt.Printf("  /%s:%-18s %s\n", m.Name, c.Name, c.Description)
		}
	}
	return nil
}

func runPluginInstall(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home directory: %w", err)
	}

	settingsPath := filepath.Join(homeDir, ".claude", "settings.json")
	rawSettings, err := loadHooksSettings(settingsPath)
	if err != nil {
		return err
	}

	servers, _ := rawSettings["mcpServers"].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
	}
	if _, exists := servers[m.Name]; exists && !pluginForce {
		fmt.Printf("Server %q already registered. Use --force to overwrite.\n", m.Name)
		return nil
	}
	servers[m.Name] = m.ServerEntry()
	rawSettings["mcpServers"] = servers

	commandsDir := filepath.Join(homeDir, ".claude", "commands", m.Name)
	if pluginDryRun {
		fmt.Println("[dry-run] Would write to", settingsPath)
		data, err := json.MarshalIndent(rawSettings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		fmt.Println(string(data))
		fmt.Printf("[dry-run] Would install %d command template(s) to %s\n", len(m.Commands), commandsDir)
		return nil
	}

	if err := backupHooksSettings(settingsPath); err != nil {
		return err
	}
	if err := writeHooksSettings(settingsPath, rawSettings); err != nil {
		return err
	}

	installed, err := installCommandTemplates(m, commandsDir)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Registered %q data server in %s\n", m.Name, settingsPath)
	fmt.Printf("✓ Installed %d command template(s) to %s\n", installed, commandsDir)
	return nil
}

// installCommandTemplates copies the manifest's prompt templates out of the
// plugin bundle into the Claude commands directory.
func installCommandTemplates(m *manifest.Manifest, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create commands directory: %w", err)
	}
	installed := 0
	for _, c := range m.Commands {
		data, err := embedded.PluginFS.ReadFile("plugin/" + c.Template)
		if err != nil {
			return installed, fmt.Errorf("read template %s: %w", c.Template, err)
		}
		dst := filepath.Join(dir, c.Name+".md")
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return installed, fmt.Errorf("write %s: %w", dst, err)
		}
		installed++
	}
	return installed, nil
}
