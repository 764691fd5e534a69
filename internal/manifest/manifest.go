// Package manifest describes the plugin surface around the hook filters:
// the external NSIP data server the assistant launches, and the prompt
// templates exposed as user-invocable commands. The manifest ships embedded
// in the binary; operators can override it with a file.
package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sentinel validation errors.
var (
	ErrNoName    = errors.New("manifest: name is required")
	ErrNoServer  = errors.New("manifest: server command is required")
	ErrNoCommand = errors.New("manifest: command entry missing name or template")
)

// Server declares the external data-serving process the assistant launches
// to answer NSIP tool calls.
type Server struct {
	// Command is the executable to launch.
	Command string `yaml:"command"`

	// Args are passed verbatim to the executable.
	Args []string `yaml:"args,omitempty"`

	// Env holds environment overrides for the server process.
	Env map[string]string `yaml:"env,omitempty"`
}

// Command declares one prompt template exposed as a slash command.
type Command struct {
	// Name is the command name as invoked by the user (without prefix).
	Name string `yaml:"name"`

	// Description is the one-line help text shown in the command picker.
	Description string `yaml:"description,omitempty"`

	// Template is the path of the prompt template inside the plugin
	// bundle (relative, forward slashes).
	Template string `yaml:"template"`
}

// Manifest is the parsed plugin manifest.
type Manifest struct {
	Name        string    `yaml:"name"`
	Version     string    `yaml:"version,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Server      Server    `yaml:"server"`
	Commands    []Command `yaml:"commands,omitempty"`
}

// Parse decodes and validates a manifest from raw YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the invariants install and show rely on.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrNoName
	}
	if m.Server.Command == "" {
		return ErrNoServer
	}
	seen := make(map[string]bool, len(m.Commands))
	for _, c := range m.Commands {
		if c.Name == "" || c.Template == "" {
			return ErrNoCommand
		}
		if seen[c.Name] {
			return fmt.Errorf("manifest: duplicate command %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// ServerEntry renders the server declaration in the mcpServers shape used
// by Claude settings.
func (m *Manifest) ServerEntry() map[string]any {
	entry := map[string]any{"command": m.Server.Command}
	if len(m.Server.Args) > 0 {
		args := make([]any, len(m.Server.Args))
		for i, a := range m.Server.Args {
			args[i] = a
		}
		entry["args"] = args
	}
	if len(m.Server.Env) > 0 {
		env := make(map[string]any, len(m.Server.Env))
		for k, v := range m.Server.Env {
			env[k] = v
		}
		entry["env"] = env
	}
	return entry
}
