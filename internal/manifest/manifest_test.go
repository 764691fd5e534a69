package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
name: nsip
version: "1.0"
server:
  command: npx
  args: ["-y", "nsip-mcp-server"]
  env:
    NSIP_API_BASE_URL: http://nsipsearch.nsip.org/api
commands:
  - name: search-animal
    description: Search NSIP records for an animal
    template: commands/search-animal.md
  - name: pedigree
    template: commands/pedigree.md
`

func TestParseValid(t *testing.T) {
	m, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "nsip", m.Name)
	assert.Equal(t, "1.0", m.Version)
	assert.Equal(t, "npx", m.Server.Command)
	assert.Equal(t, []string{"-y", "nsip-mcp-server"}, m.Server.Args)
	assert.Equal(t, "http://nsipsearch.nsip.org/api", m.Server.Env["NSIP_API_BASE_URL"])

	require.Len(t, m.Commands, 2)
	assert.Equal(t, "search-animal", m.Commands[0].Name)
	assert.Equal(t, "commands/search-animal.md", m.Commands[0].Template)
	assert.Empty(t, m.Commands[1].Description)
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		m       Manifest
		wantErr error
	}{
		{
			name:    "missing name",
			m:       Manifest{Server: Server{Command: "npx"}},
			wantErr: ErrNoName,
		},
		{
			name:    "missing server command",
			m:       Manifest{Name: "nsip"},
			wantErr: ErrNoServer,
		},
		{
			name: "command without template",
			m: Manifest{
				Name:     "nsip",
				Server:   Server{Command: "npx"},
				Commands: []Command{{Name: "pedigree"}},
			},
			wantErr: ErrNoCommand,
		},
		{
			name: "command without name",
			m: Manifest{
				Name:     "nsip",
				Server:   Server{Command: "npx"},
				Commands: []Command{{Template: "commands/pedigree.md"}},
			},
			wantErr: ErrNoCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.m.Validate(), tt.wantErr)
		})
	}
}

func TestValidateDuplicateCommand(t *testing.T) {
	m := Manifest{
		Name:   "nsip",
		Server: Server{Command: "npx"},
		Commands: []Command{
			{Name: "pedigree", Template: "commands/pedigree.md"},
			{Name: "pedigree", Template: "commands/other.md"},
		},
	}
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate command")
}

func TestServerEntry(t *testing.T) {
	m, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	entry := m.ServerEntry()
	assert.Equal(t, "npx", entry["command"])
	assert.Equal(t, []any{"-y", "nsip-mcp-server"}, entry["args"])
	assert.Equal(t, map[string]any{"NSIP_API_BASE_URL": "http://nsipsearch.nsip.org/api"}, entry["env"])
}

func TestServerEntryOmitsEmpty(t *testing.T) {
	m := Manifest{Name: "nsip", Server: Server{Command: "nsip-server"}}
	entry := m.ServerEntry()
	assert.Equal(t, "nsip-server", entry["command"])
	assert.NotContains(t, entry, "args")
	assert.NotContains(t, entry, "env")
}
