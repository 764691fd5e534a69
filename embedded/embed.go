// Package embedded carries the hooks manifest and plugin bundle inside
// the nsip binary so that `nsip hooks install` and `nsip plugin install`
// work without a repo checkout (e.g. a binary dropped into PATH by a
// release download).
package embedded

import "embed"

// HooksJSON is the raw hooks.json manifest mapping Claude Code hook
// events to nsip hook subcommands.
//
//go:embed hooks/hooks.json
var HooksJSON []byte

// ManifestYAML is the raw plugin manifest: the external NSIP data server
// and the prompt-template commands.
//
//go:embed plugin/manifest.yaml
var ManifestYAML []byte

// PluginFS holds the plugin bundle, including the command templates the
// manifest references. Paths inside keep the plugin/ prefix.
//
//go:embed all:plugin
var PluginFS embed.FS
