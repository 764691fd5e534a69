package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/boshu2/nsipops/cli/embedded"
)

func TestAllEventNames(t *testing.T) {
	events := AllEventNames()
	if len(events) != 12 {
		t.Fatalf("expected 12 events, got %d", len(events))
	}
	expected := []string{
		"SessionStart", "SessionEnd",
		"PreToolUse", "PostToolUse",
		"UserPromptSubmit", "TaskCompleted",
		"Stop", "PreCompact",
		"SubagentStop", "WorktreeCreate",
		"WorktreeRemove", "ConfigChange",
	}
	for i, e := range expected {
		if events[i] != e {
			t.Errorf("event %d: expected %s, got %s", i, e, events[i])
		}
	}
}

func TestReadEmbeddedHooksManifest(t *testing.T) {
	hooks, err := ReadHooksManifest(embedded.HooksJSON)
	if err != nil {
		t.Fatalf("parse embedded manifest: %v", err)
	}

	for _, event := range hookEvents {
		groups := hooks.GetEventGroups(event)
		if len(groups) == 0 {
			t.Errorf("embedded manifest missing %s hooks", event)
		}
		for _, g := range groups {
			for _, h := range g.Hooks {
				if h.Type != "command" {
					t.Errorf("%s: unexpected hook type %q", event, h.Type)
				}
				if !isNsipManagedHookCommand(h.Command) {
					t.Errorf("%s: command %q is not recognized as nsip-managed", event, h.Command)
				}
			}
		}
	}

	// PreToolUse and PostToolUse must only fire for NSIP tools.
	for _, event := range []string{"PreToolUse", "PostToolUse"} {
		for _, g := range hooks.GetEventGroups(event) {
			if g.Matcher != "mcp__nsip__.*" {
				t.Errorf("%s: expected NSIP matcher, got %q", event, g.Matcher)
			}
		}
	}
}

func TestEmbeddedManifestCoversAllFilters(t *testing.T) {
	hooks, err := ReadHooksManifest(embedded.HooksJSON)
	if err != nil {
		t.Fatalf("parse embedded manifest: %v", err)
	}

	var commands []string
	for _, event := range AllEventNames() {
		for _, g := range hooks.GetEventGroups(event) {
			for _, h := range g.Hooks {
				commands = append(commands, h.Command)
			}
		}
	}

	joined := strings.Join(commands, "\n")
	for _, sub := range hookCmd.Commands() {
		want := "nsip hook " + sub.Name()
		if !strings.Contains(joined, want) {
			t.Errorf("manifest does not install %q", want)
		}
	}
	if len(commands) != len(hookCmd.Commands()) {
		t.Errorf("manifest installs %d commands, binary has %d hook subcommands",
			len(commands), len(hookCmd.Commands()))
	}
}

func TestReadHooksManifestInvalid(t *testing.T) {
	if _, err := ReadHooksManifest([]byte("{not json")); err == nil {
		t.Error("expected error for malformed manifest")
	}
	if _, err := ReadHooksManifest([]byte(`{"other": true}`)); err == nil {
		t.Error("expected error for manifest without hooks key")
	}
}

func TestHookGroupToMap(t *testing.T) {
	g := HookGroup{
		Matcher: "mcp__nsip__.*",
		Hooks: []HookEntry{
			{Type: "command", Command: "nsip hook validate-lpn", Timeout: 10},
			{Type: "command", Command: "nsip hook traits"},
		},
	}

	m := hookGroupToMap(g)
	if m["matcher"] != "mcp__nsip__.*" {
		t.Errorf("expected matcher preserved, got %v", m["matcher"])
	}
	hooks, ok := m["hooks"].([]map[string]any)
	if !ok || len(hooks) != 2 {
		t.Fatalf("expected 2 hook maps, got %v", m["hooks"])
	}
	if hooks[0]["timeout"] != 10 {
		t.Errorf("expected timeout 10, got %v", hooks[0]["timeout"])
	}
	if _, ok := hooks[1]["timeout"]; ok {
		t.Error("expected zero timeout omitted")
	}

	plain := hookGroupToMap(HookGroup{Hooks: []HookEntry{{Type: "command", Command: "x"}}})
	if _, ok := plain["matcher"]; ok {
		t.Error("expected empty matcher omitted")
	}
}

func TestIsNsipManagedHookCommand(t *testing.T) {
	cases := []struct {
		cmd  string
		want bool
	}{
		{"nsip hook validate-lpn", true},
		{"/usr/local/bin/nsip hook health", true},
		{"ao inject --apply-decay", false},
		{"some-other-tool hook thing", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isNsipManagedHookCommand(c.cmd); got != c.want {
			t.Errorf("isNsipManagedHookCommand(%q) = %v, want %v", c.cmd, got, c.want)
		}
	}
}

// rawSettings builds the hooks map shape produced by parsing settings.json.
func rawSettings(t *testing.T, jsonBody string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(jsonBody), &m); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return m
}

func TestFilterForeignHookGroups(t *testing.T) {
	hooksMap := rawSettings(t, `{
		"PreToolUse": [
			{"matcher": "Write|Edit", "hooks": [{"type": "command", "command": "other-tool check"}]},
			{"matcher": "mcp__nsip__.*", "hooks": [{"type": "command", "command": "nsip hook validate-lpn"}]}
		]
	}`)

	kept := filterForeignHookGroups(hooksMap, "PreToolUse")
	if len(kept) != 1 {
		t.Fatalf("expected 1 foreign group kept, got %d", len(kept))
	}
	group := kept[0].(map[string]any)
	if group["matcher"] != "Write|Edit" {
		t.Errorf("wrong group kept: %v", group)
	}
}

func TestHookGroupContainsNsip(t *testing.T) {
	hooksMap := rawSettings(t, `{
		"SessionStart": [{"hooks": [{"type": "command", "command": "nsip hook health"}]}],
		"Stop": [{"hooks": [{"type": "command", "command": "other-tool cleanup"}]}]
	}`)

	if !hookGroupContainsNsip(hooksMap, "SessionStart") {
		t.Error("expected nsip hooks detected in SessionStart")
	}
	if hookGroupContainsNsip(hooksMap, "Stop") {
		t.Error("did not expect nsip hooks in Stop")
	}
	if hookGroupContainsNsip(hooksMap, "PreToolUse") {
		t.Error("did not expect nsip hooks in absent event")
	}
}

func TestMergeHookEventsPreservesForeignGroups(t *testing.T) {
	newHooks, err := ReadHooksManifest(embedded.HooksJSON)
	if err != nil {
		t.Fatalf("parse embedded manifest: %v", err)
	}

	hooksMap := rawSettings(t, `{
		"PreToolUse": [
			{"matcher": "Write|Edit", "hooks": [{"type": "command", "command": "other-tool check"}]},
			{"matcher": "mcp__nsip__.*", "hooks": [{"type": "command", "command": "nsip hook validate-lpn"}]}
		]
	}`)

	installed := mergeHookEvents(hooksMap, newHooks)
	if installed != len(hookEvents) {
		t.Errorf("expected %d events installed, got %d", len(hookEvents), installed)
	}

	// Round-trip through JSON: that is the shape settings.json readers see.
	data, err := json.Marshal(hooksMap)
	if err != nil {
		t.Fatalf("marshal merged hooks: %v", err)
	}
	hooksMap = rawSettings(t, string(data))

	groups := hooksMap["PreToolUse"].([]any)
	first, ok := groups[0].(map[string]any)
	if !ok || first["matcher"] != "Write|Edit" {
		t.Errorf("foreign group not preserved first: %v", groups[0])
	}
	// The stale nsip group was replaced, not duplicated.
	nsipGroups := 0
	for _, g := range groups {
		if gm, ok := g.(map[string]any); ok && rawGroupIsNsipManaged(gm) {
			nsipGroups++
		}
	}
	if nsipGroups != len(newHooks.GetEventGroups("PreToolUse")) {
		t.Errorf("expected %d nsip groups after merge, got %d",
			len(newHooks.GetEventGroups("PreToolUse")), nsipGroups)
	}
}
