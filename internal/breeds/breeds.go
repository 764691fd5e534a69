// Package breeds holds the static NSIP breed reference table and renders
// breed context for queries. Custom breeds can be dropped into the cache
// directory as breed_<id>.json files and are picked up alongside the
// built-in table.
package breeds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Breed describes one NSIP breed.
type Breed struct {
	Name            string   `json:"name"`
	Characteristics string   `json:"characteristics"`
	KeyTraits       []string `json:"key_traits"`
	BreedingFocus   string   `json:"breeding_focus"`
}

// table is the built-in NSIP breed database, keyed by breed ID.
var table = map[string]Breed{
	"1": {
		Name:            "Merino",
		Characteristics: "fine wool production, adapted to various climates",
		KeyTraits:       []string{"fleece weight", "fiber diameter", "staple length"},
		BreedingFocus:   "wool quality and quantity",
	},
	"2": {
		Name:            "Border Leicester",
		Characteristics: "maternal breed, good milk production, easy lambing",
		KeyTraits:       []string{"maternal ability", "growth rate", "carcass quality"},
		BreedingFocus:   "maternal characteristics and lamb growth",
	},
	"3": {
		Name:            "Poll Dorset",
		Characteristics: "terminal sire breed, excellent meat production",
		KeyTraits:       []string{"growth rate", "muscle depth", "fat depth"},
		BreedingFocus:   "meat production and carcass quality",
	},
	"4": {
		Name:            "White Suffolk",
		Characteristics: "terminal sire breed, rapid growth, good conformation",
		KeyTraits:       []string{"post-weaning weight", "eye muscle depth", "fat depth"},
		BreedingFocus:   "meat production and growth rate",
	},
	"5": {
		Name:            "Dorper",
		Characteristics: "hair sheep, adapted to harsh conditions, good meat",
		KeyTraits:       []string{"weaning weight", "adaptation", "meat quality"},
		BreedingFocus:   "adaptability and meat production",
	},
	"6": {
		Name:            "Corriedale",
		Characteristics: "dual-purpose breed, wool and meat production",
		KeyTraits:       []string{"fleece weight", "body weight", "fiber diameter"},
		BreedingFocus:   "balanced wool and meat production",
	},
}

// Lookup resolves a breed ID against the built-in table, then against
// breed_<id>.json overrides under customDir. Returns nil when unknown.
func Lookup(id, customDir string) *Breed {
	if b, ok := table[id]; ok {
		return &b
	}
	if customDir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(customDir, fmt.Sprintf("breed_%s.json", id)))
	if err != nil {
		return nil
	}
	var b Breed
	if err := json.Unmarshal(data, &b); err != nil {
		return nil
	}
	return &b
}

// IDs returns the built-in breed IDs in table order.
func IDs() []string {
	return []string{"1", "2", "3", "4", "5", "6"}
}

// Context renders the breed as an injected context message.
func (b *Breed) Context() string {
	parts := []string{fmt.Sprintf("You are working with %s breed.", b.Name)}
	if b.Characteristics != "" {
		parts = append(parts, fmt.Sprintf("This breed is known for: %s.", b.Characteristics))
	}
	if len(b.KeyTraits) > 0 {
		parts = append(parts, fmt.Sprintf("Key traits to consider: %s.", strings.Join(b.KeyTraits, ", ")))
	}
	if b.BreedingFocus != "" {
		parts = append(parts, fmt.Sprintf("Primary breeding focus: %s.", b.BreedingFocus))
	}
	return strings.Join(parts, " ")
}

// ParamID pulls a breed ID out of tool parameters, accepting the
// spellings the MCP tools use.
func ParamID(params map[string]any) string {
	for _, name := range []string{"breed_id", "breedId", "breed", "Breed"} {
		if v, ok := params[name]; ok {
			switch t := v.(type) {
			case string:
				return t
			case float64:
				return fmt.Sprintf("%.0f", t)
			default:
				return fmt.Sprintf("%v", t)
			}
		}
	}
	return ""
}
