package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Lineage is the three-generation family structure returned by lineage
// queries. Any animal may be missing.
type Lineage struct {
	Subject      map[string]any
	Sire         map[string]any
	Dam          map[string]any
	Grandparents map[string]map[string]any // keyed sire_sire, sire_dam, dam_sire, dam_dam
}

// ExtractLineage unwraps lineage data from a tool result.
func ExtractLineage(result map[string]any) *Lineage {
	data := ExtractAnimal(result)
	if data == nil {
		return nil
	}

	l := &Lineage{Grandparents: make(map[string]map[string]any)}
	if m, ok := data["subject"].(map[string]any); ok {
		l.Subject = m
	}
	if m, ok := data["sire"].(map[string]any); ok {
		l.Sire = m
	}
	if m, ok := data["dam"].(map[string]any); ok {
		l.Dam = m
	}
	if gp, ok := data["grandparents"].(map[string]any); ok {
		for _, slot := range []string{"sire_sire", "sire_dam", "dam_sire", "dam_dam"} {
			if m, ok := gp[slot].(map[string]any); ok {
				l.Grandparents[slot] = m
			}
		}
	}
	if l.Subject == nil && l.Sire == nil && l.Dam == nil && len(l.Grandparents) == 0 {
		return nil
	}
	return l
}

// animalLabel renders "Name (LPN) [Breed]" with the breed omitted when
// unknown.
func animalLabel(animal map[string]any) string {
	name := stringField(animal, "AnimalName", "Unnamed")
	lpn := stringField(animal, "LPN", "Unknown")
	if breed := stringField(animal, "Breed", ""); breed != "" {
		return fmt.Sprintf("%s (%s) [%s]", name, lpn, breed)
	}
	return fmt.Sprintf("%s (%s)", name, lpn)
}

// Ancestors counts the identified parents and grandparents.
func (l *Lineage) Ancestors() int {
	n := 0
	if l.Sire != nil {
		n++
	}
	if l.Dam != nil {
		n++
	}
	return n + len(l.Grandparents)
}

// Tree renders the boxed generation-by-generation view.
func (l *Lineage) Tree() string {
	rule := strings.Repeat("=", 80)
	lines := []string{rule, "PEDIGREE VISUALIZATION", rule, ""}

	if l.Subject != nil {
		lines = append(lines, "Subject Animal:", "  "+animalLabel(l.Subject), "")
	}

	if l.Sire != nil || l.Dam != nil {
		lines = append(lines, "Parents (Generation 1):")
		if l.Sire != nil {
			lines = append(lines, "  Sire:  "+animalLabel(l.Sire))
		} else {
			lines = append(lines, "  Sire:  Unknown")
		}
		if l.Dam != nil {
			lines = append(lines, "  Dam:   "+animalLabel(l.Dam))
		} else {
			lines = append(lines, "  Dam:   Unknown")
		}
		lines = append(lines, "")
	}

	if len(l.Grandparents) > 0 {
		lines = append(lines, "Grandparents (Generation 2):")
		if l.Grandparents["sire_sire"] != nil || l.Grandparents["sire_dam"] != nil {
			lines = append(lines, "  Paternal:")
			if gp := l.Grandparents["sire_sire"]; gp != nil {
				lines = append(lines, "    Sire: "+animalLabel(gp))
			}
			if gp := l.Grandparents["sire_dam"]; gp != nil {
				lines = append(lines, "    Dam:  "+animalLabel(gp))
			}
		}
		if l.Grandparents["dam_sire"] != nil || l.Grandparents["dam_dam"] != nil {
			lines = append(lines, "  Maternal:")
			if gp := l.Grandparents["dam_sire"]; gp != nil {
				lines = append(lines, "    Sire: "+animalLabel(gp))
			}
			if gp := l.Grandparents["dam_dam"]; gp != nil {
				lines = append(lines, "    Dam:  "+animalLabel(gp))
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, fmt.Sprintf("Total Ancestors Identified: %d", l.Ancestors()), rule)
	return strings.Join(lines, "\n")
}

// Hierarchy renders the indented branch view.
func (l *Lineage) Hierarchy() string {
	lines := []string{"LINEAGE HIERARCHY", ""}
	if l.Subject == nil {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, "└─ "+animalLabel(l.Subject))

	if l.Sire != nil {
		lines = append(lines, "   ├─ SIRE: "+animalLabel(l.Sire))
		if gp := l.Grandparents["sire_sire"]; gp != nil {
			lines = append(lines, "   │  ├─ "+animalLabel(gp))
		}
		if gp := l.Grandparents["sire_dam"]; gp != nil {
			lines = append(lines, "   │  └─ "+animalLabel(gp))
		}
	}
	if l.Dam != nil {
		lines = append(lines, "   └─ DAM:  "+animalLabel(l.Dam))
		if gp := l.Grandparents["dam_sire"]; gp != nil {
			lines = append(lines, "      ├─ "+animalLabel(gp))
		}
		if gp := l.Grandparents["dam_dam"]; gp != nil {
			lines = append(lines, "      └─ "+animalLabel(gp))
		}
	}
	return strings.Join(lines, "\n")
}

// SavePedigree writes both views to a timestamped file under dir.
func SavePedigree(dir string, l *Lineage, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create exports dir: %w", err)
	}
	body := fmt.Sprintf("%s\n\n%s\n\nGenerated: %s\n",
		l.Tree(), l.Hierarchy(), now.UTC().Format(time.RFC3339))
	path := filepath.Join(dir, fmt.Sprintf("pedigree_%s.txt", now.UTC().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		return "", fmt.Errorf("write pedigree: %w", err)
	}
	return path, nil
}
