// Package traits is the NSIP trait dictionary: EBV trait codes with their
// definitions, and the breeding terminology glossary injected into query
// context.
package traits

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Trait defines one NSIP EBV trait code.
type Trait struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Unit         string `json:"unit"`
	TypicalRange string `json:"typical_range"`
	Significance string `json:"significance"`
}

// codes lists every trait in dictionary order.
var codes = []string{
	"WWT", "PWWT", "YWT", "PEMD", "PFAT",
	"FEC", "WEC", "CFW", "FD", "SS", "SL", "NLB", "NLW",
}

var dictionary = map[string]Trait{
	"WWT": {
		Code: "WWT", Name: "Weaning Weight",
		Description:  "Weight of lamb at weaning (typically 100 days)",
		Unit:         "kg",
		TypicalRange: "15-35 kg",
		Significance: "Indicates early growth performance and maternal ability",
	},
	"PWWT": {
		Code: "PWWT", Name: "Post-Weaning Weight",
		Description:  "Weight gain after weaning period",
		Unit:         "kg",
		TypicalRange: "40-70 kg",
		Significance: "Reflects growth potential and feed efficiency",
	},
	"YWT": {
		Code: "YWT", Name: "Yearling Weight",
		Description:  "Weight at approximately 12 months of age",
		Unit:         "kg",
		TypicalRange: "50-90 kg",
		Significance: "Indicator of mature size and growth rate",
	},
	"PEMD": {
		Code: "PEMD", Name: "Post-Weaning Eye Muscle Depth",
		Description:  "Ultrasound measurement of loin muscle",
		Unit:         "mm",
		TypicalRange: "20-40 mm",
		Significance: "Indicator of meat yield and carcass quality",
	},
	"PFAT": {
		Code: "PFAT", Name: "Post-Weaning Fat Depth",
		Description:  "Ultrasound measurement of fat over loin",
		Unit:         "mm",
		TypicalRange: "2-8 mm",
		Significance: "Important for meat quality and finish",
	},
	"FEC": {
		Code: "FEC", Name: "Faecal Egg Count",
		Description:  "Parasite resistance measure (worm eggs in feces)",
		Unit:         "eggs per gram",
		TypicalRange: "0-2000 epg",
		Significance: "Lower values indicate better parasite resistance",
	},
	"WEC": {
		Code: "WEC", Name: "Worm Egg Count",
		Description:  "Measure of internal parasite burden",
		Unit:         "eggs per gram",
		TypicalRange: "0-2000 epg",
		Significance: "Key indicator of animal health and resilience",
	},
	"CFW": {
		Code: "CFW", Name: "Clean Fleece Weight",
		Description:  "Weight of wool after washing",
		Unit:         "kg",
		TypicalRange: "2-8 kg",
		Significance: "Primary wool production measure",
	},
	"FD": {
		Code: "FD", Name: "Fiber Diameter",
		Description:  "Average wool fiber thickness (micron)",
		Unit:         "microns",
		TypicalRange: "15-25 microns",
		Significance: "Determines wool quality and price",
	},
	"SS": {
		Code: "SS", Name: "Staple Strength",
		Description:  "Measure of wool fiber strength",
		Unit:         "N/ktex",
		TypicalRange: "25-45 N/ktex",
		Significance: "Important for processing and yarn quality",
	},
	"SL": {
		Code: "SL", Name: "Staple Length",
		Description:  "Length of wool staple",
		Unit:         "mm",
		TypicalRange: "60-120 mm",
		Significance: "Affects processing and wool type",
	},
	"NLB": {
		Code: "NLB", Name: "Number of Lambs Born",
		Description:  "Reproductive trait - lambs born per ewe",
		Unit:         "count",
		TypicalRange: "1-3",
		Significance: "Key reproductive performance indicator",
	},
	"NLW": {
		Code: "NLW", Name: "Number of Lambs Weaned",
		Description:  "Lambs successfully raised to weaning",
		Unit:         "count",
		TypicalRange: "1-2.5",
		Significance: "Measures maternal ability and lamb survival",
	},
}

// terminology pairs a glossary term with its definition, ordered.
var terminology = []struct{ Term, Definition string }{
	{"EBV", "Estimated Breeding Value - genetic prediction of an animal's performance"},
	{"ASB", "Australian Sheep Breeding Value - standardized genetic evaluation"},
	{"Sire", "Male parent"},
	{"Dam", "Female parent"},
	{"Progeny", "Offspring"},
	{"Pedigree", "Family tree/lineage"},
	{"LPN", "Livestock Production Number - unique animal identifier"},
	{"Flock", "Group of sheep managed together"},
	{"Selection Index", "Weighted combination of multiple traits for breeding decisions"},
}

// Lookup returns the trait for a code, if defined.
func Lookup(code string) (Trait, bool) {
	t, ok := dictionary[strings.ToUpper(code)]
	return t, ok
}

// Codes returns every trait code in dictionary order.
func Codes() []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// Count returns the number of defined traits.
func Count() int { return len(dictionary) }

// Mentioned returns the trait codes that appear anywhere in the tool
// parameters, in dictionary order. The scan is over the JSON rendering of
// the parameters so nested values count too.
func Mentioned(params map[string]any) []string {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil
	}
	haystack := strings.ToUpper(string(raw))

	var found []string
	for _, code := range codes {
		if strings.Contains(haystack, code) {
			found = append(found, code)
		}
	}
	return found
}

// Describe renders one trait as a reference line.
func Describe(code string) string {
	t, ok := dictionary[code]
	if !ok {
		return code
	}
	parts := []string{fmt.Sprintf("%s (%s): %s", code, t.Name, t.Description)}
	if t.TypicalRange != "" {
		parts = append(parts, "Typical range: "+t.TypicalRange)
	}
	if t.Significance != "" {
		parts = append(parts, "Significance: "+t.Significance)
	}
	return strings.Join(parts, ". ")
}

// ContextMessage builds the trait reference injected before NSIP queries.
// Detected traits get full definitions (capped at five); otherwise a short
// overview of the common traits is shown. A few glossary terms close it out.
func ContextMessage(detected []string) string {
	lines := []string{"NSIP Trait Reference:"}

	if len(detected) > 0 {
		lines = append(lines, "\nRelevant traits in your query:")
		capped := detected
		if len(capped) > 5 {
			capped = capped[:5]
		}
		for _, code := range capped {
			lines = append(lines, "  - "+Describe(code))
		}
	} else {
		lines = append(lines, "\nCommon NSIP traits:")
		for _, code := range []string{"WWT", "PWWT", "PEMD", "FEC", "CFW"} {
			lines = append(lines, fmt.Sprintf("  - %s: %s", code, dictionary[code].Name))
		}
	}

	lines = append(lines, "\nKey terminology:")
	for _, t := range terminology[:3] {
		lines = append(lines, fmt.Sprintf("  - %s: %s", t.Term, t.Definition))
	}
	return strings.Join(lines, "\n")
}

// Glossary returns the full terminology list as term/definition pairs.
func Glossary() []struct{ Term, Definition string } {
	out := make([]struct{ Term, Definition string }, len(terminology))
	copy(out, terminology)
	return out
}
