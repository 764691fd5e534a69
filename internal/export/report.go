package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

// reportTmpl renders the breeding report. Data preparation happens in
// buildReportData; the template only lays out sections.
var reportTmpl = template.Must(template.New("report").Parse(`# Breeding Report: {{.Name}} ({{.LPN}})

**Generated:** {{.Generated}} UTC

---

## Basic Information

- **LPN ID:** {{.LPN}}
- **Name:** {{.Name}}
- **Breed:** {{.Breed}}
- **Sex:** {{.Sex}}
- **Birth Date:** {{.BirthDate}}
- **Status:** {{.Status}}
{{- if .Flock}}
- **Flock:** {{.Flock}}
{{- end}}
{{- if .Owner}}
- **Owner:** {{.Owner}}
{{- end}}

## Production Traits

{{if .Traits}}{{range .Traits}}- **{{.Label}}:** {{.Value}}
{{end}}{{else}}*No trait data available*
{{end}}
## Breeding Values (EBVs)

{{if .EBVs}}{{range .EBVs}}- **{{.Label}}:** {{.Value}}
{{end}}{{else}}*No breeding values available*
{{end}}
## Breeding Recommendations

{{if .IsMale}}### As a Sire
- Evaluate progeny performance to confirm genetic merit
- Consider genetic diversity when selecting mates
- Monitor for any genetic defects in offspring
{{else if .IsFemale}}### As a Dam
- Select complementary sire based on trait weaknesses
- Monitor reproductive performance over time
- Track progeny success rates
{{end}}
{{- if .IsActive}}
### Management Notes
- Animal is active in the breeding program
- Continue regular trait assessments
- Maintain accurate lineage records
{{end}}
### General Considerations
- Compare traits with breed standards
- Consider environmental factors in trait expression
- Consult with breeding advisors for specific decisions

---

*This report is generated automatically and should be reviewed by a breeding specialist.*
`))

type labelledValue struct {
	Label string
	Value string
}

type reportData struct {
	Name, LPN, Breed, Sex, BirthDate, Status string
	Flock, Owner                             string
	Generated                                string
	Traits                                   []labelledValue
	EBVs                                     []labelledValue
	IsMale, IsFemale, IsActive               bool
}

// traitFields lists the raw result fields reported as production traits,
// in report order.
var traitFields = []struct{ Field, Label string }{
	{"WWT", "Weaning Weight"},
	{"PWWT", "Post-Weaning Weight"},
	{"YWT", "Yearling Weight"},
	{"FWT", "Final Weight"},
	{"PEMD", "Parasite Resistance (EMD)"},
	{"PFEC", "Parasite Resistance (FEC)"},
	{"NFAT", "Fat Depth"},
	{"NLEYE", "Eye Muscle Depth"},
	{"WormResistance", "Worm Resistance"},
	{"FleeceMeasurements", "Fleece Quality"},
}

func stringField(animal map[string]any, key, fallback string) string {
	if v, ok := animal[key]; ok && v != nil {
		if s := fmt.Sprintf("%v", v); s != "" {
			return s
		}
	}
	return fallback
}

func buildReportData(animal map[string]any, now time.Time) reportData {
	d := reportData{
		Name:      stringField(animal, "AnimalName", "Unnamed"),
		LPN:       stringField(animal, "LPN", "Unknown"),
		Breed:     stringField(animal, "Breed", "Unknown"),
		Sex:       stringField(animal, "Sex", "Unknown"),
		BirthDate: stringField(animal, "BirthDate", "Unknown"),
		Status:    stringField(animal, "Status", "Unknown"),
		Flock:     stringField(animal, "Flock", ""),
		Owner:     stringField(animal, "Owner", ""),
		Generated: now.UTC().Format("2006-01-02 15:04:05"),
	}

	for _, tf := range traitFields {
		v, ok := animal[tf.Field]
		if !ok || v == nil || v == "" || v == false {
			continue
		}
		value := fmt.Sprintf("%v", v)
		if f, ok := v.(float64); ok {
			value = fmt.Sprintf("%.2f", f)
		}
		d.Traits = append(d.Traits, labelledValue{Label: tf.Label, Value: value})
	}

	var ebvKeys []string
	for key := range animal {
		upper := strings.ToUpper(key)
		if strings.Contains(upper, "EBV") || strings.Contains(upper, "BV") {
			ebvKeys = append(ebvKeys, key)
		}
	}
	sort.Strings(ebvKeys)
	for _, key := range ebvKeys {
		value := fmt.Sprintf("%v", animal[key])
		if f, ok := animal[key].(float64); ok {
			value = fmt.Sprintf("%.3f", f)
		}
		d.EBVs = append(d.EBVs, labelledValue{Label: key, Value: value})
	}

	sex := strings.ToUpper(d.Sex)
	d.IsMale = sex == "M" || sex == "MALE"
	d.IsFemale = sex == "F" || sex == "FEMALE"
	status := strings.ToUpper(d.Status)
	d.IsActive = strings.Contains(status, "ACTIVE") || strings.Contains(status, "ALIVE")
	return d
}

// ExtractAnimal unwraps the animal object from a tool result. MCP results
// often wrap the payload as content[0].text holding JSON; bare results are
// taken as-is.
func ExtractAnimal(result map[string]any) map[string]any {
	content, ok := result["content"].([]any)
	if !ok || len(content) == 0 {
		return result
	}
	first, ok := content[0].(map[string]any)
	if !ok {
		return result
	}
	text, ok := first["text"].(string)
	if !ok {
		return result
	}
	var animal map[string]any
	if err := json.Unmarshal([]byte(text), &animal); err != nil {
		return nil
	}
	return animal
}

// BreedingReport renders the markdown report for one animal.
func BreedingReport(animal map[string]any, now time.Time) (string, error) {
	var sb strings.Builder
	if err := reportTmpl.Execute(&sb, buildReportData(animal, now)); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return sb.String(), nil
}

// SaveReport writes the report under dir with a timestamped name.
func SaveReport(dir, content string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create exports dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("breeding_report_%s.txt", now.UTC().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
