// Package output provides utilities for formatting and displaying footprint
// results.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/carbon-lens/internal/footprint"
	"github.com/iwvelando/carbon-lens/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report aggregates one baseline footprint with the projections computed
// against it, ready for rendering.
type Report struct {
	Region    string              `json:"region"`
	Baseline  footprint.Footprint `json:"baseline"`
	Scenarios []ScenarioResult    `json:"scenarios,omitempty"`
}

// ScenarioResult pairs a configured scenario name with its projection.
type ScenarioResult struct {
	Name       string               `json:"name"`
	Projection footprint.Projection `json:"projection"`
}

// PrettyString renders a human-readable rather than machine-readable table.
func PrettyString(report Report) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("--- Annual carbon footprint (%s) ---\n", report.Region))
	b.WriteString("Category       | Tonnes CO2/yr\n")
	b.WriteString("________       | _____________\n")
	for _, row := range categoryRows(report.Baseline) {
		b.WriteString(p.Sprintf("%-14s | %.2f\n", row.name, row.value))
	}
	b.WriteString(p.Sprintf("%-14s | %.2f\n", "Total", report.Baseline.TotalT))

	if report.Baseline.TotalT > constants.IndiaPerCapitaTonnes {
		b.WriteString(p.Sprintf("\nAbove India's per-capita average of %.1f t/yr.\n", constants.IndiaPerCapitaTonnes))
	} else {
		b.WriteString(p.Sprintf("\nAt or below India's per-capita average of %.1f t/yr.\n", constants.IndiaPerCapitaTonnes))
	}

	for _, scenario := range report.Scenarios {
		b.WriteString(fmt.Sprintf("\n--- Scenario %s ---\n", scenario.Name))
		for _, row := range categoryRows(scenario.Projection.Projected) {
			b.WriteString(p.Sprintf("%-14s | %.2f\n", row.name, row.value))
		}
		b.WriteString(p.Sprintf("%-14s | %.2f\n", "Total", scenario.Projection.Projected.TotalT))
		b.WriteString(p.Sprintf("Savings: %.2f t/yr (%.2f%%)\n",
			scenario.Projection.AbsoluteSavingsT, scenario.Projection.PercentSavings))
	}

	return b.String()
}

// CsvString renders the report in comma-separated value format, one column
// for the baseline and one per scenario.
func CsvString(report Report) string {
	var b strings.Builder

	b.WriteString(`"category","baseline"`)
	for _, scenario := range report.Scenarios {
		b.WriteString(fmt.Sprintf(`,"%s"`, scenario.Name))
	}
	b.WriteString("\n")

	baselineRows := categoryRows(report.Baseline)
	for i, row := range baselineRows {
		b.WriteString(fmt.Sprintf(`"%s","%.2f"`, row.name, row.value))
		for _, scenario := range report.Scenarios {
			b.WriteString(fmt.Sprintf(`,"%.2f"`, categoryRows(scenario.Projection.Projected)[i].value))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf(`"Total","%.2f"`, report.Baseline.TotalT))
	for _, scenario := range report.Scenarios {
		b.WriteString(fmt.Sprintf(`,"%.2f"`, scenario.Projection.Projected.TotalT))
	}
	b.WriteString("\n")

	return b.String()
}

// JSONString renders the report as indented JSON.
func JSONString(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(data) + "\n", nil
}

// PrettyFormat outputs the pretty rendering to stdout.
func PrettyFormat(report Report) {
	fmt.Print(PrettyString(report))
}

// CsvFormat outputs the CSV rendering to stdout.
func CsvFormat(report Report) {
	fmt.Print(CsvString(report))
}

type categoryRow struct {
	name  string
	value float64
}

func categoryRows(f footprint.Footprint) []categoryRow {
	return []categoryRow{
		{"Transportation", f.TransportationT},
		{"Electricity", f.ElectricityT},
		{"Diet", f.DietT},
		{"Waste", f.WasteT},
	}
}
