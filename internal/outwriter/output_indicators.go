package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
)

// WriteIndicators displays the indicator lists, path rules and categorizer rules.
// This is a static display that does not require a repository.
func WriteIndicators(catalog schema.IndicatorCatalog, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, catalog)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, catalog)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIndicatorsCSV(w, catalog)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIndicatorsText(w, catalog)
		}, "Wrote text")
	}
}

// writeIndicatorsText displays the catalog in human-readable text format.
func writeIndicatorsText(w io.Writer, catalog schema.IndicatorCatalog) error {
	var b strings.Builder
	b.WriteString("🧪 Test Health Indicators\n")
	b.WriteString("=========================\n\n")
	b.WriteString("Each indicator found in a file's content (case-insensitive) adds 1 to its category score.\n\n")

	lists := []struct {
		category   schema.Category
		indicators []string
	}{
		{schema.FlakyCategory, catalog.Flaky},
		{schema.OutdatedCategory, catalog.Outdated},
		{schema.StableCategory, catalog.Stable},
	}
	for _, l := range lists {
		fmt.Fprintf(&b, "%s %s (%d):\n", contract.CategoryEmoji(l.category), strings.ToUpper(string(l.category)), len(l.indicators))
		fmt.Fprintf(&b, "   %s\n\n", strings.Join(quoteAll(l.indicators), ", "))
	}

	b.WriteString("📁 Path rules:\n")
	for _, r := range catalog.PathRules {
		fmt.Fprintf(&b, "   %s → +%d %s (%s)\n", strings.Join(quoteAll(r.Needles), " or "), r.Weight, r.Category, r.Label)
	}
	b.WriteString("\n🎯 Categorization rules (first match wins):\n")
	for _, r := range catalog.Rules {
		fmt.Fprintf(&b, "   %d. %-18s %s\n", r.Order, r.Name, r.Description)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeIndicatorsCSV writes one row per indicator, path rule and categorizer rule.
func writeIndicatorsCSV(w io.Writer, catalog schema.IndicatorCatalog) error {
	header := []string{"kind", "category", "value", "weight"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		var rows [][]string
		for _, v := range catalog.Flaky {
			rows = append(rows, []string{"indicator", string(schema.FlakyCategory), v, "1"})
		}
		for _, v := range catalog.Outdated {
			rows = append(rows, []string{"indicator", string(schema.OutdatedCategory), v, "1"})
		}
		for _, v := range catalog.Stable {
			rows = append(rows, []string{"indicator", string(schema.StableCategory), v, "1"})
		}
		for _, r := range catalog.PathRules {
			rows = append(rows, []string{"path_rule", string(r.Category), strings.Join(r.Needles, "|"), strconv.Itoa(r.Weight)})
		}
		for _, r := range catalog.Rules {
			rows = append(rows, []string{"rule", "", r.Name, ""})
		}
		return cw.WriteAll(rows)
	})
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Quote(v)
	}
	return out
}
