package schema

import "slices"

// Indicator literals matched case-insensitively against file content.
// The lists intentionally contain case variants ("old" and "OLD"): each entry
// that matches counts once, so a single word can score twice.
var (
	flakyIndicators = []string{
		"Math.random", "setTimeout", "setInterval", "Date()", "new Date",
		"process.env", "NODE_ENV", "environment", "time", "random",
		"flaky", "FLAKY", "intermittent", "unstable", "fails sometimes",
		"depends on", "environment-dependent", "timing", "race condition",
	}

	outdatedIndicators = []string{
		"TODO", "FIXME", "deprecated", "outdated", "old", "OLD", "OUTDATED",
		"needs update", "broken", "disabled", "skip", "pending",
		"wrong assertions", "no longer", "legacy",
	}

	stableIndicators = []string{
		"STABLE", "stable", "should always pass", "deterministic",
		"unit test", "pure function", "predictable",
	}
)

// PathRule adds Weight to a category score when any of Needles occurs in
// the lowercased file path. Label is recorded as the matched indicator.
type PathRule struct {
	Needles  []string `json:"needles" yaml:"needles"`
	Category Category `json:"category" yaml:"category"`
	Weight   int      `json:"weight" yaml:"weight"`
	Label    string   `json:"label" yaml:"label"`
}

var pathRules = []PathRule{
	{Needles: []string{"flaky", "unstable"}, Category: FlakyCategory, Weight: 5, Label: "flaky in path"},
	{Needles: []string{"integration"}, Category: FlakyCategory, Weight: 1, Label: "integration test"},
	{Needles: []string{"unit"}, Category: StableCategory, Weight: 2, Label: "unit test"},
}

// FlakyIndicators returns a copy of the flaky indicator list.
func FlakyIndicators() []string { return slices.Clone(flakyIndicators) }

// OutdatedIndicators returns a copy of the outdated indicator list.
func OutdatedIndicators() []string { return slices.Clone(outdatedIndicators) }

// StableIndicators returns a copy of the stable indicator list.
func StableIndicators() []string { return slices.Clone(stableIndicators) }

// IndicatorsFor returns a copy of the indicator list scored for the category.
// The unknown category has no indicators.
func IndicatorsFor(c Category) []string {
	switch c {
	case FlakyCategory:
		return FlakyIndicators()
	case OutdatedCategory:
		return OutdatedIndicators()
	case StableCategory:
		return StableIndicators()
	default:
		return nil
	}
}

// PathRules returns a copy of the path-based score adjustments, in the
// order they are applied.
func PathRules() []PathRule {
	out := make([]PathRule, len(pathRules))
	for i, r := range pathRules {
		r.Needles = slices.Clone(r.Needles)
		out[i] = r
	}
	return out
}

// RuleInfo describes one categorizer rule for display.
type RuleInfo struct {
	Order       int    `json:"order" yaml:"order"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// IndicatorCatalog is everything that drives categorization, for display.
type IndicatorCatalog struct {
	Flaky     []string   `json:"flaky" yaml:"flaky"`
	Outdated  []string   `json:"outdated" yaml:"outdated"`
	Stable    []string   `json:"stable" yaml:"stable"`
	PathRules []PathRule `json:"path_rules" yaml:"path_rules"`
	Rules     []RuleInfo `json:"rules" yaml:"rules"`
}

// NewIndicatorCatalog collects the indicator lists and path rules with the given rules.
func NewIndicatorCatalog(rules []RuleInfo) IndicatorCatalog {
	return IndicatorCatalog{
		Flaky:     FlakyIndicators(),
		Outdated:  OutdatedIndicators(),
		Stable:    StableIndicators(),
		PathRules: PathRules(),
		Rules:     rules,
	}
}
