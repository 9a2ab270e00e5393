package core

import (
	"slices"
	"strings"

	"github.com/huangsam/testhealth/schema"
)

// CategorizeInput holds everything the categorizer looks at.
type CategorizeInput struct {
	FlakyScore         int      `json:"flaky_score"`
	OutdatedScore      int      `json:"outdated_score"`
	StableScore        int      `json:"stable_score"`
	OutdatedIndicators []string `json:"outdated_indicators"`
	IsOld              bool     `json:"is_old"`
	Path               string   `json:"path"`
}

// InputFromResult builds the categorizer input from a scanned file.
func InputFromResult(a schema.ContentAnalysis, m schema.FileMetadata, relPath string) CategorizeInput {
	return CategorizeInput{
		FlakyScore:         a.FlakyScore,
		OutdatedScore:      a.OutdatedScore,
		StableScore:        a.StableScore,
		OutdatedIndicators: a.Indicators.Outdated,
		IsOld:              m.Old(),
		Path:               relPath,
	}
}

// categoryRule is one row of the decision table. outcome is only consulted
// once matches has returned true.
type categoryRule struct {
	name        string
	description string
	matches     func(in CategorizeInput, lowerPath string) bool
	outcome     func(in CategorizeInput) schema.Category
}

func always(c schema.Category) func(CategorizeInput) schema.Category {
	return func(CategorizeInput) schema.Category { return c }
}

// categoryRules is evaluated top to bottom; the first matching rule wins.
// Reordering rows changes results.
var categoryRules = []categoryRule{
	{
		name:        "flaky-threshold",
		description: "flaky score >= 3 or \"flaky\" in path",
		matches: func(in CategorizeInput, lowerPath string) bool {
			return in.FlakyScore >= 3 || strings.Contains(lowerPath, "flaky")
		},
		outcome: always(schema.FlakyCategory),
	},
	{
		name:        "outdated-threshold",
		description: "outdated score >= 2 or the \"outdated\" indicator matched",
		matches: func(in CategorizeInput, _ string) bool {
			return in.OutdatedScore >= 2 || slices.Contains(in.OutdatedIndicators, "outdated")
		},
		outcome: always(schema.OutdatedCategory),
	},
	{
		name:        "old-with-debt",
		description: "file is old and outdated score > 0",
		matches: func(in CategorizeInput, _ string) bool {
			return in.IsOld && in.OutdatedScore > 0
		},
		outcome: always(schema.OutdatedCategory),
	},
	{
		name:        "stable-clean",
		description: "stable score >= 2 and flaky score == 0",
		matches: func(in CategorizeInput, _ string) bool {
			return in.StableScore >= 2 && in.FlakyScore == 0
		},
		outcome: always(schema.StableCategory),
	},
	{
		name:        "integration-flaky",
		description: "\"integration\" in path and flaky score > 0",
		matches: func(in CategorizeInput, lowerPath string) bool {
			return strings.Contains(lowerPath, "integration") && in.FlakyScore > 0
		},
		outcome: always(schema.FlakyCategory),
	},
	{
		name:        "unit-stable",
		description: "\"unit\" in path and flaky score < 2",
		matches: func(in CategorizeInput, lowerPath string) bool {
			return strings.Contains(lowerPath, "unit") && in.FlakyScore < 2
		},
		outcome: always(schema.StableCategory),
	},
	{
		name:        "fallback",
		description: "highest score wins; ties favour outdated, then stable, else unknown",
		matches:     func(CategorizeInput, string) bool { return true },
		outcome: func(in CategorizeInput) schema.Category {
			switch {
			case in.FlakyScore > in.OutdatedScore && in.FlakyScore > in.StableScore:
				return schema.FlakyCategory
			case in.OutdatedScore > in.StableScore:
				return schema.OutdatedCategory
			case in.StableScore > 0:
				return schema.StableCategory
			default:
				return schema.UnknownCategory
			}
		},
	},
}

// Categorize assigns exactly one category to a file.
func Categorize(in CategorizeInput) schema.Category {
	c, _ := CategorizeWithRule(in)
	return c
}

// CategorizeWithRule assigns a category and names the rule that decided it.
func CategorizeWithRule(in CategorizeInput) (schema.Category, string) {
	lowerPath := strings.ToLower(in.Path)
	for _, r := range categoryRules {
		if r.matches(in, lowerPath) {
			return r.outcome(in), r.name
		}
	}
	// The fallback rule always matches
	return schema.UnknownCategory, "fallback"
}

// Rules lists the categorizer rules in evaluation order.
func Rules() []schema.RuleInfo {
	out := make([]schema.RuleInfo, len(categoryRules))
	for i, r := range categoryRules {
		out[i] = schema.RuleInfo{Order: i + 1, Name: r.name, Description: r.description}
	}
	return out
}
