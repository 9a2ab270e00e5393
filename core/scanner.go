package core

import (
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/testhealth/schema"
)

// ScanContent reads relPath from fsys and scores its text and path against
// the indicator lists. filePath is the reported location of the file.
// A read failure never aborts the scan: the returned analysis carries the
// error and zero scores instead.
func ScanContent(fsys fs.FS, relPath, filePath string) schema.ContentAnalysis {
	data, err := fs.ReadFile(fsys, relPath)
	if err != nil {
		return failedAnalysis(filePath, err.Error())
	}
	if !utf8.Valid(data) {
		return failedAnalysis(filePath, fmt.Sprintf("%s is not valid UTF-8 text", relPath))
	}
	return analyzeText(string(data), relPath, filePath)
}

// analyzeText scores content and path. Matching is case-insensitive
// presence, so each indicator adds at most 1.
func analyzeText(content, relPath, filePath string) schema.ContentAnalysis {
	a := schema.ContentAnalysis{
		FilePath:       filePath,
		Size:           utf8.RuneCountInString(content),
		Lines:          strings.Count(content, "\n") + 1,
		Indicators:     schema.NewIndicators(),
		ContentPreview: previewOf(content),
	}

	lower := strings.ToLower(content)
	a.Indicators.Flaky, a.FlakyScore = matchIndicators(lower, schema.FlakyIndicators())
	a.Indicators.Outdated, a.OutdatedScore = matchIndicators(lower, schema.OutdatedIndicators())
	a.Indicators.Stable, a.StableScore = matchIndicators(lower, schema.StableIndicators())

	applyPathRules(&a, relPath)
	return a
}

// matchIndicators returns the indicators present in lowerContent, in list order.
func matchIndicators(lowerContent string, indicators []string) ([]string, int) {
	matched := []string{}
	for _, ind := range indicators {
		if strings.Contains(lowerContent, strings.ToLower(ind)) {
			matched = append(matched, ind)
		}
	}
	return matched, len(matched)
}

// applyPathRules layers the path-based adjustments on top of content scores.
func applyPathRules(a *schema.ContentAnalysis, relPath string) {
	lowerPath := strings.ToLower(relPath)
	for _, rule := range schema.PathRules() {
		if !containsAny(lowerPath, rule.Needles) {
			continue
		}
		switch rule.Category {
		case schema.FlakyCategory:
			a.FlakyScore += rule.Weight
			a.Indicators.Flaky = append(a.Indicators.Flaky, rule.Label)
		case schema.OutdatedCategory:
			a.OutdatedScore += rule.Weight
			a.Indicators.Outdated = append(a.Indicators.Outdated, rule.Label)
		case schema.StableCategory:
			a.StableScore += rule.Weight
			a.Indicators.Stable = append(a.Indicators.Stable, rule.Label)
		}
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// previewOf returns content cut to schema.PreviewLimit characters.
func previewOf(content string) string {
	if utf8.RuneCountInString(content) <= schema.PreviewLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:schema.PreviewLimit]) + "..."
}

// failedAnalysis is the record for a file whose content could not be read.
func failedAnalysis(filePath, reason string) schema.ContentAnalysis {
	return schema.ContentAnalysis{
		FilePath:   filePath,
		Indicators: schema.NewIndicators(),
		Error:      schema.Some(reason),
	}
}
