// Package schema has the models and constants shared by all parts of testhealth.
package schema

// Indicators holds the matched indicator literals per category.
// Lists are never nil so they always encode as arrays.
type Indicators struct {
	Flaky    []string `json:"flaky" yaml:"flaky"`
	Outdated []string `json:"outdated" yaml:"outdated"`
	Stable   []string `json:"stable" yaml:"stable"`
}

// NewIndicators returns empty, non-nil indicator lists.
func NewIndicators() Indicators {
	return Indicators{
		Flaky:    []string{},
		Outdated: []string{},
		Stable:   []string{},
	}
}

// For returns the matched indicators for the category.
func (in Indicators) For(c Category) []string {
	switch c {
	case FlakyCategory:
		return in.Flaky
	case OutdatedCategory:
		return in.Outdated
	case StableCategory:
		return in.Stable
	default:
		return nil
	}
}

// ContentAnalysis is the result of scanning one file's text and path.
type ContentAnalysis struct {
	FilePath       string           `json:"file_path" yaml:"file_path"`
	Size           int              `json:"size" yaml:"size"` // characters, not bytes
	Lines          int              `json:"lines" yaml:"lines"`
	FlakyScore     int              `json:"flaky_score" yaml:"flaky_score"`
	OutdatedScore  int              `json:"outdated_score" yaml:"outdated_score"`
	StableScore    int              `json:"stable_score" yaml:"stable_score"`
	Indicators     Indicators       `json:"indicators" yaml:"indicators"`
	ContentPreview string           `json:"content_preview" yaml:"content_preview"`
	Error          Optional[string] `json:"error,omitzero" yaml:"error,omitempty"`
}

// Score returns the score for the category.
func (a ContentAnalysis) Score(c Category) int {
	switch c {
	case FlakyCategory:
		return a.FlakyScore
	case OutdatedCategory:
		return a.OutdatedScore
	case StableCategory:
		return a.StableScore
	default:
		return 0
	}
}

// FileMetadata holds filesystem and version-control facts about a file.
// Every field other than IsOld is best-effort.
type FileMetadata struct {
	SizeBytes      Optional[int64]  `json:"size_bytes,omitzero" yaml:"size_bytes,omitempty"`
	ModifiedTime   Optional[string] `json:"modified_time,omitzero" yaml:"modified_time,omitempty"`
	CreatedTime    Optional[string] `json:"created_time,omitzero" yaml:"created_time,omitempty"`
	IsOld          Optional[bool]   `json:"is_old,omitzero" yaml:"is_old,omitempty"`
	LastGitCommit  Optional[string] `json:"last_git_commit,omitzero" yaml:"last_git_commit,omitempty"`
	GitCommitCount Optional[int]    `json:"git_commit_count,omitzero" yaml:"git_commit_count,omitempty"`
	Error          Optional[string] `json:"error,omitzero" yaml:"error,omitempty"`
	GitError       Optional[string] `json:"git_error,omitzero" yaml:"git_error,omitempty"`
}

// Old reports whether the file is known to be old. An unknown age is not old.
func (m FileMetadata) Old() bool {
	return m.IsOld.OrElse(false)
}

// GitMetadata is the version-control part of FileMetadata, cached per file.
type GitMetadata struct {
	LastGitCommit  Optional[string] `json:"last_git_commit,omitzero"`
	GitCommitCount Optional[int]    `json:"git_commit_count,omitzero"`
}

// FileResult merges the content analysis, metadata and category of one file.
type FileResult struct {
	ContentAnalysis `yaml:",inline"`
	Metadata        FileMetadata `json:"metadata" yaml:"metadata"`
	Category        Category     `json:"category" yaml:"category"`
	Rule            string       `json:"rule" yaml:"rule"`
	RelativePath    string       `json:"relative_path" yaml:"relative_path"`
}

// Summary counts files per category.
type Summary struct {
	TotalFiles int `json:"total_files" yaml:"total_files"`
	Stable     int `json:"stable" yaml:"stable"`
	Flaky      int `json:"flaky" yaml:"flaky"`
	Outdated   int `json:"outdated" yaml:"outdated"`
	Unknown    int `json:"unknown" yaml:"unknown"`
}

// Count returns the number of files in the category.
func (s Summary) Count(c Category) int {
	switch c {
	case StableCategory:
		return s.Stable
	case FlakyCategory:
		return s.Flaky
	case OutdatedCategory:
		return s.Outdated
	default:
		return s.Unknown
	}
}

// Percent returns the share of files in the category, in percent.
// An empty summary yields 0 for every category.
func (s Summary) Percent(c Category) float64 {
	if s.TotalFiles == 0 {
		return 0
	}
	return float64(s.Count(c)) / float64(s.TotalFiles) * 100
}

func (s *Summary) increment(c Category) {
	switch c {
	case StableCategory:
		s.Stable++
	case FlakyCategory:
		s.Flaky++
	case OutdatedCategory:
		s.Outdated++
	default:
		s.Unknown++
	}
}

// CategoryFiles lists results per category in discovery order.
type CategoryFiles struct {
	Stable   []FileResult `json:"stable" yaml:"stable"`
	Flaky    []FileResult `json:"flaky" yaml:"flaky"`
	Outdated []FileResult `json:"outdated" yaml:"outdated"`
	Unknown  []FileResult `json:"unknown" yaml:"unknown"`
}

// For returns the results filed under the category.
func (f CategoryFiles) For(c Category) []FileResult {
	switch c {
	case StableCategory:
		return f.Stable
	case FlakyCategory:
		return f.Flaky
	case OutdatedCategory:
		return f.Outdated
	default:
		return f.Unknown
	}
}

// AnalysisMetadata describes a scan run.
type AnalysisMetadata struct {
	AnalyzedAt     string `json:"analyzed_at" yaml:"analyzed_at"`
	RepositoryPath string `json:"repository_path" yaml:"repository_path"`
	RunID          string `json:"run_id" yaml:"run_id"`
}

// Report is the full output of a scan.
type Report struct {
	Summary          Summary          `json:"summary" yaml:"summary"`
	Files            CategoryFiles    `json:"files" yaml:"files"`
	AnalysisMetadata AnalysisMetadata `json:"analysis_metadata" yaml:"analysis_metadata"`
}

// NewReport returns an empty report expecting totalFiles results.
func NewReport(totalFiles int, meta AnalysisMetadata) *Report {
	return &Report{
		Summary: Summary{TotalFiles: totalFiles},
		Files: CategoryFiles{
			Stable:   []FileResult{},
			Flaky:    []FileResult{},
			Outdated: []FileResult{},
			Unknown:  []FileResult{},
		},
		AnalysisMetadata: meta,
	}
}

// Add files a result under its category and updates the summary.
// Results with an unrecognized category are filed as unknown.
func (r *Report) Add(result FileResult) {
	if _, ok := ValidCategories[result.Category]; !ok {
		result.Category = UnknownCategory
	}
	switch result.Category {
	case StableCategory:
		r.Files.Stable = append(r.Files.Stable, result)
	case FlakyCategory:
		r.Files.Flaky = append(r.Files.Flaky, result)
	case OutdatedCategory:
		r.Files.Outdated = append(r.Files.Outdated, result)
	default:
		r.Files.Unknown = append(r.Files.Unknown, result)
	}
	r.Summary.increment(result.Category)
}

// AllResults returns every result, grouped by category in report order.
func (r *Report) AllResults() []FileResult {
	var out []FileResult
	for _, c := range AllCategories {
		out = append(out, r.Files.For(c)...)
	}
	return out
}

// Filter returns a copy of the report restricted to the given categories.
// The summary keeps the counts of the full scan.
func (r *Report) Filter(categories ...Category) *Report {
	if len(categories) == 0 {
		return r
	}
	keep := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		keep[c] = struct{}{}
	}
	out := *r
	files := CategoryFiles{Stable: []FileResult{}, Flaky: []FileResult{}, Outdated: []FileResult{}, Unknown: []FileResult{}}
	if _, ok := keep[StableCategory]; ok {
		files.Stable = r.Files.Stable
	}
	if _, ok := keep[FlakyCategory]; ok {
		files.Flaky = r.Files.Flaky
	}
	if _, ok := keep[OutdatedCategory]; ok {
		files.Outdated = r.Files.Outdated
	}
	if _, ok := keep[UnknownCategory]; ok {
		files.Unknown = r.Files.Unknown
	}
	out.Files = files
	return &out
}
