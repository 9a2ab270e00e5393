package schema

// CheckResult holds the results of a threshold check over a scan.
type CheckResult struct {
	Passed     bool                 `json:"passed" yaml:"passed"`
	TotalFiles int                  `json:"total_files" yaml:"total_files"`
	Limits     []CheckCategoryLimit `json:"limits" yaml:"limits"`
	Offenders  []CheckOffender      `json:"offenders" yaml:"offenders"`
}

// CheckCategoryLimit is the verdict for one limited category.
// A negative Max means the category is not limited.
type CheckCategoryLimit struct {
	Category Category `json:"category" yaml:"category"`
	Count    int      `json:"count" yaml:"count"`
	Max      int      `json:"max" yaml:"max"`
	Passed   bool     `json:"passed" yaml:"passed"`
}

// CheckOffender is a file that counts against a failed limit.
type CheckOffender struct {
	Path     string   `json:"path" yaml:"path"`
	Category Category `json:"category" yaml:"category"`
	Rule     string   `json:"rule" yaml:"rule"`
}
