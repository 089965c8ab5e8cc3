// internal/results/filter.go
package results

// Selection is the filter a viewer applies to a document. It is passed
// explicitly into every render.
type Selection struct {
	IncludeSuccessful bool `json:"include_successful" yaml:"include_successful"`
	IncludeFailed     bool `json:"include_failed" yaml:"include_failed"`
}

// AllResults selects both successful and failed results.
func AllResults() Selection {
	return Selection{IncludeSuccessful: true, IncludeFailed: true}
}

// Includes reports whether r passes the selection.
func (s Selection) Includes(r TestResult) bool {
	return (s.IncludeSuccessful && r.Success) || (s.IncludeFailed && !r.Success)
}

// Filter returns the results that pass the selection, in input order. The
// returned slice is never nil.
func Filter(in []TestResult, sel Selection) []TestResult {
	out := make([]TestResult, 0, len(in))
	for _, r := range in {
		if sel.Includes(r) {
			out = append(out, r)
		}
	}
	return out
}
