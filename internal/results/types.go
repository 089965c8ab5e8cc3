// internal/results/types.go
// Package results loads evaluation harness logs and derives the aggregates
// shown in a report.
package results

// Document is the top-level evaluation log. Every field is optional; absent
// keys decode to their zero values.
type Document struct {
	Metadata RunMetadata  `json:"test_run_metadata" yaml:"test_run_metadata"`
	Results  []TestResult `json:"results" yaml:"results"`
	Summary  Summary      `json:"summary" yaml:"summary"`

	// Warnings lists field-level type mismatches that were skipped during
	// decoding. The affected fields keep their zero values.
	Warnings []string `json:"-" yaml:"-"`
}

// RunMetadata describes the evaluation run that produced the log.
type RunMetadata struct {
	Timestamp         string         `json:"timestamp" yaml:"timestamp"`
	TotalTests        int            `json:"total_tests" yaml:"total_tests"`
	Configuration     map[string]any `json:"configuration" yaml:"configuration"`
	ConfigurationName string         `json:"configuration_name" yaml:"configuration_name"`
	Notes             string         `json:"notes" yaml:"notes"`
}

// TestResult is one evaluated query/response pair.
type TestResult struct {
	TestID         string  `json:"test_id" yaml:"test_id"`
	Query          string  `json:"query" yaml:"query"`
	Response       string  `json:"response,omitempty" yaml:"response,omitempty"`
	Success        bool    `json:"success" yaml:"success"`
	LatencyMs      float64 `json:"latency_ms" yaml:"latency_ms"`
	ResponseLength int     `json:"response_length" yaml:"response_length"`
	Error          string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary holds aggregates precomputed by the harness. They are displayed
// as-is and never recomputed.
type Summary struct {
	MinLatencyMs float64 `json:"min_latency_ms" yaml:"min_latency_ms"`
	MaxLatencyMs float64 `json:"max_latency_ms" yaml:"max_latency_ms"`
}

// Len reports how many results the document carries. It may differ from
// Metadata.TotalTests.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Results)
}
