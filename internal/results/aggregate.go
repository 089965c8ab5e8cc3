// internal/results/aggregate.go
package results

// Stats are the aggregates derived live from a filtered result set.
type Stats struct {
	Total              int     `json:"total" yaml:"total"`
	Successful         int     `json:"successful" yaml:"successful"`
	Failed             int     `json:"failed" yaml:"failed"`
	SuccessPercent     float64 `json:"success_percent" yaml:"success_percent"`
	FailurePercent     float64 `json:"failure_percent" yaml:"failure_percent"`
	MeanLatencyMs      float64 `json:"mean_latency_ms" yaml:"mean_latency_ms"`
	MeanResponseLength float64 `json:"mean_response_length" yaml:"mean_response_length"`
}

// Aggregate computes counts, percentages and arithmetic means over results.
// An empty input yields zero values.
func Aggregate(in []TestResult) Stats {
	stats := Stats{Total: len(in)}
	if stats.Total == 0 {
		return stats
	}

	var latencySum, lengthSum float64
	for _, r := range in {
		if r.Success {
			stats.Successful++
		}
		latencySum += r.LatencyMs
		lengthSum += float64(r.ResponseLength)
	}
	stats.Failed = stats.Total - stats.Successful

	n := float64(stats.Total)
	stats.SuccessPercent = float64(stats.Successful) / n * 100
	stats.FailurePercent = float64(stats.Failed) / n * 100
	stats.MeanLatencyMs = latencySum / n
	stats.MeanResponseLength = lengthSum / n
	return stats
}
