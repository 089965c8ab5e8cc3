// internal/report/report.go
// Package report projects an evaluation log into a display model and drives
// a View through its sections.
package report

import (
	"fmt"
	"strings"

	"github.com/mwiater/evalview/internal/results"
	"github.com/mwiater/evalview/internal/util"
)

const (
	// Title is the heading every view uses for the report.
	Title = "Evaluation Results Viewer"
	// NotAvailable labels metadata the log did not provide.
	NotAvailable = "N/A"
	// ErrorPlaceholder fills the table error column when a result has none.
	ErrorPlaceholder = "-"

	// SuccessColor and FailureColor color chart bars by status.
	SuccessColor = "#00cc66"
	FailureColor = "#ff4444"

	// SuccessLabel and FailureLabel are the chart legend categories.
	SuccessLabel = "✅ Success"
	FailureLabel = "❌ Failed"

	successMark = "✅"
	failureMark = "❌"

	// harness placeholder written when a run has no notes
	emptyNotes = "No notes provided"

	tableQueryRunes  = 50
	detailQueryRunes = 60
)

// Report is the complete display model for one document and selection.
type Report struct {
	Title     string            `json:"title" yaml:"title"`
	Selection results.Selection `json:"selection" yaml:"selection"`
	Metadata  MetadataPanel     `json:"metadata" yaml:"metadata"`
	Stats     StatsPanel        `json:"stats" yaml:"stats"`
	Charts    []Chart           `json:"charts" yaml:"charts"`
	Table     []TableRow        `json:"table" yaml:"table"`
	Details   []DetailBlock     `json:"details" yaml:"details"`
	Footer    Footer            `json:"footer" yaml:"footer"`
	Warnings  []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// MetadataPanel summarises the run header.
type MetadataPanel struct {
	Timestamp         string         `json:"timestamp" yaml:"timestamp"`
	TotalTests        int            `json:"total_tests" yaml:"total_tests"`
	ConfigurationName string         `json:"configuration_name" yaml:"configuration_name"`
	Model             string         `json:"model" yaml:"model"`
	Provider          string         `json:"provider,omitempty" yaml:"provider,omitempty"`
	Configuration     map[string]any `json:"configuration" yaml:"configuration"`
	// Notes is empty when the run carried none worth showing.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// StatsPanel carries the live aggregates and the upstream latency bounds,
// each with its display label.
type StatsPanel struct {
	Stats             results.Stats `json:"stats" yaml:"stats"`
	SuccessPercent    string        `json:"success_percent" yaml:"success_percent"`
	FailurePercent    string        `json:"failure_percent" yaml:"failure_percent"`
	MinLatencyMs      float64       `json:"min_latency_ms" yaml:"min_latency_ms"`
	MaxLatencyMs      float64       `json:"max_latency_ms" yaml:"max_latency_ms"`
	MinLatency        string        `json:"min_latency" yaml:"min_latency"`
	MaxLatency        string        `json:"max_latency" yaml:"max_latency"`
	AvgLatency        string        `json:"avg_latency" yaml:"avg_latency"`
	AvgResponseLength string        `json:"avg_response_length" yaml:"avg_response_length"`
}

// Chart is a categorical bar chart with one bar per result.
type Chart struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	XLabel string `json:"x_label" yaml:"x_label"`
	YLabel string `json:"y_label" yaml:"y_label"`
	Bars   []Bar  `json:"bars" yaml:"bars"`
}

// Bar is a single chart bar.
type Bar struct {
	Label   string  `json:"label" yaml:"label"`
	Value   float64 `json:"value" yaml:"value"`
	Success bool    `json:"success" yaml:"success"`
	Status  string  `json:"status" yaml:"status"`
	Color   string  `json:"color" yaml:"color"`
}

// Max returns the largest bar value, or 0 for an empty chart.
func (c Chart) Max() float64 {
	var m float64
	for _, b := range c.Bars {
		if b.Value > m {
			m = b.Value
		}
	}
	return m
}

// TableRow is one line of the result grid.
type TableRow struct {
	TestID         string `json:"test_id" yaml:"test_id"`
	Query          string `json:"query" yaml:"query"`
	Success        bool   `json:"success" yaml:"success"`
	Mark           string `json:"mark" yaml:"mark"`
	Latency        string `json:"latency_ms" yaml:"latency_ms"`
	ResponseLength int    `json:"response_length" yaml:"response_length"`
	Error          string `json:"error" yaml:"error"`
}

// DetailBlock is the expandable panel for a single result.
type DetailBlock struct {
	Index       int    `json:"index" yaml:"index"`
	TestID      string `json:"test_id" yaml:"test_id"`
	Title       string `json:"title" yaml:"title"`
	Query       string `json:"query" yaml:"query"`
	Success     bool   `json:"success" yaml:"success"`
	Mark        string `json:"mark" yaml:"mark"`
	StatusColor string `json:"status_color" yaml:"status_color"`
	Latency     string `json:"latency" yaml:"latency"`
	BodyLabel   string `json:"body_label" yaml:"body_label"`
	Body        string `json:"body" yaml:"body"`
}

// Footer reports how much of the log is on screen.
type Footer struct {
	Shown int    `json:"shown" yaml:"shown"`
	Total int    `json:"total" yaml:"total"`
	Text  string `json:"text" yaml:"text"`
}

// Build projects doc through sel into a Report. A nil document renders as an
// empty one.
func Build(doc *results.Document, sel results.Selection) Report {
	if doc == nil {
		doc = &results.Document{}
	}
	filtered := results.Filter(doc.Results, sel)

	rep := Report{
		Title:     Title,
		Selection: sel,
		Metadata:  NewMetadataPanel(doc.Metadata),
		Stats:     NewStatsPanel(doc.Summary, results.Aggregate(filtered)),
		Charts: []Chart{
			NewChart("latency", "Latency by Test", "Latency (ms)", filtered, func(r results.TestResult) float64 { return r.LatencyMs }),
			NewChart("response-length", "Response Length by Test", "Response Length", filtered, func(r results.TestResult) float64 { return float64(r.ResponseLength) }),
		},
		Table:   make([]TableRow, 0, len(filtered)),
		Details: make([]DetailBlock, 0, len(filtered)),
		Footer: Footer{
			Shown: len(filtered),
			Total: doc.Len(),
			Text:  fmt.Sprintf("Displaying %d of %d test results", len(filtered), doc.Len()),
		},
		Warnings: doc.Warnings,
	}
	for i, r := range filtered {
		rep.Table = append(rep.Table, NewTableRow(r))
		rep.Details = append(rep.Details, NewDetailBlock(i, r))
	}
	return rep
}

// NewMetadataPanel labels the run metadata, substituting N/A for absent
// values.
func NewMetadataPanel(meta results.RunMetadata) MetadataPanel {
	cfg := meta.Configuration
	if cfg == nil {
		cfg = map[string]any{}
	}
	panel := MetadataPanel{
		Timestamp:         orNotAvailable(meta.Timestamp),
		TotalTests:        meta.TotalTests,
		ConfigurationName: orNotAvailable(meta.ConfigurationName),
		Model:             orNotAvailable(meta.ModelName()),
		Provider:          strings.TrimSpace(meta.Provider()),
		Configuration:     cfg,
	}
	if notes := strings.TrimSpace(meta.Notes); notes != "" && notes != emptyNotes {
		panel.Notes = notes
	}
	return panel
}

// ModelLabel is the model name followed by the provider when one is known.
func (p MetadataPanel) ModelLabel() string {
	if p.Provider == "" || p.Model == NotAvailable {
		return p.Model
	}
	return fmt.Sprintf("%s (%s)", p.Model, p.Provider)
}

// NewStatsPanel pairs the live aggregates with the upstream summary.
func NewStatsPanel(summary results.Summary, stats results.Stats) StatsPanel {
	return StatsPanel{
		Stats:             stats,
		SuccessPercent:    percentLabel(stats.Total, stats.SuccessPercent),
		FailurePercent:    percentLabel(stats.Total, stats.FailurePercent),
		MinLatencyMs:      summary.MinLatencyMs,
		MaxLatencyMs:      summary.MaxLatencyMs,
		MinLatency:        FormatLatency(summary.MinLatencyMs),
		MaxLatency:        FormatLatency(summary.MaxLatencyMs),
		AvgLatency:        FormatLatency(stats.MeanLatencyMs),
		AvgResponseLength: fmt.Sprintf("%.0f chars", stats.MeanResponseLength),
	}
}

// NewChart builds one bar per result using value for the bar height.
func NewChart(id, title, yLabel string, in []results.TestResult, value func(results.TestResult) float64) Chart {
	chart := Chart{ID: id, Title: title, XLabel: "Test ID", YLabel: yLabel, Bars: make([]Bar, 0, len(in))}
	for _, r := range in {
		chart.Bars = append(chart.Bars, Bar{
			Label:   r.TestID,
			Value:   value(r),
			Success: r.Success,
			Status:  StatusLabel(r.Success),
			Color:   StatusColor(r.Success),
		})
	}
	return chart
}

// NewTableRow renders a result as a grid row.
func NewTableRow(r results.TestResult) TableRow {
	errText := r.Error
	if errText == "" {
		errText = ErrorPlaceholder
	}
	return TableRow{
		TestID:         r.TestID,
		Query:          util.Truncate(r.Query, tableQueryRunes),
		Success:        r.Success,
		Mark:           StatusMark(r.Success),
		Latency:        fmt.Sprintf("%.2f", r.LatencyMs),
		ResponseLength: r.ResponseLength,
		Error:          errText,
	}
}

// NewDetailBlock renders the expandable panel for the idx-th (0-based)
// filtered result.
func NewDetailBlock(idx int, r results.TestResult) DetailBlock {
	id := r.TestID
	if id == "" {
		id = fmt.Sprintf("Test %d", idx+1)
	}
	block := DetailBlock{
		Index:       idx,
		TestID:      id,
		Title:       fmt.Sprintf("%s %s - %s", StatusMark(r.Success), id, util.Truncate(r.Query, detailQueryRunes)),
		Query:       r.Query,
		Success:     r.Success,
		Mark:        StatusMark(r.Success),
		StatusColor: "red",
		Latency:     FormatLatency(r.LatencyMs),
		BodyLabel:   "Error",
		Body:        r.Error,
	}
	if r.Success {
		block.StatusColor = "green"
		block.BodyLabel = "Response"
		block.Body = r.Response
	}
	return block
}

// FormatLatency renders milliseconds with two decimals.
func FormatLatency(ms float64) string {
	return fmt.Sprintf("%.2f ms", ms)
}

// StatusMark is the single-glyph status used in tables and titles.
func StatusMark(success bool) string {
	if success {
		return successMark
	}
	return failureMark
}

// StatusLabel is the chart legend category for a result.
func StatusLabel(success bool) string {
	if success {
		return SuccessLabel
	}
	return FailureLabel
}

// StatusColor is the bar color for a result.
func StatusColor(success bool) string {
	if success {
		return SuccessColor
	}
	return FailureColor
}

func percentLabel(total int, pct float64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

func orNotAvailable(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}
