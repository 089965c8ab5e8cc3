// internal/report/mdview/mdview.go
// Package mdview renders reports as Markdown.
package mdview

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mwiater/evalview/internal/report"
)

// View writes Markdown sections to w.
type View struct {
	w       io.Writer
	started bool
}

var _ report.View = (*View)(nil)

// New returns a Markdown View over w.
func New(w io.Writer) *View {
	return &View{w: w}
}

// Write renders rep as a Markdown document.
func Write(w io.Writer, rep report.Report) error {
	return report.Render(New(w), rep)
}

func (v *View) RenderMetadata(panel report.MetadataPanel) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", report.Title)
	sb.WriteString("## Test Run Metadata\n\n")
	t := newTable()
	t.AppendHeader(table.Row{"Timestamp", "Total Tests", "Configuration", "Model"})
	t.AppendRow(table.Row{panel.Timestamp, panel.TotalTests, panel.ConfigurationName, panel.ModelLabel()})
	sb.WriteString(t.RenderMarkdown())
	sb.WriteString("\n\n")

	cfg, err := json.MarshalIndent(panel.Configuration, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}
	sb.WriteString("<details><summary>Configuration Details</summary>\n\n```json\n")
	sb.Write(cfg)
	sb.WriteString("\n```\n\n</details>\n\n")
	if panel.Notes != "" {
		fmt.Fprintf(&sb, "> **Notes:** %s\n\n", panel.Notes)
	}
	return v.write(sb.String())
}

func (v *View) RenderStats(panel report.StatsPanel) error {
	t := newTable()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Successful", fmt.Sprintf("%d (%s)", panel.Stats.Successful, panel.SuccessPercent)},
		{"Failed", fmt.Sprintf("%d (%s)", panel.Stats.Failed, panel.FailurePercent)},
		{"Min Latency", panel.MinLatency},
		{"Max Latency", panel.MaxLatency},
		{"Avg Latency", panel.AvgLatency},
		{"Avg Response Length", panel.AvgResponseLength},
	})
	return v.write("## Summary Statistics\n\n" + t.RenderMarkdown() + "\n\n")
}

// RenderChart has no graphical form in Markdown; the series is written as
// a two-column table.
func (v *View) RenderChart(chart report.Chart) error {
	t := newTable()
	t.AppendHeader(table.Row{chart.XLabel, chart.YLabel, "Status"})
	for _, bar := range chart.Bars {
		t.AppendRow(table.Row{bar.Label, bar.Value, bar.Status})
	}
	return v.write("## " + chart.Title + "\n\n" + t.RenderMarkdown() + "\n\n")
}

func (v *View) RenderTable(rows []report.TableRow) error {
	t := newTable()
	t.AppendHeader(table.Row{"Test ID", "Query", "Success", "Latency (ms)", "Response Length", "Error"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.TestID, row.Query, row.Mark, row.Latency, row.ResponseLength, row.Error})
	}
	return v.write("## Detailed Results\n\n" + t.RenderMarkdown() + "\n\n")
}

func (v *View) RenderDetails(blocks []report.DetailBlock) error {
	var sb strings.Builder
	sb.WriteString("## Individual Test Details\n\n")
	for _, block := range blocks {
		fmt.Fprintf(&sb, "<details><summary>%s</summary>\n\n", escape(block.Title))
		fmt.Fprintf(&sb, "**Query:**\n\n```\n%s\n```\n\n", block.Query)
		fmt.Fprintf(&sb, "**Latency:** %s  \n**Status:** %s\n\n", block.Latency, block.Mark)
		fmt.Fprintf(&sb, "**%s:**\n\n", block.BodyLabel)
		if block.Success {
			fmt.Fprintf(&sb, "%s\n\n", block.Body)
		} else {
			fmt.Fprintf(&sb, "> %s\n\n", strings.ReplaceAll(block.Body, "\n", "\n> "))
		}
		sb.WriteString("</details>\n\n")
	}
	return v.write(sb.String())
}

func (v *View) RenderFooter(footer report.Footer) error {
	return v.write("---\n\n_" + footer.Text + "_\n")
}

func (v *View) write(s string) error {
	_, err := io.WriteString(v.w, s)
	return err
}

func newTable() table.Writer {
	return table.NewWriter()
}

func escape(s string) string {
	return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(s)
}
