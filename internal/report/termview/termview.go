// internal/report/termview/termview.go
// Package termview renders reports for a terminal.
package termview

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/k0kubun/pp"

	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/util"
)

const (
	defaultWidth = 100
	labelWidth   = 16
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	metricLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metricValue  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(report.SuccessColor))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(report.FailureColor))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	footerStyle  = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

// Options tune the terminal layout.
type Options struct {
	// Width is the target line width; 0 uses 100 columns.
	Width int
	// ShowConfiguration dumps the raw run configuration under the metadata.
	ShowConfiguration bool
	// Expanded reports whether the detail block at index is open. Nil
	// renders every block expanded.
	Expanded func(index int) bool
	// ShowCursor highlights the detail block at Cursor.
	ShowCursor bool
	Cursor     int
}

// View writes each section to w as it is rendered.
type View struct {
	w    io.Writer
	opts Options
}

var _ report.View = (*View)(nil)

// New returns a terminal View over w.
func New(w io.Writer, opts Options) *View {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	return &View{w: w, opts: opts}
}

// Render formats rep as a single string.
func Render(rep report.Report, opts Options) (string, error) {
	var sb strings.Builder
	if err := report.Render(New(&sb, opts), rep); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (v *View) RenderMetadata(panel report.MetadataPanel) error {
	cards := []string{
		metric("Timestamp", panel.Timestamp),
		metric("Total Tests", strconv.Itoa(panel.TotalTests)),
		metric("Configuration", panel.ConfigurationName),
		metric("Model", panel.ModelLabel()),
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("📊 Test Run Metadata"))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	sb.WriteString("\n")
	if v.opts.ShowConfiguration {
		sb.WriteString(metricLabel.Render("🔧 Configuration Details"))
		sb.WriteString("\n")
		sb.WriteString(pp.Sprint(panel.Configuration))
		sb.WriteString("\n")
	}
	if panel.Notes != "" {
		sb.WriteString(noteStyle.Render("📝 Notes: " + panel.Notes))
		sb.WriteString("\n")
	}
	return v.write(sb.String())
}

func (v *View) RenderStats(panel report.StatsPanel) error {
	columns := []string{
		lipgloss.JoinVertical(lipgloss.Left,
			metric("✅ Successful", fmt.Sprintf("%d (%s)", panel.Stats.Successful, panel.SuccessPercent)),
			metric("❌ Failed", fmt.Sprintf("%d (%s)", panel.Stats.Failed, panel.FailurePercent)),
		),
		lipgloss.JoinVertical(lipgloss.Left,
			metric("⚡ Min Latency", panel.MinLatency),
			metric("🐢 Max Latency", panel.MaxLatency),
		),
		lipgloss.JoinVertical(lipgloss.Left,
			metric("📊 Avg Latency", panel.AvgLatency),
			metric("📝 Avg Response Length", panel.AvgResponseLength),
		),
	}
	return v.write(headerStyle.Render("📈 Summary Statistics") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, columns...) + "\n")
}

// RenderChart draws a horizontal bar per result scaled to the largest value.
func (v *View) RenderChart(chart report.Chart) error {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(chartIcon(chart.ID) + " " + chart.Title))
	sb.WriteString("\n")
	if len(chart.Bars) == 0 {
		sb.WriteString(metricLabel.Render("no results selected"))
		sb.WriteString("\n")
		return v.write(sb.String())
	}
	barWidth := max(v.opts.Width-labelWidth-14, 10)
	peak := chart.Max()
	for _, bar := range chart.Bars {
		n := 0
		if peak > 0 {
			n = int(math.Round(bar.Value / peak * float64(barWidth)))
		}
		style := failureStyle
		if bar.Success {
			style = successStyle
		}
		label := util.Truncate(bar.Label, labelWidth-3)
		fmt.Fprintf(&sb, "%-*s %s %s\n", labelWidth, label, style.Render(strings.Repeat("█", n)), formatValue(bar.Value))
	}
	sb.WriteString(metricLabel.Render(chart.YLabel))
	sb.WriteString("  ")
	sb.WriteString(successStyle.Render("■ " + report.SuccessLabel))
	sb.WriteString("  ")
	sb.WriteString(failureStyle.Render("■ " + report.FailureLabel))
	sb.WriteString("\n")
	return v.write(sb.String())
}

func (v *View) RenderTable(rows []report.TableRow) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Test ID", "Query", "Success", "Latency (ms)", "Response Length", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Success", Align: text.AlignCenter},
		{Name: "Latency (ms)", Align: text.AlignRight},
		{Name: "Response Length", Align: text.AlignRight},
		{Name: "Error", WidthMax: 30, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, row := range rows {
		t.AppendRow(table.Row{row.TestID, row.Query, row.Mark, row.Latency, row.ResponseLength, row.Error})
	}
	return v.write(headerStyle.Render("📋 Detailed Results") + "\n" + t.Render() + "\n")
}

func (v *View) RenderDetails(blocks []report.DetailBlock) error {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("🔍 Individual Test Details"))
	sb.WriteString("\n")
	inner := max(v.opts.Width-4, 20)
	for _, block := range blocks {
		open := v.opts.Expanded == nil || v.opts.Expanded(block.Index)
		marker := "▸"
		if open {
			marker = "▾"
		}
		title := marker + " " + block.Title
		if v.opts.ShowCursor && block.Index == v.opts.Cursor {
			title = cursorStyle.Render(title)
		}
		sb.WriteString(title)
		sb.WriteString("\n")
		if !open {
			continue
		}
		status := failureStyle.Render(block.Mark)
		body := failureStyle.Render(util.WrapToWidth(block.Body, inner))
		if block.Success {
			status = successStyle.Render(block.Mark)
			body = util.WrapToWidth(block.Body, inner)
		}
		var content strings.Builder
		content.WriteString(metricValue.Render("Query:"))
		content.WriteString("\n")
		content.WriteString(util.WrapToWidth(block.Query, inner))
		content.WriteString("\n\n")
		fmt.Fprintf(&content, "%s %s   %s %s\n\n", metricLabel.Render("Latency:"), block.Latency, metricLabel.Render("Status:"), status)
		content.WriteString(metricValue.Render(block.BodyLabel + ":"))
		content.WriteString("\n")
		content.WriteString(body)
		sb.WriteString(panelStyle.Width(inner).Render(content.String()))
		sb.WriteString("\n")
	}
	return v.write(sb.String())
}

func (v *View) RenderFooter(footer report.Footer) error {
	return v.write(footerStyle.Render("📁 "+footer.Text) + "\n")
}

func (v *View) write(s string) error {
	_, err := io.WriteString(v.w, s)
	return err
}

func metric(label, value string) string {
	return panelStyle.Render(metricLabel.Render(label) + "\n" + metricValue.Render(value))
}

func chartIcon(id string) string {
	if id == "latency" {
		return "⏱️"
	}
	return "📏"
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
