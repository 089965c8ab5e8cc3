// internal/report/htmlview/htmlview.go
// Package htmlview renders reports as a standalone HTML dashboard.
package htmlview

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/results"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.New("evalview").ParseFS(templateFS, "templates/*.html.tmpl"))

// Options controls the page chrome around a report.
type Options struct {
	// Notice is shown as a success banner, e.g. the file that was loaded.
	Notice string
	// Interactive enables the filter form. FilterAction is the URL it
	// submits to; empty submits to the current page.
	Interactive  bool
	FilterAction string
	// UploadAction links to the upload form when set.
	UploadAction string
}

type reportPage struct {
	Title             string
	Notice            string
	Warnings          []string
	Interactive       bool
	FilterAction      string
	UploadAction      string
	Selection         results.Selection
	Metadata          report.MetadataPanel
	ConfigurationJSON string
	Stats             report.StatsPanel
	Charts            []report.Chart
	ChartsJSON        template.JS
	Table             []report.TableRow
	Details           []report.DetailBlock
	Footer            report.Footer
}

// View collects report sections and writes the page on Flush.
type View struct {
	w    io.Writer
	page reportPage
}

var _ report.View = (*View)(nil)

// New returns a View writing to w.
func New(w io.Writer, opts Options) *View {
	return &View{
		w: w,
		page: reportPage{
			Title:        report.Title,
			Notice:       opts.Notice,
			Interactive:  opts.Interactive,
			FilterAction: opts.FilterAction,
			UploadAction: opts.UploadAction,
		},
	}
}

// Write renders rep as a full HTML page.
func Write(w io.Writer, rep report.Report, opts Options) error {
	v := New(w, opts)
	v.page.Selection = rep.Selection
	v.page.Warnings = rep.Warnings
	return report.Render(v, rep)
}

func (v *View) RenderMetadata(panel report.MetadataPanel) error {
	cfg, err := json.MarshalIndent(panel.Configuration, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}
	v.page.Metadata = panel
	v.page.ConfigurationJSON = string(cfg)
	return nil
}

func (v *View) RenderStats(panel report.StatsPanel) error {
	v.page.Stats = panel
	return nil
}

func (v *View) RenderChart(chart report.Chart) error {
	v.page.Charts = append(v.page.Charts, chart)
	return nil
}

func (v *View) RenderTable(rows []report.TableRow) error {
	v.page.Table = rows
	return nil
}

func (v *View) RenderDetails(blocks []report.DetailBlock) error {
	v.page.Details = blocks
	return nil
}

func (v *View) RenderFooter(footer report.Footer) error {
	v.page.Footer = footer
	return nil
}

// Flush executes the page template. The page is built in memory first so a
// template failure never leaves a partial document on w.
func (v *View) Flush() error {
	charts := v.page.Charts
	if charts == nil {
		charts = []report.Chart{}
	}
	payload, err := json.Marshal(charts)
	if err != nil {
		return fmt.Errorf("marshal charts: %w", err)
	}
	v.page.ChartsJSON = template.JS(payload)
	return execute(v.w, "report", v.page)
}

// UploadPage is the file-selection fallback shown when no log is loaded.
type UploadPage struct {
	UploadAction  string
	MaxUploadSize string
}

// WriteUpload renders the upload form.
func WriteUpload(w io.Writer, page UploadPage) error {
	return execute(w, "upload", struct {
		Title string
		UploadPage
	}{Title: report.Title, UploadPage: page})
}

// ErrorPage is a user-visible load failure.
type ErrorPage struct {
	Message      string
	UploadAction string
}

// WriteError renders a load failure page.
func WriteError(w io.Writer, page ErrorPage) error {
	return execute(w, "error", struct {
		Title string
		ErrorPage
	}{Title: report.Title, ErrorPage: page})
}

func execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute %s template: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
