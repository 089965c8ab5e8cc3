// internal/report/view.go
package report

import "fmt"

// View is the surface a UI implements to display a Report. Render calls the
// methods in declaration order, RenderChart once per chart.
type View interface {
	RenderMetadata(MetadataPanel) error
	RenderStats(StatsPanel) error
	RenderChart(Chart) error
	RenderTable([]TableRow) error
	RenderDetails([]DetailBlock) error
	RenderFooter(Footer) error
}

// Flusher is implemented by views that buffer sections and write them out
// once the report is complete.
type Flusher interface {
	Flush() error
}

// Render drives v through every section of rep.
func Render(v View, rep Report) error {
	if err := v.RenderMetadata(rep.Metadata); err != nil {
		return fmt.Errorf("render metadata: %w", err)
	}
	if err := v.RenderStats(rep.Stats); err != nil {
		return fmt.Errorf("render stats: %w", err)
	}
	for _, chart := range rep.Charts {
		if err := v.RenderChart(chart); err != nil {
			return fmt.Errorf("render chart %s: %w", chart.ID, err)
		}
	}
	if err := v.RenderTable(rep.Table); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if err := v.RenderDetails(rep.Details); err != nil {
		return fmt.Errorf("render details: %w", err)
	}
	if err := v.RenderFooter(rep.Footer); err != nil {
		return fmt.Errorf("render footer: %w", err)
	}
	if f, ok := v.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush view: %w", err)
		}
	}
	return nil
}
