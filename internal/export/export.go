// internal/export/export.go
// Package export writes reports to files in one of several formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/report/htmlview"
	"github.com/mwiater/evalview/internal/report/mdview"
)

// Format names an export encoding.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
)

var extensions = map[Format]string{
	FormatHTML:     ".html",
	FormatMarkdown: ".md",
	FormatJSON:     ".json",
	FormatYAML:     ".yaml",
	FormatCSV:      ".csv",
}

var aliases = map[string]Format{
	"htm": FormatHTML,
	"md":  FormatMarkdown,
	"yml": FormatYAML,
}

// ErrUnknownFormat is returned for format names outside Formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(extensions))
	for f := range extensions {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat resolves a user-supplied format name, accepting common aliases.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	if _, ok := extensions[Format(name)]; ok {
		return Format(name), nil
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
}

// FormatFromPath infers the format from an output file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Extension returns the file extension, including the dot, for f.
func (f Format) Extension() string {
	return extensions[f]
}

// DefaultOutput derives an output path from the input log path.
func DefaultOutput(input string, f Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if base == "" {
		base = "report"
	}
	return base + "-report" + f.Extension()
}

// Write encodes rep to w in format f.
func Write(w io.Writer, f Format, rep report.Report) error {
	switch f {
	case FormatHTML:
		return htmlview.Write(w, rep, htmlview.Options{})
	case FormatMarkdown:
		return mdview.Write(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, rep.Table)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
	}
}

var csvHeader = []string{"test_id", "query", "success", "latency_ms", "response_length", "error"}

func writeCSV(w io.Writer, rows []report.TableRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		errText := row.Error
		if errText == report.ErrorPlaceholder {
			errText = ""
		}
		record := []string{
			row.TestID,
			row.Query,
			strconv.FormatBool(row.Success),
			row.Latency,
			strconv.Itoa(row.ResponseLength),
			errText,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.TestID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
