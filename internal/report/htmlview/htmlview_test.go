package htmlview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/results"
)

func exampleReport(t *testing.T, sel results.Selection) report.Report {
	t.Helper()
	doc, err := results.Parse([]byte(`{"test_run_metadata":{"timestamp":"2025-12-01","total_tests":2,"configuration_name":"baseline","configuration":{"llm":{"model_name":"qwen"}},"notes":"cold <start>"},"results":[{"test_id":"t1","success":true,"latency_ms":120.5,"response_length":42,"query":"hi","response":"hello"},{"test_id":"t2","success":false,"latency_ms":5,"query":"bye","error":"timeout"}],"summary":{"min_latency_ms":5,"max_latency_ms":120.5}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return report.Build(doc, sel)
}

func TestWriteRendersSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, exampleReport(t, results.AllResults()), Options{Notice: "Loaded: eval.json"}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"<title>Evaluation Results Viewer</title>",
		"Loaded: eval.json",
		"qwen",
		"baseline",
		"62.75 ms",
		"120.50 ms",
		"chart-latency",
		"chart-response-length",
		"✅ t1 - hi",
		"timeout",
		"Displaying 2 of 2 test results",
		"Selection fixed at export time",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in report HTML", want)
		}
	}
	if strings.Contains(html, "cold <start>") {
		t.Fatal("expected notes to be HTML-escaped")
	}
	if !strings.Contains(html, `"color":"#00cc66"`) {
		t.Fatal("expected chart payload with bar colors")
	}
}

func TestWriteInteractiveFilterForm(t *testing.T) {
	var buf bytes.Buffer
	rep := exampleReport(t, results.Selection{IncludeFailed: true})
	if err := Write(&buf, rep, Options{Interactive: true, FilterAction: "/sessions/abc", UploadAction: "/"}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, `action="/sessions/abc"`) {
		t.Fatal("expected filter form to submit to the session URL")
	}
	if strings.Contains(html, "✅ t1 - hi") {
		t.Fatal("expected successful result to be filtered out")
	}
	if !strings.Contains(html, "Displaying 1 of 2 test results") {
		t.Fatal("expected footer to reflect selection")
	}
}

func TestWriteEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, report.Build(nil, results.Selection{}), Options{}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !strings.Contains(buf.String(), "const charts = [") {
		t.Fatal("expected an empty chart payload array")
	}
}

func TestWriteUploadAndError(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUpload(&buf, UploadPage{UploadAction: "/upload", MaxUploadSize: "10MB"}); err != nil {
		t.Fatalf("WriteUpload error: %v", err)
	}
	if !strings.Contains(buf.String(), `enctype="multipart/form-data"`) || !strings.Contains(buf.String(), "10MB") {
		t.Fatal("expected multipart upload form")
	}

	buf.Reset()
	if err := WriteError(&buf, ErrorPage{Message: "Invalid JSON file: unexpected end"}); err != nil {
		t.Fatalf("WriteError error: %v", err)
	}
	if !strings.Contains(buf.String(), "Invalid JSON file: unexpected end") {
		t.Fatal("expected error message in page")
	}
}
