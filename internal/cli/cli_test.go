// internal/cli/cli_test.go
package evalview

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/evalview/internal/export"
)

const sampleLog = `{
  "test_run_metadata": {"timestamp": "2025-01-01T00:00:00Z", "total_tests": 3, "configuration_name": "baseline"},
  "results": [
    {"test_id": "t1", "query": "hi", "response": "hello", "success": true, "latency_ms": 120.5, "response_length": 42},
    {"test_id": "t2", "query": "bye", "success": false, "latency_ms": 5, "response_length": 0, "error": "timeout"}
  ],
  "summary": {"min_latency_ms": 5, "max_latency_ms": 120.5}
}`

func writeLog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat(exportOptions{format: "md"}, true)
	if err != nil || f != export.FormatMarkdown {
		t.Fatalf("expected markdown, got %q (%v)", f, err)
	}
	f, err = resolveFormat(exportOptions{output: "out/report.yaml"}, false)
	if err != nil || f != export.FormatYAML {
		t.Fatalf("expected yaml from extension, got %q (%v)", f, err)
	}
	f, err = resolveFormat(exportOptions{output: "-"}, false)
	if err != nil || f != export.FormatHTML {
		t.Fatalf("expected html fallback, got %q (%v)", f, err)
	}
	if _, err := resolveFormat(exportOptions{format: "pdf"}, true); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestRunExportWritesFile(t *testing.T) {
	input := writeLog(t, sampleLog)
	output := filepath.Join(t.TempDir(), "nested", "report.csv")

	path, err := runExport(input, exportOptions{output: output}, false, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("runExport error: %v", err)
	}
	if path != output {
		t.Fatalf("expected %s, got %s", output, path)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "test_id,query,success") {
		t.Fatalf("unexpected csv:\n%s", data)
	}
}

func TestRunExportDefaultOutputAndStdout(t *testing.T) {
	input := writeLog(t, sampleLog)

	path, err := runExport(input, exportOptions{format: "json"}, true, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("runExport error: %v", err)
	}
	if want := strings.TrimSuffix(input, ".json") + "-report.json"; path != want {
		t.Fatalf("expected default output %s, got %s", want, path)
	}

	var stdout bytes.Buffer
	if _, err := runExport(input, exportOptions{format: "markdown", output: "-"}, true, &stdout); err != nil {
		t.Fatalf("runExport error: %v", err)
	}
	if !strings.Contains(stdout.String(), "# Evaluation Results Viewer") {
		t.Fatalf("expected markdown on stdout, got:\n%s", stdout.String())
	}
}

func TestRunExportMissingFile(t *testing.T) {
	if _, err := runExport(filepath.Join(t.TempDir(), "nope.json"), exportOptions{format: "html"}, true, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestRunValidate(t *testing.T) {
	var out bytes.Buffer
	issues, err := runValidate(writeLog(t, sampleLog), &out)
	if err != nil {
		t.Fatalf("runValidate error: %v", err)
	}
	if issues != 0 {
		t.Fatalf("expected no schema issues, got %d:\n%s", issues, out.String())
	}
	if !strings.Contains(out.String(), "does not match total_tests 3") {
		t.Fatalf("expected count mismatch warning, got:\n%s", out.String())
	}

	out.Reset()
	issues, err = runValidate(writeLog(t, `{"results": [{"test_id": 7, "success": "yes"}]}`), &out)
	if err != nil {
		t.Fatalf("runValidate error: %v", err)
	}
	if issues == 0 {
		t.Fatalf("expected schema issues, got none:\n%s", out.String())
	}

	if _, err := runValidate(writeLog(t, `{"results": [`), &out); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestExecuteExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"view", "--plain", filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1 for missing file, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Error: file not found") {
		t.Fatalf("expected error message, got %q", stderr.String())
	}

	stdout.Reset()
	stderr.Reset()
	code = execute(context.Background(), []string{"view", "--plain", "--width", "100", writeLog(t, sampleLog)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Displaying 2 of 2 test results") {
		t.Fatalf("expected plain report, got:\n%s", stdout.String())
	}

	stdout.Reset()
	code = execute(context.Background(), []string{"show", "config"}, &stdout, &stderr)
	if code != 0 || !strings.Contains(stdout.String(), "Current configuration:") {
		t.Fatalf("expected config output, got %d:\n%s", code, stdout.String())
	}
}
