package mdview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/results"
)

func TestWriteMarkdown(t *testing.T) {
	doc, err := results.Parse([]byte(`{"test_run_metadata":{"configuration_name":"baseline"},"results":[{"test_id":"t1","success":true,"latency_ms":120.5,"response_length":42,"query":"<hi>","response":"hello"},{"test_id":"t2","success":false,"latency_ms":5,"query":"bye","error":"timeout"}]}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, report.Build(doc, results.AllResults())); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	md := buf.String()
	for _, want := range []string{
		"# Evaluation Results Viewer",
		"| baseline |",
		"## Summary Statistics",
		"62.75 ms",
		"## Latency by Test",
		"## Response Length by Test",
		"| t2 |",
		"<summary>✅ t1 - &lt;hi&gt;</summary>",
		"> timeout",
		"_Displaying 2 of 2 test results_",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}
