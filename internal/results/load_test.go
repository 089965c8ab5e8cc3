package results

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoResultLog = `{"results":[{"test_id":"t1","success":true,"latency_ms":120.5,"response_length":42,"query":"hi","response":"hello"},{"test_id":"t2","success":false,"latency_ms":5,"response_length":0,"query":"bye","error":"timeout"}]}`

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.json")
	if err := os.WriteFile(path, []byte(twoResultLog), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 results, got %d", doc.Len())
	}
	if doc.Results[0].TestID != "t1" || doc.Results[1].TestID != "t2" {
		t.Fatalf("results out of order: %+v", doc.Results)
	}
	if doc.Results[1].Error != "timeout" {
		t.Fatalf("expected error to decode, got %q", doc.Results[1].Error)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"results": [`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc, err := Load(path)
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if doc != nil {
		t.Fatalf("expected no document on parse failure, got %+v", doc)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestParseDefaultsMissingSections(t *testing.T) {
	doc, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Summary.MinLatencyMs != 0 || doc.Summary.MaxLatencyMs != 0 {
		t.Fatalf("expected zero summary, got %+v", doc.Summary)
	}
	if doc.Metadata.TotalTests != 0 || doc.Metadata.Timestamp != "" {
		t.Fatalf("expected zero metadata, got %+v", doc.Metadata)
	}
	if doc.Len() != 0 {
		t.Fatalf("expected no results, got %d", doc.Len())
	}
}

func TestParseNullError(t *testing.T) {
	doc, err := Parse([]byte(`{"results":[{"test_id":"a","success":true,"error":null}]}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Results[0].Error != "" {
		t.Fatalf("expected empty error, got %q", doc.Results[0].Error)
	}
}

func TestParseTopLevelNotObject(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"text"`, `null`, ` null `, `42`, ``, `   `} {
		if _, err := Parse([]byte(raw)); !errors.Is(err, ErrInvalidJSON) {
			t.Fatalf("input %q: expected ErrInvalidJSON, got %v", raw, err)
		}
	}
}

func TestParseFieldTypeMismatchIsLenient(t *testing.T) {
	raw := `{"test_run_metadata":{"total_tests":"three","timestamp":"now"},"results":[{"test_id":"a","success":true,"latency_ms":10}]}`
	doc, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Metadata.TotalTests != 0 {
		t.Fatalf("expected mismatched field to stay zero, got %d", doc.Metadata.TotalTests)
	}
	if doc.Metadata.Timestamp != "now" {
		t.Fatalf("expected remaining fields to decode, got %q", doc.Metadata.Timestamp)
	}
	if doc.Len() != 1 {
		t.Fatalf("expected results to decode, got %d", doc.Len())
	}
	if len(doc.Warnings) != 1 || !strings.Contains(doc.Warnings[0], "total_tests") {
		t.Fatalf("expected a total_tests warning, got %v", doc.Warnings)
	}
}

func TestDecodeReader(t *testing.T) {
	doc, err := Decode(strings.NewReader(twoResultLog))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 results, got %d", doc.Len())
	}
}

func TestTotalTestsMismatchTolerated(t *testing.T) {
	doc, err := Parse([]byte(`{"test_run_metadata":{"total_tests":10},"results":[{"test_id":"x"},{"test_id":"x"}]}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Metadata.TotalTests != 10 || doc.Len() != 2 {
		t.Fatalf("expected counts preserved as given, got total=%d len=%d", doc.Metadata.TotalTests, doc.Len())
	}
}
