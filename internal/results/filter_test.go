package results

import (
	"reflect"
	"testing"
)

func sampleResults() []TestResult {
	return []TestResult{
		{TestID: "a", Success: true, LatencyMs: 10, ResponseLength: 4},
		{TestID: "b", Success: false, LatencyMs: 20},
		{TestID: "c", Success: true, LatencyMs: 30, ResponseLength: 8},
		{TestID: "a", Success: false, LatencyMs: 40},
	}
}

func TestFilterBothFlagsKeepsSequence(t *testing.T) {
	in := sampleResults()
	got := Filter(in, AllResults())
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("expected unchanged sequence, got %+v", got)
	}
}

func TestFilterNoFlagsIsEmpty(t *testing.T) {
	got := Filter(sampleResults(), Selection{})
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestFilterSingleFlag(t *testing.T) {
	ok := Filter(sampleResults(), Selection{IncludeSuccessful: true})
	if len(ok) != 2 || ok[0].TestID != "a" || ok[1].TestID != "c" {
		t.Fatalf("unexpected successful subset: %+v", ok)
	}
	failed := Filter(sampleResults(), Selection{IncludeFailed: true})
	if len(failed) != 2 || failed[0].TestID != "b" || failed[1].LatencyMs != 40 {
		t.Fatalf("unexpected failed subset: %+v", failed)
	}
}

func TestFilterEmptyInput(t *testing.T) {
	if got := Filter(nil, AllResults()); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
