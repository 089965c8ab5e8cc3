// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileCreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "nested", "out.html")
	if err := WriteFile(path, []byte("payload")); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("unexpected file contents: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	fifty := strings.Repeat("a", 50)
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "hello", max: 50, want: "hello"},
		{name: "exact limit", in: fifty, max: 50, want: fifty},
		{name: "one over", in: fifty + "b", max: 50, want: fifty + "..."},
		{name: "multibyte", in: "こんにちは世界", max: 4, want: "こんにち..."},
		{name: "empty", in: "", max: 50, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Fatalf("Truncate(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestWrapToWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "wrap words", text: "one two three four", width: 10, want: "one two\nthree four"},
		{name: "long word split", text: "abcdefghijkl", width: 5, want: "abcde\nfghij\nkl"},
		{name: "tail joins next word", text: "abcdefg hi", width: 5, want: "abcde\nfg hi"},
		{name: "preserve blank lines", text: "para one\n\npara two", width: 20, want: "para one\n\npara two"},
		{name: "non-positive width no-op", text: "no wrap", width: 0, want: "no wrap"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := WrapToWidth(tt.text, tt.width); got != tt.want {
				t.Fatalf("WrapToWidth(%q,%d)=%q want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
