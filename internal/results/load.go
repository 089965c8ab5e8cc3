// internal/results/load.go
package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

var (
	// ErrFileNotFound is returned when the log path does not resolve to a file.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidJSON is returned when the log cannot be parsed as a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Load reads and decodes the evaluation log at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode reads the whole stream and decodes it as an evaluation log. It is
// used for uploaded files.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read upload: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw JSON into a Document. A type mismatch on a nested field
// is not fatal: the field stays zero and the first mismatch is recorded in
// Document.Warnings.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidJSON)
	}
	// null would decode into a zero Document.
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidJSON)
	}

	var doc Document
	err := json.Unmarshal(data, &doc)
	if err == nil {
		return &doc, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("field %q: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value))
		return &doc, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
}
