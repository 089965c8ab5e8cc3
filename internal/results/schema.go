// internal/results/schema.go
package results

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var logSchema string

var schemaLoader = gojsonschema.NewStringLoader(logSchema)

// SchemaIssue is a single deviation from the expected log layout.
type SchemaIssue struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func (i SchemaIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Description)
}

// Validate checks raw against the evaluation log schema. Issues are
// advisory; a document with issues still renders. An error is returned only
// when raw is not JSON at all.
func Validate(raw []byte) ([]SchemaIssue, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if result.Valid() {
		return nil, nil
	}
	issues := make([]SchemaIssue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, SchemaIssue{
			Field:       desc.Field(),
			Description: desc.Description(),
		})
	}
	return issues, nil
}
