package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed card_catalog.schema.json
var cardCatalogSchema string

// SchemaError reports which seed fields failed schema validation.
type SchemaError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("catalog seed validation failed:\n")
	for i, fieldErr := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, fieldErr.Field, fieldErr.Message))
	}
	return sb.String()
}

// ValidateSeed checks raw seed JSON against the embedded card catalog schema
// before any of it is decoded into records.
func ValidateSeed(seedJSON []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(cardCatalogSchema)
	documentLoader := gojsonschema.NewBytesLoader(seedJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return schemaErr
}
