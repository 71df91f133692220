package yarrow

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// Validator checks a decoded Request or ResultElement against a compiled
// JSON Schema. Before running the full (comparatively expensive) schema
// pass, it rejects a value missing one of the schema's top-level
// "required" fields with a handful of map lookups — the same
// cheap-check-before-expensive-work shape as bjaus-dispatch's Router
// matching a Source before invoking its Handler, applied here directly
// to the Go value the Dispatcher has already decoded rather than
// re-inspecting the request's raw wire bytes.
type Validator struct {
	schema   *gojsonschema.Schema
	required []string
}

// NewValidator compiles schemaJSON and extracts its top-level "required"
// field list for the precheck.
func NewValidator(schemaJSON string) (*Validator, error) {
	loader := gojsonschema.NewStringLoader(schemaJSON)
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var required []string
	for _, r := range gjson.Get(schemaJSON, "required").Array() {
		required = append(required, r.String())
	}

	return &Validator{schema: schema, required: required}, nil
}

// Validate checks value against the compiled schema.
func (v *Validator) Validate(value map[string]any) error {
	for _, field := range v.required {
		if _, ok := value[field]; !ok {
			return fmt.Errorf("missing required field %q", field)
		}
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	return formatErrors(result)
}

func formatErrors(result *gojsonschema.Result) error {
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
