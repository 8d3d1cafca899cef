package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator validates documents against a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*Validator{}
)

// NewValidator compiles schemaJSON.
func NewValidator(schemaJSON string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ForSchema returns a cached validator for schemaJSON, compiling it on first use.
func ForSchema(schemaJSON string) (*Validator, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if v, ok := compiled[schemaJSON]; ok {
		return v, nil
	}
	v, err := NewValidator(schemaJSON)
	if err != nil {
		return nil, err
	}
	compiled[schemaJSON] = v
	return v, nil
}

// Validate checks a Go value (maps, slices, structs with json tags).
func (v *Validator) Validate(document interface{}) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return toResult(result), nil
}

// ValidateJSON checks a raw JSON document.
func (v *Validator) ValidateJSON(raw []byte) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    errorCode(desc.Type()),
		})
	}
	return out
}

// fieldName reports the offending property. gojsonschema attributes a
// missing required property to its parent, so the property name is appended.
func fieldName(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}
	prop, ok := desc.Details()["property"].(string)
	if !ok || field == prop || strings.HasSuffix(field, "."+prop) {
		return field
	}
	if field == rootField {
		return prop
	}
	return field + "." + prop
}

const rootField = "(root)"

var codeNames = map[string]string{
	"required":     "REQUIRED_FIELD_MISSING",
	"invalid_type": "INVALID_TYPE",
	"enum":         "INVALID_ENUM_VALUE",
	"number_gte":   "MINIMUM_VIOLATION",
	"number_gt":    "MINIMUM_VIOLATION",
	"number_lte":   "MAXIMUM_VIOLATION",
	"number_lt":    "MAXIMUM_VIOLATION",
	"string_gte":   "MIN_LENGTH_VIOLATION",
	"string_lte":   "MAX_LENGTH_VIOLATION",
	"pattern":      "PATTERN_MISMATCH",

	"additional_property_not_allowed": "EXTRA_FIELD",
}

func errorCode(schemaErrType string) string {
	if code, ok := codeNames[schemaErrType]; ok {
		return code
	}
	return strings.ToUpper(schemaErrType)
}

// GetErrorMessages returns "field: message" lines.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a field and its nested properties.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone accepts E.164 style numbers, optionally with spaces or dashes.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(strings.NewReplacer(" ", "", "-", "").Replace(phone))
}
