// Package contract holds the wire contract of the enrollment endpoint.
package contract

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// EnrollmentRequestSchema is the JSON schema of the POST /enroll body.
const EnrollmentRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "EnrollmentRequest",
  "type": "object",
  "additionalProperties": false,
  "required": ["name", "date_of_birth", "contact_number", "email", "batch_id", "month"],
  "properties": {
    "name":           {"type": "string", "minLength": 1},
    "date_of_birth":  {"type": "string", "format": "date"},
    "contact_number": {"type": "string", "pattern": "^[0-9]{10}$"},
    "email":          {"type": "string", "format": "email"},
    "batch_id":       {"type": "integer", "enum": [1, 2, 3, 4]},
    "month":          {"type": "string", "pattern": "^[0-9]{4}-(0[1-9]|1[0-2])$"}
  }
}`

// Violation is one schema failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(EnrollmentRequestSchema))
})

// ValidateEnrollmentRequest checks a raw request body against the schema.
// A non-nil error means the body could not be evaluated at all (e.g. not JSON).
func ValidateEnrollmentRequest(body []byte) ([]Violation, error) {
	schema, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("compile enrollment schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("evaluate enrollment body: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if prop, ok := re.Details()["property"].(string); ok {
				field = prop
			}
		}
		violations = append(violations, Violation{
			Field:   field,
			Message: re.Description(),
			Code:    re.Type(),
		})
	}
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Field < violations[j].Field
	})
	return violations, nil
}
