package models

import (
	"fmt"
	"net/http"
)

// ValidationReason classifies why a field failed validation.
type ValidationReason string

// Validation reasons.
const (
	ReasonRequired   ValidationReason = "REQUIRED"
	ReasonOutOfRange ValidationReason = "OUT_OF_RANGE"
	ReasonMalformed  ValidationReason = "MALFORMED"
)

// ValidationError describes a single failing field.
type ValidationError struct {
	Field   Field            `json:"field"`
	Reason  ValidationReason `json:"reason"`
	Message string           `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors maps a field to its validation failure. A missing key means the field is valid.
type FieldErrors map[Field]ValidationError

// Valid reports whether no field failed.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Fields returns failing fields in form order.
func (fe FieldErrors) Fields() []Field {
	out := make([]Field, 0, len(fe))
	for _, f := range AllFields {
		if _, ok := fe[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// DefaultSubmissionMessage is shown when the collaborator gives no usable error detail.
const DefaultSubmissionMessage = "Something went wrong. Please try again."

// SubmissionError is reported when the enrollment endpoint rejects a submission
// or cannot be reached.
type SubmissionError struct {
	Message string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = DefaultSubmissionMessage
	}
	switch {
	case e.Err != nil:
		return fmt.Sprintf("submission failed: %s: %v", msg, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("submission failed (%d %s): %s", e.Status, http.StatusText(e.Status), msg)
	default:
		return "submission failed: " + msg
	}
}

// Unwrap returns the underlying transport error, if any.
func (e *SubmissionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UserMessage returns the text to display to the user.
func (e *SubmissionError) UserMessage() string {
	if e == nil || e.Message == "" {
		return DefaultSubmissionMessage
	}
	return e.Message
}
