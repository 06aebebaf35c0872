package models

import (
	"encoding/json"
	"time"
)

// Field identifies one input of the enrollment form. Values match the wire names.
type Field string

// Enrollment form fields.
const (
	FieldName          Field = "name"
	FieldDateOfBirth   Field = "date_of_birth"
	FieldContactNumber Field = "contact_number"
	FieldEmail         Field = "email"
	FieldBatchID       Field = "batch_id"
	FieldMonth         Field = "month"
)

// AllFields lists the form fields in display order.
var AllFields = []Field{
	FieldName,
	FieldDateOfBirth,
	FieldContactNumber,
	FieldEmail,
	FieldBatchID,
	FieldMonth,
}

// Label returns the human readable field caption.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldDateOfBirth:
		return "Date of Birth"
	case FieldContactNumber:
		return "Contact Number"
	case FieldEmail:
		return "Email"
	case FieldBatchID:
		return "Batch"
	case FieldMonth:
		return "Month"
	default:
		return string(f)
	}
}

// Valid reports whether f is one of the known form fields.
func (f Field) Valid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

// Date layouts accepted by the form.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// EnrollmentDraft holds the not-yet-submitted form values exactly as entered.
type EnrollmentDraft struct {
	Name          string `json:"name"`
	DateOfBirth   string `json:"date_of_birth"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	BatchID       string `json:"batch_id"`
	Month         string `json:"month"`
}

// Value returns the raw value of a field.
func (d EnrollmentDraft) Value(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldDateOfBirth:
		return d.DateOfBirth
	case FieldContactNumber:
		return d.ContactNumber
	case FieldEmail:
		return d.Email
	case FieldBatchID:
		return d.BatchID
	case FieldMonth:
		return d.Month
	default:
		return ""
	}
}

// With returns a copy of the draft with field set to value. Unknown fields are ignored.
func (d EnrollmentDraft) With(field Field, value string) EnrollmentDraft {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDateOfBirth:
		d.DateOfBirth = value
	case FieldContactNumber:
		d.ContactNumber = value
	case FieldEmail:
		d.Email = value
	case FieldBatchID:
		d.BatchID = value
	case FieldMonth:
		d.Month = value
	}
	return d
}

// EnrollmentPayload is the request body sent to the enrollment endpoint.
type EnrollmentPayload struct {
	Name          string `json:"name"`
	DateOfBirth   string `json:"date_of_birth"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	BatchID       int    `json:"batch_id"`
	Month         string `json:"month"`
}

// EnrollmentAck is the acknowledgment returned for an accepted submission.
type EnrollmentAck struct {
	Status     int             `json:"status"`
	RequestID  string          `json:"request_id"`
	Body       json.RawMessage `json:"body,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}
