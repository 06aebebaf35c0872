package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/yoga-admission/internal/models"
)

// Admission age limits, both inclusive.
const (
	MinEnrollmentAge = 18
	MaxEnrollmentAge = 65
)

var contactNumberPattern = regexp.MustCompile(`^\d{10}$`)

type fieldCheck func(value string, today time.Time) (models.ValidationReason, string, bool)

type fieldRule struct {
	field models.Field
	check fieldCheck
}

// EnrollmentRules is the declarative rule set applied to an enrollment draft.
// Each field is evaluated on its own; one failing field never hides another.
type EnrollmentRules struct {
	validator *validator.Validate
	rules     []fieldRule
}

// NewEnrollmentRules constructs the rule set.
func NewEnrollmentRules(validate *validator.Validate) *EnrollmentRules {
	if validate == nil {
		validate = validator.New()
	}
	r := &EnrollmentRules{validator: validate}
	r.rules = []fieldRule{
		{field: models.FieldName, check: required("Name is required", nil)},
		{field: models.FieldDateOfBirth, check: required("Date of Birth is required", checkAge)},
		{field: models.FieldContactNumber, check: required("Contact number is required", checkContactNumber)},
		{field: models.FieldEmail, check: required("Email is required", r.checkEmail)},
		{field: models.FieldBatchID, check: required("Batch selection is required", checkBatch)},
		{field: models.FieldMonth, check: required("Month is required", checkMonth)},
	}
	return r
}

var defaultRules = NewEnrollmentRules(nil)

// Validate runs the default rule set over the whole draft.
func Validate(draft models.EnrollmentDraft, today time.Time) models.FieldErrors {
	return defaultRules.Validate(draft, today)
}

// Validate returns the failing fields of draft. An empty map means the draft is valid.
func (r *EnrollmentRules) Validate(draft models.EnrollmentDraft, today time.Time) models.FieldErrors {
	errs := make(models.FieldErrors)
	for _, rule := range r.rules {
		if verr, failed := r.run(rule, draft, today); failed {
			errs[rule.field] = verr
		}
	}
	return errs
}

// ValidateField evaluates the rule for a single field.
func (r *EnrollmentRules) ValidateField(draft models.EnrollmentDraft, field models.Field, today time.Time) (models.ValidationError, bool) {
	for _, rule := range r.rules {
		if rule.field == field {
			return r.run(rule, draft, today)
		}
	}
	return models.ValidationError{}, false
}

func (r *EnrollmentRules) run(rule fieldRule, draft models.EnrollmentDraft, today time.Time) (models.ValidationError, bool) {
	reason, msg, failed := rule.check(draft.Value(rule.field), today)
	if !failed {
		return models.ValidationError{}, false
	}
	return models.ValidationError{Field: rule.field, Reason: reason, Message: msg}, true
}

// required reports blank values and hands the untrimmed value to next.
func required(message string, next fieldCheck) fieldCheck {
	return func(value string, today time.Time) (models.ValidationReason, string, bool) {
		if strings.TrimSpace(value) == "" {
			return models.ReasonRequired, message, true
		}
		if next == nil {
			return "", "", false
		}
		return next(value, today)
	}
}

func checkAge(value string, today time.Time) (models.ValidationReason, string, bool) {
	dob, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return models.ReasonMalformed, "Date of Birth must be a valid date", true
	}
	age := AgeOn(dob, today)
	if age < MinEnrollmentAge || age > MaxEnrollmentAge {
		return models.ReasonOutOfRange, "Age must be between 18 and 65", true
	}
	return "", "", false
}

func checkContactNumber(value string, _ time.Time) (models.ValidationReason, string, bool) {
	if !contactNumberPattern.MatchString(value) {
		return models.ReasonMalformed, "Contact number must be 10 digits", true
	}
	return "", "", false
}

func (r *EnrollmentRules) checkEmail(value string, _ time.Time) (models.ValidationReason, string, bool) {
	if err := r.validator.Var(value, "email"); err != nil {
		return models.ReasonMalformed, "Invalid email format", true
	}
	return "", "", false
}

func checkBatch(value string, _ time.Time) (models.ValidationReason, string, bool) {
	if _, ok := models.LookupBatch(value); !ok {
		return models.ReasonMalformed, "Batch selection is invalid", true
	}
	return "", "", false
}

func checkMonth(value string, _ time.Time) (models.ValidationReason, string, bool) {
	if _, err := time.Parse(models.MonthLayout, value); err != nil {
		return models.ReasonMalformed, "Month must be in YYYY-MM format", true
	}
	return "", "", false
}

// AgeOn returns the number of whole calendar years between dob and today.
// Someone born on 29 February turns a year older on 1 March in common years.
func AgeOn(dob, today time.Time) int {
	ty, tm, td := today.Date()
	by, bm, bd := dob.Date()
	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}
