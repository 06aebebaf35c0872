package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/yoga-admission/internal/models"
)

// Phase is the submission lifecycle of a form.
type Phase int

// Form phases. Editing is the idle state; Submitting means a request is in flight.
const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSucceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// FormState is the complete state of one enrollment form.
type FormState struct {
	Draft   models.EnrollmentDraft
	Errors  models.FieldErrors
	Touched map[models.Field]bool
	Phase   Phase
	// Notice holds the message of the last failed submission until dismissed.
	Notice string
	Ack    *models.EnrollmentAck
	// Today is the reference date for age checks.
	Today time.Time
}

// NewFormState returns an empty form evaluated against today.
func NewFormState(today time.Time) FormState {
	s := FormState{
		Touched: make(map[models.Field]bool),
		Today:   today,
	}
	s.Errors = Validate(s.Draft, today)
	return s
}

// CanSubmit reports whether the submit action is enabled.
func (s FormState) CanSubmit() bool {
	return s.Phase == PhaseEditing
}

// VisibleErrors returns errors for touched fields only.
func (s FormState) VisibleErrors() models.FieldErrors {
	visible := make(models.FieldErrors)
	for field, verr := range s.Errors {
		if s.Touched[field] {
			visible[field] = verr
		}
	}
	return visible
}

// FormEvent is an input to Reduce.
type FormEvent interface {
	formEvent()
}

// EditField replaces the value of a field.
type EditField struct {
	Field models.Field
	Value string
}

// BlurField marks a field as touched.
type BlurField struct {
	Field models.Field
}

// SubmitRequested is the user pressing the submit button.
type SubmitRequested struct{}

// SubmissionSucceeded reports an acknowledgment from the enrollment endpoint.
type SubmissionSucceeded struct {
	Ack models.EnrollmentAck
}

// SubmissionFailed reports a rejected or failed submission.
type SubmissionFailed struct {
	Message string
}

// NoticeDismissed closes the failure notification.
type NoticeDismissed struct{}

func (EditField) formEvent()           {}
func (BlurField) formEvent()           {}
func (SubmitRequested) formEvent()     {}
func (SubmissionSucceeded) formEvent() {}
func (SubmissionFailed) formEvent()    {}
func (NoticeDismissed) formEvent()     {}

// Reduce applies ev to s and returns the next state. When the transition enters
// PhaseSubmitting the returned payload is non-nil and must be handed to exactly
// one submission call. Events that do not apply to the current phase leave the
// state unchanged.
func Reduce(s FormState, ev FormEvent) (FormState, *models.EnrollmentPayload) {
	switch e := ev.(type) {
	case EditField:
		if s.Phase != PhaseEditing || !e.Field.Valid() {
			return s, nil
		}
		s.Draft = s.Draft.With(e.Field, e.Value)
		s.Errors = Validate(s.Draft, s.Today)
		return s, nil

	case BlurField:
		if s.Phase != PhaseEditing || !e.Field.Valid() {
			return s, nil
		}
		s.Touched = withTouched(s.Touched, e.Field)
		s.Errors = Validate(s.Draft, s.Today)
		return s, nil

	case SubmitRequested:
		if !s.CanSubmit() {
			return s, nil
		}
		s.Errors = Validate(s.Draft, s.Today)
		if !s.Errors.Valid() {
			s.Touched = withTouched(s.Touched, models.AllFields...)
			return s, nil
		}
		payload, err := BuildPayload(s.Draft)
		if err != nil {
			// Unreachable for a draft that passed validation.
			s.Notice = err.Error()
			return s, nil
		}
		s.Phase = PhaseSubmitting
		s.Notice = ""
		return s, &payload

	case SubmissionSucceeded:
		if s.Phase != PhaseSubmitting {
			return s, nil
		}
		ack := e.Ack
		s.Phase = PhaseSucceeded
		s.Ack = &ack
		return s, nil

	case SubmissionFailed:
		if s.Phase != PhaseSubmitting {
			return s, nil
		}
		s.Phase = PhaseEditing
		s.Notice = strings.TrimSpace(e.Message)
		if s.Notice == "" {
			s.Notice = models.DefaultSubmissionMessage
		}
		return s, nil

	case NoticeDismissed:
		s.Notice = ""
		return s, nil
	}
	return s, nil
}

func withTouched(touched map[models.Field]bool, fields ...models.Field) map[models.Field]bool {
	next := make(map[models.Field]bool, len(touched)+len(fields))
	for f, v := range touched {
		next[f] = v
	}
	for _, f := range fields {
		next[f] = true
	}
	return next
}

// BuildPayload converts a valid draft into the wire request, resolving the
// batch display value into its numeric identifier.
func BuildPayload(draft models.EnrollmentDraft) (models.EnrollmentPayload, error) {
	batch, ok := models.LookupBatch(draft.BatchID)
	if !ok {
		return models.EnrollmentPayload{}, fmt.Errorf("unknown batch %q", draft.BatchID)
	}
	return models.EnrollmentPayload{
		Name:          strings.TrimSpace(draft.Name),
		DateOfBirth:   strings.TrimSpace(draft.DateOfBirth),
		ContactNumber: strings.TrimSpace(draft.ContactNumber),
		Email:         strings.TrimSpace(draft.Email),
		BatchID:       batch.ID,
		Month:         strings.TrimSpace(draft.Month),
	}, nil
}
