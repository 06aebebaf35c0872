package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/yoga-admission/internal/models"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
)

// EnrollmentSubmitter performs the network call for a submission.
type EnrollmentSubmitter interface {
	SubmitEnrollment(ctx context.Context, payload models.EnrollmentPayload) (*models.EnrollmentAck, error)
}

// ControllerOption customises an EnrollmentController.
type ControllerOption func(*EnrollmentController)

// WithClock overrides the source of "today" used by the age rule.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *EnrollmentController) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger for submission diagnostics.
func WithLogger(logger *zap.Logger) ControllerOption {
	return func(c *EnrollmentController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records submission outcomes.
func WithMetrics(metrics *MetricsService) ControllerOption {
	return func(c *EnrollmentController) {
		c.metrics = metrics
	}
}

// EnrollmentController owns one form and drives its single submission.
// State reads are safe while a submission is in flight.
type EnrollmentController struct {
	mu        sync.Mutex
	state     FormState
	startedAt time.Time

	submitter EnrollmentSubmitter
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentController constructs a controller with an empty draft.
func NewEnrollmentController(submitter EnrollmentSubmitter, opts ...ControllerOption) *EnrollmentController {
	c := &EnrollmentController{
		submitter: submitter,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = NewFormState(c.now())
	return c
}

// State returns a snapshot of the form.
func (c *EnrollmentController) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies an event and returns the resulting state and, when the
// event starts a submission, the payload to send.
func (c *EnrollmentController) Dispatch(ev FormEvent) (FormState, *models.EnrollmentPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reduceLocked(ev)
}

func (c *EnrollmentController) reduceLocked(ev FormEvent) (FormState, *models.EnrollmentPayload) {
	c.state.Today = c.now()
	next, payload := Reduce(c.state, ev)
	c.state = next
	return next, payload
}

// Edit updates a field value.
func (c *EnrollmentController) Edit(field models.Field, value string) FormState {
	s, _ := c.Dispatch(EditField{Field: field, Value: value})
	return s
}

// Blur marks a field as touched.
func (c *EnrollmentController) Blur(field models.Field) FormState {
	s, _ := c.Dispatch(BlurField{Field: field})
	return s
}

// DismissNotice clears the failure notification.
func (c *EnrollmentController) DismissNotice() FormState {
	s, _ := c.Dispatch(NoticeDismissed{})
	return s
}

// Begin requests a submission. A nil payload means the submission did not start,
// either because the draft is invalid or because the submit action is disabled.
func (c *EnrollmentController) Begin() (FormState, *models.EnrollmentPayload) {
	c.mu.Lock()
	phase := c.state.Phase
	s, payload := c.reduceLocked(SubmitRequested{})
	if payload != nil {
		c.startedAt = c.now()
	}
	c.mu.Unlock()

	if payload == nil && phase == PhaseEditing && !s.Errors.Valid() {
		c.metrics.ObserveSubmission(OutcomeInvalid, 0)
		c.logger.Debug("enrollment submit blocked by validation", zap.Int("invalid_fields", len(s.Errors)))
	}
	return s, payload
}

// Complete feeds the result of the submission started by Begin.
func (c *EnrollmentController) Complete(ack *models.EnrollmentAck, err error) FormState {
	c.mu.Lock()
	elapsed := c.now().Sub(c.startedAt)
	c.mu.Unlock()

	if err == nil && ack == nil {
		err = &models.SubmissionError{}
	}
	if err != nil {
		msg := models.DefaultSubmissionMessage
		var subErr *models.SubmissionError
		if errors.As(err, &subErr) {
			msg = subErr.UserMessage()
		}
		c.metrics.ObserveSubmission(OutcomeFailure, elapsed)
		c.logger.Warn("enrollment submission failed", zap.String("message", msg), zap.Error(err), zap.Duration("elapsed", elapsed))
		s, _ := c.Dispatch(SubmissionFailed{Message: msg})
		return s
	}

	c.metrics.ObserveSubmission(OutcomeSuccess, elapsed)
	c.logger.Info("enrollment submitted", zap.String("request_id", ack.RequestID), zap.Int("status", ack.Status), zap.Duration("elapsed", elapsed))
	s, _ := c.Dispatch(SubmissionSucceeded{Ack: *ack})
	return s
}

// Submit validates the whole draft and, when valid, performs exactly one
// submission and waits for its result. The returned error is a validation
// error, ErrSubmitDisabled, or the *models.SubmissionError reported by the submitter.
func (c *EnrollmentController) Submit(ctx context.Context) (FormState, error) {
	s, payload := c.Begin()
	if payload == nil {
		if s.Phase != PhaseEditing {
			return s, appErrors.Clone(appErrors.ErrSubmitDisabled, "submit is disabled while "+s.Phase.String())
		}
		return s, appErrors.Wrap(firstError(s.Errors), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "enrollment form has invalid fields")
	}

	return c.Perform(ctx, *payload)
}

// Perform sends a payload obtained from Begin and records the result. It is the
// only place the controller waits on the network.
func (c *EnrollmentController) Perform(ctx context.Context, payload models.EnrollmentPayload) (FormState, error) {
	ack, err := c.submitter.SubmitEnrollment(ctx, payload)
	if err == nil && ack == nil {
		err = &models.SubmissionError{}
	}
	return c.Complete(ack, err), err
}

func firstError(errs models.FieldErrors) error {
	for _, f := range errs.Fields() {
		return errs[f]
	}
	return nil
}
