package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yoga-admission/internal/contract"
	"github.com/noah-isme/yoga-admission/internal/dto"
	"github.com/noah-isme/yoga-admission/internal/models"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
	"github.com/noah-isme/yoga-admission/pkg/middleware/requestid"
	"github.com/noah-isme/yoga-admission/pkg/response"
)

const maxRequestBody = 64 << 10

type enrollmentAcceptor interface {
	Accept(ctx context.Context, payload models.EnrollmentPayload, requestID string) (*dto.EnrollmentReceipt, error)
}

// EnrollmentHandler exposes the enrollment endpoint.
type EnrollmentHandler struct {
	enrollments enrollmentAcceptor
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentAcceptor) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Create godoc
// @Summary Submit an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.EnrollmentPayload true "Enrollment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enroll [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBody))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, http.StatusBadRequest, "unable to read body"))
		return
	}

	violations, err := contract.ValidateEnrollmentRequest(body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, http.StatusBadRequest, "body is not valid JSON"))
		return
	}
	if len(violations) > 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, violations[0].Field+": "+violations[0].Message), violations)
		return
	}

	var payload models.EnrollmentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidPayload.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	receipt, err := h.enrollments.Accept(c.Request.Context(), payload, requestid.Value(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, receipt)
}

// Batches godoc
// @Summary List the batch catalog
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *EnrollmentHandler) Batches(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.Batches)
}
