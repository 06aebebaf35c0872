package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/yoga-admission/internal/dto"
	"github.com/noah-isme/yoga-admission/internal/models"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
)

// StubEnrollmentService stands in for the remote enrollment endpoint during
// development. It acknowledges every well-formed payload except those for
// batches configured as full.
type StubEnrollmentService struct {
	fullBatches map[int]struct{}
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewStubEnrollmentService constructs the stub.
func NewStubEnrollmentService(fullBatches []int, metrics *MetricsService, logger *zap.Logger) *StubEnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	full := make(map[int]struct{}, len(fullBatches))
	for _, id := range fullBatches {
		full[id] = struct{}{}
	}
	return &StubEnrollmentService{fullBatches: full, metrics: metrics, logger: logger, now: time.Now}
}

// Accept acknowledges a payload that already passed the wire contract.
func (s *StubEnrollmentService) Accept(ctx context.Context, payload models.EnrollmentPayload, requestID string) (*dto.EnrollmentReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "request cancelled")
	}
	batch, ok := models.BatchByID(payload.BatchID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidPayload, "unknown batch")
	}
	if _, full := s.fullBatches[batch.ID]; full {
		s.logger.Info("enrollment rejected", zap.String("request_id", requestID), zap.String("batch", batch.Label), zap.String("reason", "batch full"))
		return nil, appErrors.ErrBatchFull
	}

	s.metrics.RecordEnrollment(batch)
	receipt := &dto.EnrollmentReceipt{
		EnrollmentID: uuid.NewString(),
		RequestID:    requestID,
		Message:      "Enrollment received",
		BatchID:      batch.ID,
		Batch:        batch.Label,
		Month:        payload.Month,
		ReceivedAt:   s.now().UTC(),
	}
	s.logger.Info("enrollment accepted",
		zap.String("request_id", requestID),
		zap.String("enrollment_id", receipt.EnrollmentID),
		zap.String("batch", batch.Label),
		zap.String("month", payload.Month),
	)
	return receipt, nil
}
