package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/yoga-admission/internal/models"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
)

func validPayload() models.EnrollmentPayload {
	p, _ := BuildPayload(validDraft())
	return p
}

func TestStubEnrollmentServiceAccepts(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewStubEnrollmentService(nil, metrics, zap.NewNop())

	receipt, err := svc.Accept(context.Background(), validPayload(), "req-1")
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.EnrollmentID)
	assert.Equal(t, "req-1", receipt.RequestID)
	assert.Equal(t, "7-8AM", receipt.Batch)
	assert.Equal(t, "2025-06", receipt.Month)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.enrollmentsByBatch.WithLabelValues("7-8AM")))
}

func TestStubEnrollmentServiceBatchFull(t *testing.T) {
	svc := NewStubEnrollmentService([]int{2}, nil, nil)

	_, err := svc.Accept(context.Background(), validPayload(), "req-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrBatchFull))
	assert.Equal(t, "Batch full", appErrors.FromError(err).Message)
}

func TestStubEnrollmentServiceUnknownBatch(t *testing.T) {
	svc := NewStubEnrollmentService(nil, nil, nil)
	p := validPayload()
	p.BatchID = 7

	_, err := svc.Accept(context.Background(), p, "req-1")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidPayload))
}
