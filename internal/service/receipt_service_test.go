package service

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yoga-admission/internal/models"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
)

func succeededState(t *testing.T) FormState {
	t.Helper()
	s := fill(NewFormState(today), validDraft())
	s, payload := Reduce(s, SubmitRequested{})
	require.NotNil(t, payload)
	s, _ = Reduce(s, SubmissionSucceeded{Ack: models.EnrollmentAck{
		Status:     200,
		RequestID:  "req-42",
		ReceivedAt: time.Date(2025, time.January, 1, 9, 30, 0, 0, time.UTC),
	}})
	return s
}

func TestReceiptServiceCSV(t *testing.T) {
	svc := NewReceiptService(nil, nil)
	out, err := svc.Render(succeededState(t), ReceiptFormatCSV)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "field,value")
	assert.Contains(t, text, "Name,Asha")
	assert.Contains(t, text, "Batch,7-8AM")
	assert.Contains(t, text, "Reference,req-42")
}

func TestReceiptServicePDF(t *testing.T) {
	svc := NewReceiptService(nil, nil)
	out, err := svc.Render(succeededState(t), ReceiptFormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestReceiptServiceRequiresSuccess(t *testing.T) {
	svc := NewReceiptService(nil, nil)
	_, err := svc.Render(NewFormState(today), ReceiptFormatPDF)
	assert.True(t, errors.Is(err, appErrors.ErrNotSubmitted))

	_, err = svc.Render(succeededState(t), "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedType))
}

func TestFormatFromPath(t *testing.T) {
	format, err := FormatFromPath("/tmp/receipt.PDF")
	require.NoError(t, err)
	assert.Equal(t, ReceiptFormatPDF, format)

	_, err = FormatFromPath("receipt.txt")
	assert.Error(t, err)
}
