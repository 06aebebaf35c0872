package service

import (
	"path/filepath"
	"strings"

	"github.com/noah-isme/yoga-admission/internal/models"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
	"github.com/noah-isme/yoga-admission/pkg/export"
)

// Receipt formats.
const (
	ReceiptFormatPDF = "pdf"
	ReceiptFormatCSV = "csv"
)

const receiptTitle = "Yoga Admission Receipt"

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ReceiptService renders a confirmation for an accepted enrollment.
type ReceiptService struct {
	renderers map[string]documentRenderer
}

// NewReceiptService constructs ReceiptService.
func NewReceiptService(csvExporter *export.CSVExporter, pdfExporter *export.PDFExporter) *ReceiptService {
	if csvExporter == nil {
		csvExporter = export.NewCSVExporter()
	}
	if pdfExporter == nil {
		pdfExporter = export.NewPDFExporter()
	}
	return &ReceiptService{renderers: map[string]documentRenderer{
		ReceiptFormatCSV: csvExporter,
		ReceiptFormatPDF: pdfExporter,
	}}
}

// FormatFromPath picks a receipt format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case ReceiptFormatPDF, ReceiptFormatCSV:
		return ext, nil
	default:
		return "", appErrors.Clone(appErrors.ErrUnsupportedType, "receipt must be a .pdf or .csv file")
	}
}

// Render produces the receipt for a succeeded form.
func (s *ReceiptService) Render(state FormState, format string) ([]byte, error) {
	if state.Phase != PhaseSucceeded || state.Ack == nil {
		return nil, appErrors.ErrNotSubmitted
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedType, "unsupported receipt format "+format)
	}
	payload, err := BuildPayload(state.Draft)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrReceipt.Code, appErrors.ErrReceipt.Status, appErrors.ErrReceipt.Message)
	}
	out, err := renderer.Render(receiptDocument(payload, state.Ack))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrReceipt.Code, appErrors.ErrReceipt.Status, appErrors.ErrReceipt.Message)
	}
	return out, nil
}

func receiptDocument(payload models.EnrollmentPayload, ack *models.EnrollmentAck) export.Document {
	batch, _ := models.BatchByID(payload.BatchID)
	return export.Document{
		Title: receiptTitle,
		Entries: []export.Entry{
			{Label: models.FieldName.Label(), Value: payload.Name},
			{Label: models.FieldDateOfBirth.Label(), Value: payload.DateOfBirth},
			{Label: models.FieldContactNumber.Label(), Value: payload.ContactNumber},
			{Label: models.FieldEmail.Label(), Value: payload.Email},
			{Label: models.FieldBatchID.Label(), Value: batch.Label},
			{Label: models.FieldMonth.Label(), Value: payload.Month},
			{Label: "Reference", Value: ack.RequestID},
			{Label: "Submitted At", Value: ack.ReceivedAt.Format("2006-01-02 15:04 MST")},
		},
	}
}
