package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a two-column key/value document, used for receipts.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with the title and one bordered line per entry.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("pdf document has no entries")
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 15, 12)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Times", "B", 16)
		pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for _, entry := range doc.Entries {
		pdf.SetFont("Times", "B", 11)
		pdf.CellFormat(45, 8, entry.Label, "B", 0, "", false, 0, "")
		pdf.SetFont("Times", "", 11)
		pdf.CellFormat(0, 8, entry.Value, "B", 1, "", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
