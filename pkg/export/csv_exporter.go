package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVHeader is the first record of every CSV document.
var CSVHeader = []string{"field", "value"}

// CSVExporter writes a Document as two-column CSV. The title is not emitted.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("csv document has no entries")
	}
	records := make([][]string, 0, len(doc.Entries)+1)
	records = append(records, CSVHeader)
	for _, entry := range doc.Entries {
		records = append(records, []string{entry.Label, entry.Value})
	}

	buf := &bytes.Buffer{}
	if err := csv.NewWriter(buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
