package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVImporter converts tabular data into markdown, one second-level
// heading per batch of rows so large files section evenly.
type CSVImporter struct{}

const csvBatchSize = 20

func (p *CSVImporter) Import(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var out strings.Builder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}

		// 1-indexed source rows, skipping the header row.
		fmt.Fprintf(&out, "## Rows %d-%d\n\n", i+2, end+1)
		out.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					out.WriteString(headers[j] + ": " + cell)
				} else {
					out.WriteString(cell)
				}
				if j < len(row)-1 {
					out.WriteString(", ")
				}
			}
			out.WriteString("\n")
		}
		out.WriteString("\n")
	}
	if out.Len() == 0 {
		return "", nil
	}
	return strings.TrimRight(out.String(), "\n") + "\n", nil
}
