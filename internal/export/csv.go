package export

import (
	"bytes"
	"encoding/csv"

	"github.com/clarkhq/clark/internal/invoice/domain"
)

// renderCSV writes the two-section layout the accounting import expects:
// an Invoices block, a blank line, then a Line Items block. Records use
// CRLF line endings.
func renderCSV(invoices []domain.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	records := [][]string{{"Invoices"}, invoiceHeaders}
	for _, invoice := range invoices {
		records = append(records, invoiceRow(invoice))
	}

	records = append(records, []string{}, []string{"Line Items"}, lineItemHeaders)
	for _, invoice := range invoices {
		for _, item := range invoice.LineItems {
			records = append(records, lineItemRow(invoice.InvoiceNumber, item))
		}
	}

	for _, record := range records {
		if len(record) == 0 {
			// A zero-field record renders as a bare line terminator; write it directly.
			buf.WriteString("\r\n")
			continue
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
		w.Flush()
	}
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
