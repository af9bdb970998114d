package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/clarkhq/clark/internal/invoice/domain"
)

const (
	sheetInvoices  = "Invoices"
	sheetLineItems = "Line Items"
)

// renderXLSX writes one workbook with an Invoices sheet and a Line Items
// sheet, mirroring the CSV sections.
func renderXLSX(invoices []domain.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetInvoices)
	if _, err := f.NewSheet(sheetLineItems); err != nil {
		return nil, fmt.Errorf("export: create sheet: %w", err)
	}

	writeRow := func(sheet string, row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(sheet, cell, &cells)
	}

	if err := writeRow(sheetInvoices, 1, invoiceHeaders); err != nil {
		return nil, err
	}
	for i, invoice := range invoices {
		if err := writeRow(sheetInvoices, i+2, invoiceRow(invoice)); err != nil {
			return nil, err
		}
	}

	if err := writeRow(sheetLineItems, 1, lineItemHeaders); err != nil {
		return nil, err
	}
	row := 2
	for _, invoice := range invoices {
		for _, item := range invoice.LineItems {
			if err := writeRow(sheetLineItems, row, lineItemRow(invoice.InvoiceNumber, item)); err != nil {
				return nil, err
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
