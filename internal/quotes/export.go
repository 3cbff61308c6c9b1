package quotes

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Quote Number", "Date", "Status", "Subtotal", "VAT", "Total", "Customer"}

const exportDateLayout = "2006-01-02"

func exportRecord(row ExportRow) []string {
	return []string{
		row.QuoteNumber,
		row.Date.Format(exportDateLayout),
		string(row.Status),
		strconv.FormatFloat(row.Subtotal, 'f', 2, 64),
		strconv.FormatFloat(row.Vat, 'f', 2, 64),
		strconv.FormatFloat(row.Total, 'f', 2, 64),
		row.CompanyName,
	}
}

// writeExportCSV streams the quote register as CRLF-terminated CSV, the
// dialect spreadsheet tools expect.
func writeExportCSV(w io.Writer, rows []ExportRow) error {
	buf := bufio.NewWriterSize(w, 32*1024)
	cw := csv.NewWriter(buf)
	cw.UseCRLF = true

	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(exportRecord(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// writeExportXLSX renders the quote register as a single-sheet workbook with
// numeric money cells so totals stay summable in the spreadsheet.
func writeExportXLSX(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Quotes"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		record := []interface{}{
			row.QuoteNumber,
			row.Date.Format(exportDateLayout),
			string(row.Status),
			row.Subtotal,
			row.Vat,
			row.Total,
			row.CompanyName,
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
