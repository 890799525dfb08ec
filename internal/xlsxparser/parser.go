// =============================================================================
// csv2html - XLSX Parser Module
// =============================================================================
//
// This module reads the book catalog straight from the spreadsheet it is
// maintained in, instead of from a delimited-text export. The layout is the
// same as the CSV export:
//
//   | Title | Author(s) | Publication Date | GoodReads URL | Description |
//   |-------|-----------|------------------|---------------|-------------|
//   | Dune  | F. Herbert| 1965             | https://...   | Spice ...   |
//
// The first non-empty row of the worksheet is the header. Every following
// non-empty row is one record.
//
// NOTES:
//   - Cells are read as their formatted text, so a year typed as a number
//     comes out as "2020".
//   - Trailing empty cells are not stored in the workbook; they are read
//     back as empty strings, never as missing cells.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads one worksheet of an XLSX workbook.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - settings: Input settings; Sheet selects the worksheet (first if empty).
//
// RETURNS:
//   - The header and records of the worksheet.
//   - An error if the workbook cannot be opened or the sheet does not exist.
func ParseFile(filePath string, settings config.InputSettings) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := parseWorkbook(f, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath

	return table, nil
}

// Parse reads one worksheet of an XLSX workbook from r.
func Parse(r io.Reader, settings config.InputSettings) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, settings)
}

// parseWorkbook extracts the records of the selected worksheet.
func parseWorkbook(f *excelize.File, settings config.InputSettings) (*types.Table, error) {
	sheetName, err := selectSheet(f, settings.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	table := &types.Table{}

	for i, row := range rows {
		// Skip empty rows, the spreadsheet counterpart of blank lines.
		if isRowEmpty(row) {
			continue
		}

		if table.Headers == nil {
			table.Headers = cleanHeaders(row)
			continue
		}

		table.Records = append(table.Records, buildRecord(table.Headers, row, i+1, settings.TrimSpace))
	}

	return table, nil
}

// selectSheet returns the requested sheet name, or the first sheet.
func selectSheet(f *excelize.File, requested string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	if requested == "" {
		return sheets[0], nil
	}

	for _, name := range sheets {
		if strings.EqualFold(name, requested) {
			return name, nil
		}
	}

	return "", fmt.Errorf("sheet %q not found (available: %s)", requested, strings.Join(sheets, ", "))
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// buildRecord maps a worksheet row onto the header.
func buildRecord(headers, row []string, rowNumber int, trim bool) types.Record {
	record := types.Record{
		Line:   rowNumber,
		Fields: make(map[string]string, len(headers)),
	}

	for i, header := range headers {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		if trim {
			value = strings.TrimSpace(value)
		}
		record.Fields[header] = value
	}

	return record
}

// cleanHeaders trims header names and names unnamed columns.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
