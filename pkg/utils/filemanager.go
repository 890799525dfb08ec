// =============================================================================
// csv2html - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a conversion run:
//   - Input kind detection (delimited text or spreadsheet)
//   - Output writing (the output file is replaced on every run)
//   - Diagnostics report generation
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input kinds.
const (
	KindCSV  = "csv"
	KindXLSX = "xlsx"
)

// =============================================================================
// INPUT DETECTION
// =============================================================================

// DetectInputKind decides how an input file is read.
//
// PARAMETERS:
//   - filePath: The input path.
//   - format:   The configured format; "csv" or "xlsx" force the kind,
//               anything else selects by extension.
//
// RETURNS:
//   - KindXLSX for spreadsheet workbooks, KindCSV otherwise.
func DetectInputKind(filePath, format string) string {
	switch strings.ToLower(format) {
	case KindCSV:
		return KindCSV
	case KindXLSX:
		return KindXLSX
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		return KindXLSX
	default:
		return KindCSV
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

// WriteOutput writes data to filePath, creating or truncating it.
//
// The parent directory is not created; a missing directory is an error, as
// for any other unwritable output path.
func WriteOutput(filePath string, data []byte) error {
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// =============================================================================
// DIAGNOSTICS REPORT
// =============================================================================

// ErrorLogEntry represents a single report entry.
type ErrorLogEntry struct {
	Timestamp    time.Time
	FileName     string
	ErrorType    string
	ErrorMessage string
	RowNumber    int
	FieldName    string
	FieldValue   string
}

// WriteErrorLog writes a plain-text diagnostics report.
//
// PARAMETERS:
//   - entries: The entries to write. Nothing is written when empty.
//   - logPath: The report path.
//   - runID:   Identifier of the run; a fresh one is generated when empty.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, logPath, runID string) (err error) {
	if len(entries) == 0 {
		return nil
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	file, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close error log: %w", cerr)
		}
	}()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "csv2html - Error Log\n"+
		"Run:          %s\n"+
		"Generated:    %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		runID,
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp:      %s\n"+
			"  File:           %s\n"+
			"  Error Type:     %s\n"+
			"  Message:        %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.ErrorType,
			entry.ErrorMessage)

		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number:     %d\n", entry.RowNumber)
		}
		if entry.FieldName != "" {
			fmt.Fprintf(writer, "  Field:          %s\n", entry.FieldName)
		}
		if entry.FieldValue != "" {
			fmt.Fprintf(writer, "  Value:          %s\n", entry.FieldValue)
		}

		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}

	return nil
}
