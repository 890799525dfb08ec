// =============================================================================
// csv2html - Conversion Run
// =============================================================================
//
// This file holds the body of the root command. It orchestrates one run:
//
// PROCESSING PIPELINE:
//   1. Load configuration (defaults when --config is not given)
//   2. Build the logger, tagged with a run id
//   3. Convert the input file
//   4. Write the diagnostics report (--error-log)
//   5. Report the outcome
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/converter"
	"github.com/ginjaninja78/csv2html/internal/logger"
	"github.com/ginjaninja78/csv2html/pkg/utils"
)

// runProcess converts inputPath into outputPath.
//
// RETURNS:
//   - An error for a bad configuration file, or, with --strict, when the run
//     failed. Handled failures are only logged otherwise.
func runProcess(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// =========================================================================
	// STEP 2: LOGGER
	// =========================================================================

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, runID := logger.NewWithWriter(cmd.ErrOrStderr(), level).WithRunID()

	log.Debug("starting conversion",
		"input", inputPath,
		"output", outputPath,
		"config", cfgFile,
		"dry_run", dryRun,
	)

	// =========================================================================
	// STEP 3: CONVERT
	// =========================================================================

	result := converter.New(inputPath, outputPath, cfg, log).WithDryRun(dryRun).Run()

	// =========================================================================
	// STEP 4: DIAGNOSTICS REPORT
	// =========================================================================

	if errorLogPath != "" {
		entries := errorLogEntries(result)
		if err := utils.WriteErrorLog(entries, errorLogPath, runID); err != nil {
			log.Error("failed to write error log", "path", errorLogPath, "error", err)
		} else if len(entries) > 0 {
			log.Info("error log written", "path", errorLogPath, "entries", len(entries))
		}
	}

	// =========================================================================
	// STEP 5: REPORT
	// =========================================================================

	if result.Error != nil {
		if errors.Is(result.Error, converter.ErrInputNotFound) {
			log.Error("file not found", "path", inputPath)
		} else {
			log.Error("an error occurred", "error", result.Error)
		}

		if strict {
			return result.Error
		}
		return nil
	}

	log.Debug("conversion finished",
		"records", result.Stats.RecordsRead,
		"rendered", result.Stats.FragmentsRendered,
		"dropped", result.Stats.RecordsDropped,
		"warnings", result.Stats.Warnings,
		"elapsed", result.Stats.ProcessingTime,
	)

	if dryRun {
		fmt.Fprintln(stdout, "=== Dry Run ===")
		fmt.Fprintf(stdout, "Records:   %d\n", result.Stats.RecordsRead)
		fmt.Fprintf(stdout, "Rendered:  %d\n", result.Stats.FragmentsRendered)
		fmt.Fprintf(stdout, "Dropped:   %d\n", result.Stats.RecordsDropped)
		fmt.Fprintf(stdout, "Warnings:  %d\n", result.Stats.Warnings)
		fmt.Fprintf(stdout, "Output:    %s (not written)\n", outputPath)
		return nil
	}

	fmt.Fprintf(stdout, "HTML content has been written to %s\n", result.OutputFile)
	return nil
}

// errorLogEntries converts a run's diagnostics, and its top-level error if
// any, into report entries.
func errorLogEntries(result converter.Result) []utils.ErrorLogEntry {
	now := time.Now()
	fileName := filepath.Base(result.FilePath)

	var entries []utils.ErrorLogEntry
	for _, d := range result.Diagnostics {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    now,
			FileName:     fileName,
			ErrorType:    d.Rule,
			ErrorMessage: d.Message,
			RowNumber:    d.RowNumber,
			FieldName:    d.Field,
			FieldValue:   d.Value,
		})
	}

	if result.Error != nil {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    now,
			FileName:     fileName,
			ErrorType:    "run",
			ErrorMessage: result.Error.Error(),
		})
	}

	return entries
}
