// =============================================================================
// csv2html - Converter Module
// =============================================================================
//
// This module contains the batch driver. It runs the whole conversion for one
// input file:
//
// CONVERSION PIPELINE:
//   1. Detect the input kind (delimited text or xlsx workbook)
//   2. Read every record
//   3. Check the header for the required columns
//   4. Transform each record, in input order
//   5. Join the fragments, one per line (dropped records leave a blank line)
//   6. Write the output file
//
// The input is read completely before anything is written, and the output is
// built in memory. A failure on one record never stops the run.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/csvparser"
	"github.com/ginjaninja78/csv2html/internal/htmlwriter"
	"github.com/ginjaninja78/csv2html/internal/types"
	"github.com/ginjaninja78/csv2html/internal/validation"
	"github.com/ginjaninja78/csv2html/internal/xlsxparser"
	"github.com/ginjaninja78/csv2html/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of a run.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// OutputFile is the path the output was written to.
	// This is empty if the run failed or was a dry run.
	OutputFile string

	// Success indicates whether the run completed.
	Success bool

	// Error contains the error if the run failed.
	Error error

	// Output is the generated text, kept for dry runs and callers that want
	// to inspect it.
	Output []byte

	// Diagnostics contains every dropped-record error, header problem and
	// warning, in the order they were found.
	Diagnostics []*validation.ValidationError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about a run.
type ProcessingStats struct {
	// RecordsRead is the number of input records.
	RecordsRead int

	// FragmentsRendered is the number of records that rendered.
	FragmentsRendered int

	// RecordsDropped is the number of records rendered as an empty line.
	RecordsDropped int

	// Warnings is the number of non-fatal diagnostics.
	Warnings int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging side channel used by the converter and transformer.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Converter converts one input file into one output file.
type Converter struct {
	inputPath   string
	outputPath  string
	cfg         *config.Config
	transformer *Transformer
	validator   *validation.Validator
	logger      Logger
	dryRun      bool
}

// New creates a new Converter.
//
// PARAMETERS:
//   - inputPath:  The catalog file to read.
//   - outputPath: The file to write; replaced if it exists.
//   - cfg:        The application configuration.
//   - logger:     Receives one line per dropped record and per warning.
func New(inputPath, outputPath string, cfg *config.Config, logger Logger) *Converter {
	return &Converter{
		inputPath:   inputPath,
		outputPath:  outputPath,
		cfg:         cfg,
		transformer: NewTransformer(cfg),
		validator:   validation.NewValidator(cfg.Columns),
		logger:      logger,
	}
}

// WithDryRun makes Run skip writing the output file.
func (c *Converter) WithDryRun(dryRun bool) *Converter {
	c.dryRun = dryRun
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - A Result. When the input does not exist, Result.Error matches
//     ErrInputNotFound and no output file is written.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.inputPath,
	}

	// =========================================================================
	// STEP 1-2: READ INPUT
	// =========================================================================

	c.logger.Debug("reading input", "path", c.inputPath)

	table, err := c.readInput()
	if err != nil {
		result.Error = err
		return result
	}

	result.Stats.RecordsRead = len(table.Records)
	c.logger.Debug("read records", "count", len(table.Records), "columns", len(table.Headers))

	// =========================================================================
	// STEP 3: CHECK HEADER
	// =========================================================================
	// An empty input has no header and nothing to check.

	if len(table.Headers) > 0 {
		for _, headerErr := range c.validator.ValidateHeaders(table.Headers) {
			c.logger.Warn("required column missing from header", "column", headerErr.Field)
			result.Diagnostics = append(result.Diagnostics, headerErr)
		}
	}

	// =========================================================================
	// STEP 4-5: TRANSFORM AND ASSEMBLE
	// =========================================================================

	output, diagnostics := c.ConvertRecords(table.Records)
	result.Output = output
	result.Diagnostics = append(result.Diagnostics, diagnostics...)

	for _, d := range diagnostics {
		if d.IsWarning() {
			result.Stats.Warnings++
		} else {
			result.Stats.RecordsDropped++
		}
	}
	result.Stats.FragmentsRendered = result.Stats.RecordsRead - result.Stats.RecordsDropped

	// =========================================================================
	// STEP 6: WRITE OUTPUT
	// =========================================================================

	if c.dryRun {
		c.logger.Info("dry run, output not written", "path", c.outputPath)
	} else {
		if err := utils.WriteOutput(c.outputPath, output); err != nil {
			result.Error = err
			return result
		}
		result.OutputFile = c.outputPath
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// ConvertRecords transforms records in order and joins the fragments with
// the configured line separator. It does no I/O besides logging.
//
// RETURNS:
//   - The output text; it has exactly one line separator per record.
//   - One diagnostic per dropped record and per warning.
func (c *Converter) ConvertRecords(records []types.Record) ([]byte, []*validation.ValidationError) {
	fragments := make([]string, len(records))
	var diagnostics []*validation.ValidationError

	for i, record := range records {
		rendered := c.transformer.Transform(record)
		fragments[i] = rendered.String()

		if !rendered.OK() {
			logFailure(c.logger, rendered)
			diagnostics = append(diagnostics, diagnosticFor(rendered))
			continue
		}

		for _, warning := range c.validator.ValidateRecord(record) {
			c.logger.Warn(warning.Message, "line", warning.RowNumber, "column", warning.Field)
			diagnostics = append(diagnostics, warning)
		}
	}

	options := htmlwriter.GenerateOptions{LineSeparator: c.cfg.Output.LineSeparator}
	return htmlwriter.GenerateWithOptions(fragments, options), diagnostics
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readInput reads the whole input with the record source matching its kind.
func (c *Converter) readInput() (*types.Table, error) {
	if _, err := os.Stat(c.inputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		return nil, fmt.Errorf("failed to access input: %w", err)
	}

	var (
		table *types.Table
		err   error
	)

	switch utils.DetectInputKind(c.inputPath, c.cfg.Input.Format) {
	case utils.KindXLSX:
		table, err = xlsxparser.ParseFile(c.inputPath, c.cfg.Input)
	default:
		table, err = csvparser.ParseFile(c.inputPath, c.cfg.Input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return table, nil
}

// diagnosticFor converts a dropped record into a diagnostic.
func diagnosticFor(rendered RecordResult) *validation.ValidationError {
	d := &validation.ValidationError{
		Severity:  validation.SeverityError,
		Rule:      validation.RuleRowProcessing,
		Message:   rendered.Err.Error(),
		RowNumber: rendered.Line,
	}

	var missing *MissingFieldError
	if errors.As(rendered.Err, &missing) {
		d.Rule = validation.RuleMissingField
		d.Field = missing.Column
	}

	return d
}
