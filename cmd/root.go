// =============================================================================
// csv2html - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Unlike most Cobra
// applications the root command does the work itself: it converts one catalog
// file into one HTML fragment file.
//
// COBRA CLI STRUCTURE:
//   rootCmd (csv2html -i INPUT -o OUTPUT)
//   └── versionCmd (csv2html version)
//
// EXIT STATUS:
//   - 1 for argument errors (missing -i/-o, unknown flags) and bad config.
//   - 0 for handled failures (missing input, unwritable output), unless
//     --strict is set.
//   - Dropped rows never change the exit status.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the optional YAML configuration file.
var cfgFile string

// inputPath is the catalog to read.
var inputPath string

// outputPath is the file the fragments are written to.
var outputPath string

// errorLogPath, when set, receives a plain-text diagnostics report.
var errorLogPath string

// verbose enables debug logging.
var verbose bool

// dryRun converts without writing the output file.
var dryRun bool

// strict turns handled top-level failures into a non-zero exit status.
var strict bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Flag variables are reset to their
// defaults every time it is called.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv2html -i INPUT -o OUTPUT",
		Short: "Convert a book catalog into HTML paragraphs",
		Long: `csv2html reads a book catalog (CSV or an xlsx workbook) with the columns
Title, Author(s), Publication Date, GoodReads URL and Description, and writes
one HTML paragraph per row:

  <p><strong><a href="URL">TITLE</a></strong> by AUTHOR (<strong>DATE</strong>) DESCRIPTION</p>

Links in the description become anchors. A row that cannot be converted is
logged and written as an empty line, so line N of the output always belongs
to record N of the input.

Example Usage:
  csv2html -i books.csv -o _books.html
  csv2html -i books.xlsx -o _books.html --config csv2html.yaml
  csv2html -i books.csv -o _books.html --dry-run -v`,

		Args:          cobra.NoArgs,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags parsed fine; failures from here on are not usage errors.
			cmd.SilenceUsage = true
			return runProcess(cmd)
		},
	}

	// ==========================================================================
	// FLAGS
	// ==========================================================================

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input catalog file (.csv or .xlsx)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output HTML file (replaced if it exists)")
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to a YAML configuration file (defaults apply when omitted)")
	cmd.Flags().StringVar(&errorLogPath, "error-log", "", "Write a diagnostics report for dropped rows and warnings to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Convert without writing the output file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with status 1 when the input is missing or the output cannot be written")

	// Both paths are mandatory; cobra reports them as usage errors.
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
