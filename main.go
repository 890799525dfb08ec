// =============================================================================
// csv2html - Main Entry Point
// =============================================================================
//
// USAGE:
//   csv2html -i books.csv -o _books.html   - Convert a catalog to HTML
//   csv2html version                       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Readers, transformer, validation, output assembly
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv2html/cmd"
)

func main() {
	cmd.Execute()
}
