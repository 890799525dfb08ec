// =============================================================================
// csv2html - HTML Writer Module
// =============================================================================
//
// This module assembles the rendered fragments into the output document.
// The output is a bare sequence of fragments meant for inclusion in a page
// template, with no enclosing document structure:
//
//   <p>...first record...</p>
//   <p>...second record...</p>
//                                     <!-- dropped record: empty line -->
//   <p>...fourth record...</p>
//
// Every fragment is followed by the line separator, including empty ones, so
// the number of lines equals the number of input records.
//
// =============================================================================

package htmlwriter

import (
	"bytes"
	"io"
)

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for output generation.
type GenerateOptions struct {
	// LineSeparator is written after every fragment.
	// Default: "\n"
	LineSeparator string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		LineSeparator: "\n",
	}
}

// =============================================================================
// GENERATION FUNCTIONS
// =============================================================================

// Generate concatenates fragments, each followed by a newline.
func Generate(fragments []string) []byte {
	return GenerateWithOptions(fragments, DefaultGenerateOptions())
}

// GenerateWithOptions concatenates fragments with custom options.
func GenerateWithOptions(fragments []string, options GenerateOptions) []byte {
	var buffer bytes.Buffer
	// Write to a bytes.Buffer cannot fail.
	_ = Write(&buffer, fragments, options)
	return buffer.Bytes()
}

// Write writes fragments to w, each followed by the line separator.
func Write(w io.Writer, fragments []string, options GenerateOptions) error {
	separator := options.LineSeparator
	if separator == "" {
		separator = DefaultGenerateOptions().LineSeparator
	}

	for _, fragment := range fragments {
		if _, err := io.WriteString(w, fragment); err != nil {
			return err
		}
		if _, err := io.WriteString(w, separator); err != nil {
			return err
		}
	}

	return nil
}
