// =============================================================================
// csv2html - Configuration Module
// =============================================================================
//
// This module is responsible for loading the optional YAML configuration
// file. Every setting has a default, and the defaults reproduce the plain
// behavior of the tool: comma-separated UTF-8 input with the standard book
// catalog headers, descriptions passed through unescaped, and one fragment
// per line in the output.
//
// CONFIGURATION FILE:
//   columns:      header names of the five required columns
//   input:        format, delimiter, encoding, worksheet
//   output:       line separator
//   description:  how the description field is cleaned before link substitution
//   logging:      log level
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrEmptyColumnName      = errors.New("columns: every required column needs a header name")
	ErrDuplicateColumnName  = errors.New("columns: header names must be distinct")
	ErrInvalidFormat        = errors.New("input.format must be one of: auto, csv, xlsx")
	ErrInvalidDelimiter     = errors.New("input.delimiter must be a single character")
	ErrInvalidDescription   = errors.New("description.mode must be one of: raw, escape, inline, strip")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrEmptyLineSeparator   = errors.New("output.line_separator must not be empty")
	ErrDelimiterIsSeparator = errors.New("input.delimiter must not be a quote or line break")
)

// Input formats.
const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Description modes.
const (
	// DescriptionRaw inserts the description as-is.
	DescriptionRaw = "raw"

	// DescriptionEscape entity-escapes the description.
	DescriptionEscape = "escape"

	// DescriptionInline keeps inline formatting tags and removes the rest.
	DescriptionInline = "inline"

	// DescriptionStrip removes every tag.
	DescriptionStrip = "strip"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Columns     Columns           `yaml:"columns"`
	Input       InputSettings     `yaml:"input"`
	Output      OutputSettings    `yaml:"output"`
	Description DescriptionConfig `yaml:"description"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Columns names the header of each required column.
type Columns struct {
	// Title is the book title column.
	// Default: "Title"
	Title string `yaml:"title"`

	// Author is the author column.
	// Default: "Author(s)"
	Author string `yaml:"author"`

	// PublicationDate is the publication date column.
	// Default: "Publication Date"
	PublicationDate string `yaml:"publication_date"`

	// URL is the review-site link column.
	// Default: "GoodReads URL"
	URL string `yaml:"url"`

	// Description is the free-text description column.
	// Default: "Description"
	Description string `yaml:"description"`
}

// Required returns the required column names in the order they are read
// from a record.
func (c Columns) Required() []string {
	return []string{c.Title, c.Author, c.PublicationDate, c.URL, c.Description}
}

// InputSettings contains settings for reading the input file.
type InputSettings struct {
	// Format selects the record source.
	// Valid values: "auto", "csv", "xlsx"
	// Default: "auto" (decided by file extension)
	Format string `yaml:"format"`

	// Delimiter is the character used to separate fields in delimited text.
	// Accepts a single character or one of "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of delimited text input.
	// Any WHATWG label is accepted ("utf-8", "windows-1252", "latin1", ...).
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`

	// Sheet is the worksheet to read from xlsx input.
	// Default: "" (first sheet)
	Sheet string `yaml:"sheet"`

	// TrimSpace trims leading and trailing whitespace from every cell.
	// Default: false
	TrimSpace bool `yaml:"trim_space"`
}

// OutputSettings contains settings for the generated file.
type OutputSettings struct {
	// LineSeparator is written after every fragment, including empty ones.
	// Default: "\n"
	LineSeparator string `yaml:"line_separator"`
}

// DescriptionConfig controls how the description field is cleaned.
type DescriptionConfig struct {
	// Mode is one of "raw", "escape", "inline", "strip".
	// Default: "raw"
	Mode string `yaml:"mode"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// An empty path returns the defaults. Unset options in the file take their
// default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses YAML configuration data, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Columns.Title == "" {
		cfg.Columns.Title = "Title"
	}
	if cfg.Columns.Author == "" {
		cfg.Columns.Author = "Author(s)"
	}
	if cfg.Columns.PublicationDate == "" {
		cfg.Columns.PublicationDate = "Publication Date"
	}
	if cfg.Columns.URL == "" {
		cfg.Columns.URL = "GoodReads URL"
	}
	if cfg.Columns.Description == "" {
		cfg.Columns.Description = "Description"
	}

	if cfg.Input.Format == "" {
		cfg.Input.Format = FormatAuto
	}
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = "utf-8"
	}

	if cfg.Output.LineSeparator == "" {
		cfg.Output.LineSeparator = "\n"
	}

	if cfg.Description.Mode == "" {
		cfg.Description.Mode = DescriptionRaw
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, name := range c.Columns.Required() {
		if strings.TrimSpace(name) == "" {
			return ErrEmptyColumnName
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumnName, name)
		}
		seen[name] = true
	}

	switch strings.ToLower(c.Input.Format) {
	case FormatAuto, FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Input.Format)
	}

	comma, err := c.Input.Comma()
	if err != nil {
		return err
	}
	if comma == '"' || comma == '\r' || comma == '\n' || comma == utf8.RuneError {
		return ErrDelimiterIsSeparator
	}

	switch strings.ToLower(c.Description.Mode) {
	case DescriptionRaw, DescriptionEscape, DescriptionInline, DescriptionStrip:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidDescription, c.Description.Mode)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if c.Output.LineSeparator == "" {
		return ErrEmptyLineSeparator
	}

	return nil
}

// Comma returns the delimiter as a rune.
//
// Named delimiters are accepted alongside literal characters:
//   - "tab", "\t"     : tab
//   - "pipe"          : |
//   - "semicolon"     : ;
func (s InputSettings) Comma() (rune, error) {
	switch strings.ToLower(s.Delimiter) {
	case "\\t", "\t", "tab":
		return '\t', nil
	case "pipe":
		return '|', nil
	case "semicolon":
		return ';', nil
	}

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidDelimiter, s.Delimiter)
	}

	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r, nil
}
