// Package output handles formatting and displaying CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/promorang/promorang-cli/pkg/api"
)

// Format represents the output format type.
type Format int

const (
	FormatHuman Format = iota
	FormatJSON
	FormatRaw
)

// ParseFormat maps a render.format value to a Format. "auto" and unknown
// values are human.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "raw":
		return FormatRaw
	default:
		return FormatHuman
	}
}

// envelope is the JSON shape of every command result.
type envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *api.Error `json:"error,omitempty"`
}

// Printer handles output formatting.
type Printer struct {
	writer    io.Writer
	errWriter io.Writer
	format    Format
	quiet     bool
}

// New creates a new output printer.
func New(format Format, quiet bool) *Printer {
	return NewWithWriters(format, quiet, os.Stdout, os.Stderr)
}

// NewWithWriters creates a printer writing results to w and errors to errW.
func NewWithWriters(format Format, quiet bool, w, errW io.Writer) *Printer {
	return &Printer{
		writer:    w,
		errWriter: errW,
		format:    format,
		quiet:     quiet,
	}
}

// Success prints a success response.
func (p *Printer) Success(result any) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(envelope{OK: true, Data: result})
	case FormatRaw:
		// For raw output, just print the result as-is
		fmt.Fprintf(p.writer, "%v\n", result)
		return nil
	default:
		if !p.quiet {
			fmt.Fprintf(p.writer, "%v\n", result)
		}
		return nil
	}
}

// Error prints an error response. API errors keep their code and status.
func (p *Printer) Error(err error) error {
	if apiErr, ok := api.AsError(err); ok && apiErr.Error() == err.Error() {
		return p.APIError(apiErr)
	}
	switch p.format {
	case FormatJSON:
		return p.printJSON(envelope{
			Error: &api.Error{
				Code:    "error",
				Message: err.Error(),
			},
		})
	default:
		fmt.Fprintf(p.errWriter, "error: %v\n", err)
		return nil
	}
}

// APIError prints an API error response.
func (p *Printer) APIError(apiErr *api.Error) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(envelope{Error: apiErr})
	default:
		if apiErr.Status > 0 {
			fmt.Fprintf(p.errWriter, "error: %s (%s, HTTP %d)\n", apiErr.Error(), apiErr.Code, apiErr.Status)
		} else {
			fmt.Fprintf(p.errWriter, "error: %s (%s)\n", apiErr.Error(), apiErr.Code)
		}
		if len(apiErr.Details) > 0 {
			keys := make([]string, 0, len(apiErr.Details))
			for k := range apiErr.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(p.errWriter, "  %s: %v\n", k, apiErr.Details[k])
			}
		}
		return nil
	}
}

// Print prints arbitrary data.
func (p *Printer) Print(format string, args ...any) {
	if p.quiet && p.format != FormatJSON {
		return
	}
	fmt.Fprintf(p.writer, format, args...)
}

// Printf prints formatted data.
func (p *Printer) Printf(format string, args ...any) {
	if p.quiet && p.format != FormatJSON {
		return
	}
	fmt.Fprintf(p.writer, format, args...)
}

// Println prints a line of arbitrary data.
func (p *Printer) Println(args ...any) {
	if p.quiet && p.format != FormatJSON {
		return
	}
	fmt.Fprintln(p.writer, args...)
}

// Table prints data in table format (only in human mode).
func (p *Printer) Table(headers []string, rows [][]string) error {
	if p.format != FormatHuman {
		return nil
	}

	if len(headers) == 0 || len(rows) == 0 {
		return nil
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Print header
	for i, h := range headers {
		fmt.Fprintf(p.writer, "%-*s  ", widths[i], h)
	}
	fmt.Fprintln(p.writer)

	// Print separator
	for i := range headers {
		for j := 0; j < widths[i]; j++ {
			fmt.Fprint(p.writer, "-")
		}
		fmt.Fprint(p.writer, "  ")
	}
	fmt.Fprintln(p.writer)

	// Print rows
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(p.writer, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(p.writer)
	}

	return nil
}

// printJSON marshals and prints JSON output.
func (p *Printer) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	fmt.Fprintf(p.writer, "%s\n", data)
	return nil
}

// IsJSON returns true if the output format is JSON.
func (p *Printer) IsJSON() bool {
	return p.format == FormatJSON
}

// IsRaw returns true if the output format is raw.
func (p *Printer) IsRaw() bool {
	return p.format == FormatRaw
}

// IsQuiet returns true if quiet mode is enabled.
func (p *Printer) IsQuiet() bool {
	return p.quiet
}
