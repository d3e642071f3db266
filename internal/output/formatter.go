// Package output renders analysis results as terminal text, JSON, SARIF,
// or TOON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	toon "github.com/toon-format/toon-go"
)

// Format selects an output renderer.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
	FormatSARIF    Format = "sarif"
	FormatTOON     Format = "toon"
)

// ParseFormat converts a flag value; unknown strings fall back to terminal.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "sarif":
		return FormatSARIF
	case "toon":
		return FormatTOON
	default:
		return FormatTerminal
	}
}

// Formatter writes to stdout or a file, tracking whether color is allowed.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a formatter. Writing to a file disables color.
func NewFormatter(format Format, outputPath string, colored bool) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, err
		}
		writer = f
		file = f
		colored = false
	}
	return &Formatter{format: format, writer: writer, file: file, colored: colored}, nil
}

// Close closes the underlying file, if any.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Format returns the configured format.
func (f *Formatter) Format() Format { return f.format }

// Writer exposes the destination for custom rendering.
func (f *Formatter) Writer() io.Writer { return f.writer }

// Colored reports whether ANSI color is enabled.
func (f *Formatter) Colored() bool { return f.colored }

// OutputJSON writes data as indented JSON.
func (f *Formatter) OutputJSON(data any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// OutputTOON writes data in token-oriented object notation.
func (f *Formatter) OutputTOON(data any) error {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.writer, string(out))
	return err
}

// Warning prints a warning to stderr regardless of the output destination.
func (f *Formatter) Warning(format string, args ...any) {
	if f.colored {
		color.New(color.FgYellow).Fprintf(os.Stderr, format+"\n", args...)
	} else {
		fmt.Fprintf(os.Stderr, "WARNING: "+format+"\n", args...)
	}
}

// Table renders a titled borderless table.
func (f *Formatter) Table(title string, headers []string, rows [][]string) error {
	if title != "" {
		if f.colored {
			color.New(color.Bold).Fprintln(f.writer, title)
		} else {
			fmt.Fprintln(f.writer, title)
		}
		fmt.Fprintln(f.writer, strings.Repeat("=", len(title)))
		fmt.Fprintln(f.writer)
	}

	table := tablewriter.NewTable(f.writer,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)
	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	fmt.Fprintln(f.writer)
	return nil
}

// ConfidenceColor colors a confidence label when color is on.
func (f *Formatter) ConfidenceColor(confidence string) string {
	if !f.colored {
		return confidence
	}
	switch confidence {
	case "confirmed":
		return color.RedString(confidence)
	case "high":
		return color.YellowString(confidence)
	case "medium":
		return color.CyanString(confidence)
	default:
		return confidence
	}
}
