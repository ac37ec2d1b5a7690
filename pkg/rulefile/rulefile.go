package rulefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineLen bounds a single line of a text rule file.
const maxLineLen = 1 << 20

// ErrUnknownFormat is returned for format names ParseFormat does not know.
var ErrUnknownFormat = errors.New("unknown rule file format")

// Format identifies the encoding of a rule file.
type Format uint8

const (
	// FormatAuto detects the format from the content.
	FormatAuto Format = iota
	// FormatText is one definition per line.
	FormatText
	// FormatYAML is a YAML document with a rules list.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatText:
		return "text"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name as returned by String.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "auto", "":
		return FormatAuto, nil
	case "text", "txt", "rules":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Line is one rule definition and its position in the source.
type Line struct {
	// Number is the 1-based line number (0 if unknown).
	Number int
	// Text is the definition as written.
	Text string
}

// File is a parsed rule file.
type File struct {
	Format      Format
	Description string
	// Version is the format version of a YAML file, if given.
	Version string
	Lines   []Line
	// SourceFile is set by ParseFile.
	SourceFile string
}

// Definitions returns the definition texts in file order.
func (f *File) Definitions() []string {
	defs := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		defs[i] = l.Text
	}
	return defs
}

// FromDefinitions builds a File from definition texts, numbering them
// from 1.
func FromDefinitions(format Format, defs []string) *File {
	f := &File{Format: format, Lines: make([]Line, len(defs))}
	for i, d := range defs {
		f.Lines[i] = Line{Number: i + 1, Text: d}
	}
	return f
}

// Skip reports whether a text line carries no definition.
func Skip(line string) bool {
	trimmed := strings.TrimLeft(line, " \t\r\v\f")
	return trimmed == "" || trimmed[0] == '#'
}

// detectFormat examines the first significant line. YAML documents start
// with a known mapping key or a document marker; anything else is text.
func detectFormat(data []byte) Format {
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 || trimmed[0] == '#' {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("---")) ||
			bytes.HasPrefix(trimmed, []byte("rules:")) ||
			bytes.HasPrefix(trimmed, []byte("version:")) ||
			bytes.HasPrefix(trimmed, []byte("description:")) {
			return FormatYAML
		}
		return FormatText
	}
	return FormatText
}

// ParseFile reads and parses a rule file with format detection.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	f, err := ParseBytes(data, FormatAuto)
	if err != nil {
		return nil, err
	}
	f.SourceFile = path
	return f, nil
}

// Parse reads all of r and parses it with format detection.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return ParseBytes(data, FormatAuto)
}

// ParseBytes parses data in the given format.
func ParseBytes(data []byte, format Format) (*File, error) {
	if format == FormatAuto {
		format = detectFormat(data)
	}
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatText:
		return parseText(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}

func parseText(r io.Reader) (*File, error) {
	f := &File{Format: FormatText}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if Skip(line) {
			continue
		}
		f.Lines = append(f.Lines, Line{Number: lineNum, Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
	}
	return f, nil
}

// Write encodes f in its format. FormatAuto writes text.
func Write(w io.Writer, f *File) error {
	if f.Format == FormatYAML {
		return writeYAML(w, f)
	}
	bw := bufio.NewWriter(w)
	if f.Description != "" {
		for _, l := range strings.Split(f.Description, "\n") {
			fmt.Fprintf(bw, "# %s\n", l)
		}
	}
	for _, l := range f.Lines {
		bw.WriteString(l.Text)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
