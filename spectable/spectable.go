// Package spectable reads 1-D spectrum files into columnar tables.
//
// A spectrum file carries at least a wavelength column and a flux column;
// SDSS-style binary tables may additionally carry a per-pixel inverse
// variance. The package supports two on-disk formats, resolved once from the
// file extension into an explicit Format tag with a registered reader per
// tag: delimited text (two columns, configurable separator and header-row
// skip) and FITS binary tables (first table extension, column names matched
// case-insensitively, a loglam column standing in for lambda).
package spectable

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat reports a file extension that matches no
	// registered reader.
	ErrUnsupportedFormat = errors.New("unsupported spectrum file format")

	// ErrMalformedData reports a file that matched a format but could not
	// be parsed into aligned numeric columns.
	ErrMalformedData = errors.New("malformed spectrum data")
)

// Format identifies an on-disk spectrum file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatDelimited
	FormatFITS
)

// String returns a short name for the format, for error messages.
func (f Format) String() string {
	switch f {
	case FormatDelimited:
		return "delimited"
	case FormatFITS:
		return "fits"
	default:
		return "unknown"
	}
}

// Table is the columnar result of reading a spectrum file. Lambda and Flux
// are always populated and index-aligned. Ivar is only meaningful when
// HasIvar is true; presence is tagged explicitly rather than inferred from a
// column map.
type Table struct {
	Lambda  []float64
	Flux    []float64
	Ivar    []float64
	HasIvar bool
}

// Len returns the number of rows in the table.
func (t *Table) Len() int { return len(t.Lambda) }

// Options holds format-specific read parameters. Only the delimited reader
// consumes them; the FITS reader ignores both fields.
type Options struct {
	// SkipRows is the number of leading header rows to discard.
	SkipRows int
	// Separator is the field delimiter. It must be a single rune.
	Separator string
}

// DefaultOptions returns the conventional read parameters: two header rows
// and tab-separated fields.
func DefaultOptions() Options {
	return Options{SkipRows: 2, Separator: "\t"}
}

// Reader parses one spectrum file format into a Table.
type Reader interface {
	Read(path string, opts Options) (*Table, error)
}

// readers maps each format tag to its parser. Populated at init; never
// mutated afterwards, so concurrent Load calls are safe.
var readers = map[Format]Reader{
	FormatDelimited: delimitedReader{},
	FormatFITS:      fitsReader{},
}

// DetectFormat resolves a file path to a Format tag using its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".dat", ".csv", ".tsv":
		return FormatDelimited, nil
	case ".fits", ".fit":
		return FormatFITS, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load detects the format of path and reads it into a Table.
func Load(path string, opts Options) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	r, ok := readers[format]
	if !ok {
		return nil, fmt.Errorf("%w: no reader registered for %s", ErrUnsupportedFormat, format)
	}
	return r.Read(path, opts)
}
