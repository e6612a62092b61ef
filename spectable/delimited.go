package spectable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// delimitedReader parses two-column delimited text: a wavelength column and a
// flux column, in file order, after skipping a fixed number of header rows.
// Header rows are discarded as raw lines before CSV parsing so arbitrary
// header text cannot trip the field parser.
type delimitedReader struct{}

func (delimitedReader) Read(path string, opts Options) (*Table, error) {
	sep, err := separatorRune(opts.Separator)
	if err != nil {
		return nil, err
	}
	if opts.SkipRows < 0 {
		return nil, fmt.Errorf("%w: negative skip rows %d", ErrMalformedData, opts.SkipRows)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	body, skipped, err := skipLines(string(raw), opts.SkipRows)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(body))
	r.Comma = sep
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	t := &Table{}
	line := skipped
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedData, line, err)
		}
		lambda, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: wavelength %q is not numeric", ErrMalformedData, line, record[0])
		}
		flux, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: flux %q is not numeric", ErrMalformedData, line, record[1])
		}
		t.Lambda = append(t.Lambda, lambda)
		t.Flux = append(t.Flux, flux)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: no data rows after %d skipped header rows", ErrMalformedData, opts.SkipRows)
	}
	return t, nil
}

// separatorRune validates that the configured separator is a single rune.
func separatorRune(sep string) (rune, error) {
	if utf8.RuneCountInString(sep) != 1 {
		return 0, fmt.Errorf("%w: separator must be a single character, got %q", ErrMalformedData, sep)
	}
	r, _ := utf8.DecodeRuneInString(sep)
	return r, nil
}

// skipLines drops n leading lines from s and returns the remainder along with
// the number of lines actually consumed.
func skipLines(s string, n int) (rest string, consumed int, err error) {
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			if s == "" {
				return "", consumed, fmt.Errorf("%w: file ends inside the %d header rows", ErrMalformedData, n)
			}
			return "", consumed + 1, nil
		}
		s = s[idx+1:]
		consumed++
	}
	return s, consumed, nil
}
