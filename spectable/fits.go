package spectable

import (
	"fmt"
	"os"
	"strings"

	"github.com/siravan/fits"
)

// fitsReader parses the first table extension of a FITS file. Column names
// are matched case-insensitively; a loglam column stands in for lambda (the
// delinearization stage downstream undoes the log scale). An ivar column, if
// present, flows through with tagged presence.
type fitsReader struct{}

func (fitsReader) Read(path string, _ Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	units, err := fits.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	var table *fits.Unit
	for _, u := range units {
		if u.HasTable() {
			table = u
			break
		}
	}
	if table == nil {
		return nil, fmt.Errorf("%w: no table extension in %s", ErrMalformedData, path)
	}

	tfields, ok := table.Keys["TFIELDS"].(int)
	if !ok || tfields <= 0 {
		return nil, fmt.Errorf("%w: table extension has no fields", ErrMalformedData)
	}
	nrows := table.Naxis[1]

	t := &Table{}
	for i := 0; i < tfields; i++ {
		name, _ := table.Keys[fits.Nth("TTYPE", i+1)].(string)
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "loglam" {
			name = "lambda"
		}
		switch name {
		case "lambda":
			if t.Lambda, err = columnFloats(table, i, nrows); err != nil {
				return nil, err
			}
		case "flux":
			if t.Flux, err = columnFloats(table, i, nrows); err != nil {
				return nil, err
			}
		case "ivar":
			if t.Ivar, err = columnFloats(table, i, nrows); err != nil {
				return nil, err
			}
			t.HasIvar = true
		}
	}

	if t.Lambda == nil || t.Flux == nil {
		return nil, fmt.Errorf("%w: table extension is missing a lambda or flux column", ErrMalformedData)
	}
	return t, nil
}

// columnFloats extracts one scalar numeric column as float64.
func columnFloats(u *fits.Unit, col, nrows int) ([]float64, error) {
	fn := u.Field(col)
	out := make([]float64, nrows)
	for row := 0; row < nrows; row++ {
		v, err := cellFloat(fn(row))
		if err != nil {
			return nil, fmt.Errorf("%w: column %d row %d: %v", ErrMalformedData, col+1, row+1, err)
		}
		out[row] = v
	}
	return out, nil
}

func cellFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case byte:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
