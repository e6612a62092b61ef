package spectrum

import "errors"

var (
	// ErrMissingRedshift reports a construction attempt without the
	// required redshift. Checked before any file I/O or array work.
	ErrMissingRedshift = errors.New("redshift is required")

	// ErrDegenerateContinuum reports an ivar estimation window that
	// selected no samples or a zero-variance flux subset; no sensible
	// per-pixel weight exists in either case.
	ErrDegenerateContinuum = errors.New("degenerate continuum window")
)
