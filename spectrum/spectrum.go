// Package spectrum normalizes a 1-D astronomical spectrum into a canonical
// physical representation.
//
// A Spectrum is constructed from a source file and a small set of physical
// parameters, run through a fixed pipeline during construction, and is
// read-only afterwards:
//
//	load -> delinearize -> remove extinction -> to rest frame ->
//	compute ivar -> mask dead pixels
//
// Every stage preserves the index alignment of the wavelength, flux, and
// inverse-variance arrays; the only length change is the final removal of
// zero-weight pixels, applied to all three arrays at once. Construction
// either yields a fully normalized Spectrum or an error naming the failing
// stage; no partial object escapes. Instances share no mutable state, so
// independent goroutines may construct Spectrums concurrently.
package spectrum

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/spectra-data/specnorm/extinction"
	"github.com/spectra-data/specnorm/spectable"
)

// rvExtinction is the ratio of total to selective extinction assumed by the
// extinction-correction stage (diffuse Milky Way ISM).
const rvExtinction = 3.1

// linearThreshold separates log10-scale wavelength arrays from linear ones:
// log10 of optical wavelengths in Angstroms sits in the 3-4 range while
// linear values sit in the thousands. The heuristic is unit-fragile and
// deliberately preserved as-is; a linear spectrum sampled in log-adjacent
// units would be misclassified.
const linearThreshold = 5.0

// Spectrum holds one normalized spectrum. The slices returned by the
// accessors are the internal arrays and must not be modified.
type Spectrum struct {
	name       string
	wavelength []float64
	flux       []float64
	ivar       []float64

	redshift  float64
	restFrame bool
	config    Config
}

// New loads the spectrum at path and runs the normalization pipeline.
func New(path string, opts Options) (*Spectrum, error) {
	if opts.Redshift == nil {
		return nil, fmt.Errorf("new spectrum: %w", ErrMissingRedshift)
	}

	table, err := spectable.Load(path, spectable.Options{
		SkipRows:  opts.GetSkipRows(),
		Separator: opts.GetSeparator(),
	})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	s := &Spectrum{
		name:       stem(path),
		wavelength: table.Lambda,
		flux:       table.Flux,
		redshift:   *opts.Redshift,
		restFrame:  opts.GetToRestFrame(),
		config:     opts.GetConfig(),
	}

	if opts.GetLinearizeWavelength() {
		s.linearizeWavelength()
	}
	if opts.AvExtinction != nil {
		s.removeExtinction(*opts.AvExtinction)
	}
	if s.restFrame {
		s.toRestFrame()
	}
	if err := s.computeIvar(table); err != nil {
		return nil, fmt.Errorf("compute ivar: %w", err)
	}
	s.maskDeadPixels()

	return s, nil
}

// Name returns the file stem the spectrum was loaded from: the base name
// truncated at its first dot.
func (s *Spectrum) Name() string { return s.name }

// Wavelength returns the wavelength array. Read-only.
func (s *Spectrum) Wavelength() []float64 { return s.wavelength }

// Flux returns the flux array. Read-only.
func (s *Spectrum) Flux() []float64 { return s.flux }

// Ivar returns the per-pixel inverse-variance weights. Read-only.
func (s *Spectrum) Ivar() []float64 { return s.ivar }

// Redshift returns the redshift supplied at construction.
func (s *Spectrum) Redshift() float64 { return s.redshift }

// RestFrame reports whether the rest-frame transform was applied.
func (s *Spectrum) RestFrame() bool { return s.restFrame }

// Len returns the number of usable pixels.
func (s *Spectrum) Len() int { return len(s.wavelength) }

// linearizeWavelength restores linear wavelength units for spectra stored in
// log10 scale, identified by the linearThreshold heuristic.
func (s *Spectrum) linearizeWavelength() {
	max := math.Inf(-1)
	for _, w := range s.wavelength {
		if w > max {
			max = w
		}
	}
	if max >= linearThreshold {
		return
	}
	for i, w := range s.wavelength {
		s.wavelength[i] = math.Pow(10, w)
	}
}

// removeExtinction de-reddens the flux with the Fitzpatrick99 law for the
// given A_V. The corrected flux replaces the stored array.
func (s *Spectrum) removeExtinction(av float64) {
	curve := extinction.Fitzpatrick99(s.wavelength, av, rvExtinction)
	s.flux = extinction.Remove(curve, s.flux)
}

// toRestFrame converts the observed-frame arrays into the frame of the
// emitting source. Flux is scaled by (1+z) to conserve it under the
// wavelength compression.
func (s *Spectrum) toRestFrame() {
	scale := 1 + s.redshift
	for i := range s.wavelength {
		s.wavelength[i] /= scale
		s.flux[i] *= scale
	}
}

// computeIvar fills the inverse-variance array. A source-provided ivar
// column is used verbatim; otherwise the flux variance inside the configured
// continuum window yields a single 1/variance weight broadcast to every
// pixel.
func (s *Spectrum) computeIvar(table *spectable.Table) error {
	if table.HasIvar {
		s.ivar = table.Ivar
		return nil
	}

	window := s.config.IvarWindow
	if !s.restFrame {
		// The window is configured in rest-frame units but the arrays
		// are still observed-frame; stretch a copy to match.
		window = window.Rescale(s.redshift)
	}

	var continuum []float64
	for i, w := range s.wavelength {
		if window.Contains(w) {
			continuum = append(continuum, s.flux[i])
		}
	}
	if len(continuum) == 0 {
		return fmt.Errorf("%w: no samples in %v", ErrDegenerateContinuum, window)
	}

	variance := stat.PopVariance(continuum, nil)
	if variance == 0 {
		return fmt.Errorf("%w: zero flux variance in %v", ErrDegenerateContinuum, window)
	}

	ivar := 1 / variance
	s.ivar = make([]float64, len(s.wavelength))
	for i := range s.ivar {
		s.ivar[i] = ivar
	}
	return nil
}

// maskDeadPixels removes zero-weight pixels from all three arrays, keeping
// relative order. A second pass over already-masked arrays is a no-op.
func (s *Spectrum) maskDeadPixels() {
	n := 0
	for i, iv := range s.ivar {
		if iv == 0 {
			continue
		}
		s.wavelength[n] = s.wavelength[i]
		s.flux[n] = s.flux[i]
		s.ivar[n] = s.ivar[i]
		n++
	}
	s.wavelength = s.wavelength[:n]
	s.flux = s.flux[:n]
	s.ivar = s.ivar[:n]
}

// Trim returns a copy of the spectrum restricted to the configured trim
// window, preserving index alignment. The receiver is unchanged.
func (s *Spectrum) Trim() *Spectrum {
	return s.TrimTo(s.config.TrimWindow)
}

// TrimTo returns a copy of the spectrum restricted to the given window,
// bounds inclusive.
func (s *Spectrum) TrimTo(window Window) *Spectrum {
	out := &Spectrum{
		name:      s.name,
		redshift:  s.redshift,
		restFrame: s.restFrame,
		config:    s.config,
	}
	for i, w := range s.wavelength {
		if window.Contains(w) {
			out.wavelength = append(out.wavelength, w)
			out.flux = append(out.flux, s.flux[i])
			out.ivar = append(out.ivar, s.ivar[i])
		}
	}
	return out
}

// stem returns the base name of path truncated at its first dot.
func stem(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}
