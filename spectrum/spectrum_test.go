package spectrum

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spectra-data/specnorm/spectable"
)

// writeSpectrumFile writes a tab-separated spectrum file with two header
// rows and the given columns.
func writeSpectrumFile(t *testing.T, name string, wavelength, flux []float64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("# synthetic spectrum\n")
	b.WriteString("# lambda\tflux\n")
	for i := range wavelength {
		fmt.Fprintf(&b, "%g\t%g\n", wavelength[i], flux[i])
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestNewRequiresRedshift(t *testing.T) {
	_, err := New("sample.txt", Options{})
	if !errors.Is(err, ErrMissingRedshift) {
		t.Fatalf("New() error = %v, want ErrMissingRedshift", err)
	}
}

func TestNewPropagatesLoaderErrors(t *testing.T) {
	_, err := New("sample.xlsx", Options{Redshift: Float64(0)})
	if !errors.Is(err, spectable.ErrUnsupportedFormat) {
		t.Fatalf("New() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLinearizeWavelength(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{
			name: "log scale below threshold",
			in:   []float64{3.0, 3.5, 4.0},
			want: []float64{1000, math.Pow(10, 3.5), 10000},
		},
		{
			name: "linear scale untouched",
			in:   []float64{4000, 5000, 6000},
			want: []float64{4000, 5000, 6000},
		},
		{
			name: "max exactly at threshold untouched",
			in:   []float64{3.0, 5.0},
			want: []float64{3.0, 5.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Spectrum{wavelength: append([]float64(nil), tt.in...)}
			s.linearizeWavelength()
			if diff := cmp.Diff(tt.want, s.wavelength); diff != "" {
				t.Errorf("linearizeWavelength() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToRestFrame(t *testing.T) {
	z := 0.5
	s := &Spectrum{
		wavelength: []float64{6000, 7500, 9000},
		flux:       []float64{2, 4, 6},
		redshift:   z,
	}
	s.toRestFrame()

	wantW := []float64{4000, 5000, 6000}
	wantF := []float64{3, 6, 9}
	for i := range wantW {
		if math.Abs(s.wavelength[i]-wantW[i]) > 1e-12 {
			t.Errorf("wavelength[%d] = %g, want %g", i, s.wavelength[i], wantW[i])
		}
		if math.Abs(s.flux[i]-wantF[i]) > 1e-12 {
			t.Errorf("flux[%d] = %g, want %g", i, s.flux[i], wantF[i])
		}
	}
}

func TestComputeIvarBroadcast(t *testing.T) {
	// Population variance of [1 2 1 2 3] is 0.56; every pixel gets the
	// same 1/0.56 weight, including those outside the window.
	s := &Spectrum{
		wavelength: []float64{1, 2, 3, 4, 5, 100},
		flux:       []float64{1, 2, 1, 2, 3, 42},
		restFrame:  true,
		config:     Config{IvarWindow: Window{Low: 1, High: 5}},
	}
	if err := s.computeIvar(&spectable.Table{}); err != nil {
		t.Fatalf("computeIvar() error = %v", err)
	}

	want := 1 / 0.56
	if len(s.ivar) != 6 {
		t.Fatalf("len(ivar) = %d, want 6", len(s.ivar))
	}
	for i, iv := range s.ivar {
		if math.Abs(iv-want) > 1e-12 {
			t.Errorf("ivar[%d] = %g, want %g", i, iv, want)
		}
	}
}

func TestComputeIvarUsesProvidedColumn(t *testing.T) {
	s := &Spectrum{
		wavelength: []float64{1, 2, 3},
		flux:       []float64{1, 1, 1},
		restFrame:  true,
		config:     DefaultConfig(),
	}
	table := &spectable.Table{Ivar: []float64{0.5, 0, 2}, HasIvar: true}
	if err := s.computeIvar(table); err != nil {
		t.Fatalf("computeIvar() error = %v", err)
	}
	if diff := cmp.Diff([]float64{0.5, 0, 2}, s.ivar); diff != "" {
		t.Errorf("ivar mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeIvarEmptyWindow(t *testing.T) {
	s := &Spectrum{
		wavelength: []float64{1, 2, 3},
		flux:       []float64{1, 2, 3},
		restFrame:  true,
		config:     Config{IvarWindow: Window{Low: 500, High: 600}},
	}
	err := s.computeIvar(&spectable.Table{})
	if !errors.Is(err, ErrDegenerateContinuum) {
		t.Fatalf("computeIvar() error = %v, want ErrDegenerateContinuum", err)
	}
}

func TestComputeIvarZeroVariance(t *testing.T) {
	s := &Spectrum{
		wavelength: []float64{1, 2, 3},
		flux:       []float64{7, 7, 7},
		restFrame:  true,
		config:     Config{IvarWindow: Window{Low: 1, High: 3}},
	}
	err := s.computeIvar(&spectable.Table{})
	if !errors.Is(err, ErrDegenerateContinuum) {
		t.Fatalf("computeIvar() error = %v, want ErrDegenerateContinuum", err)
	}
}

func TestComputeIvarObservedFrameRescalesWindowCopy(t *testing.T) {
	// Window [1,2] in rest frame, z=1, spectrum left in observed frame:
	// the selection runs over [2,4] while the configured window stays put.
	cfg := Config{IvarWindow: Window{Low: 1, High: 2}}
	s := &Spectrum{
		wavelength: []float64{1, 2, 3, 4, 5},
		flux:       []float64{10, 1, 2, 4, 10},
		redshift:   1,
		restFrame:  false,
		config:     cfg,
	}
	if err := s.computeIvar(&spectable.Table{}); err != nil {
		t.Fatalf("computeIvar() error = %v", err)
	}

	// Continuum subset is [1 2 4]: population variance 14/9.
	want := 9.0 / 14.0
	for i, iv := range s.ivar {
		if math.Abs(iv-want) > 1e-12 {
			t.Errorf("ivar[%d] = %g, want %g", i, iv, want)
		}
	}
	if s.config.IvarWindow != cfg.IvarWindow {
		t.Errorf("configured window mutated: %v", s.config.IvarWindow)
	}
}

func TestMaskDeadPixels(t *testing.T) {
	s := &Spectrum{
		wavelength: []float64{10, 11, 12, 13, 14, 15, 16},
		flux:       []float64{1, 2, 3, 4, 5, 6, 7},
		ivar:       []float64{1, 1, 0, 1, 1, 0, 1},
	}
	s.maskDeadPixels()

	wantW := []float64{10, 11, 13, 14, 16}
	wantF := []float64{1, 2, 4, 5, 7}
	wantI := []float64{1, 1, 1, 1, 1}
	if diff := cmp.Diff(wantW, s.wavelength); diff != "" {
		t.Errorf("wavelength mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantF, s.flux); diff != "" {
		t.Errorf("flux mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantI, s.ivar); diff != "" {
		t.Errorf("ivar mismatch (-want +got):\n%s", diff)
	}

	// Re-masking a clean spectrum is a no-op.
	s.maskDeadPixels()
	if diff := cmp.Diff(wantW, s.wavelength); diff != "" {
		t.Errorf("second mask changed wavelength (-want +got):\n%s", diff)
	}
	if len(s.flux) != 5 || len(s.ivar) != 5 {
		t.Errorf("second mask changed lengths: %d, %d", len(s.flux), len(s.ivar))
	}
}

func TestEndToEndZeroVariance(t *testing.T) {
	path := writeSpectrumFile(t, "flat.txt",
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 1, 1, 1, 1})

	_, err := New(path, Options{
		Redshift:            Float64(0),
		LinearizeWavelength: Bool(false),
		Config:              &Config{IvarWindow: Window{Low: 1, High: 5}, TrimWindow: DefaultConfig().TrimWindow},
	})
	if !errors.Is(err, ErrDegenerateContinuum) {
		t.Fatalf("New() error = %v, want ErrDegenerateContinuum", err)
	}
}

func TestEndToEndBroadcastIvar(t *testing.T) {
	path := writeSpectrumFile(t, "wiggle.txt",
		[]float64{1, 2, 3, 4, 5},
		[]float64{1, 2, 1, 2, 3})

	s, err := New(path, Options{
		Redshift:            Float64(0),
		LinearizeWavelength: Bool(false),
		Config:              &Config{IvarWindow: Window{Low: 1, High: 5}, TrimWindow: DefaultConfig().TrimWindow},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	if len(s.Wavelength()) != len(s.Flux()) || len(s.Flux()) != len(s.Ivar()) {
		t.Fatalf("array lengths diverged: %d, %d, %d",
			len(s.Wavelength()), len(s.Flux()), len(s.Ivar()))
	}
	want := 1 / 0.56
	for i, iv := range s.Ivar() {
		if math.Abs(iv-want) > 1e-12 {
			t.Errorf("ivar[%d] = %g, want %g", i, iv, want)
		}
	}
	if s.Name() != "wiggle" {
		t.Errorf("Name() = %q, want %q", s.Name(), "wiggle")
	}
	if !s.RestFrame() {
		t.Error("RestFrame() = false, want true by default")
	}
}

func TestEndToEndExtinctionApplied(t *testing.T) {
	wl := []float64{4000, 4500, 5000, 5500, 6000}
	flux := []float64{1, 2, 1, 2, 3}
	path := writeSpectrumFile(t, "dusty.txt", wl, flux)

	opts := Options{
		Redshift:            Float64(0),
		LinearizeWavelength: Bool(false),
		Config:              &Config{IvarWindow: Window{Low: 4000, High: 6000}, TrimWindow: DefaultConfig().TrimWindow},
	}

	plain, err := New(path, opts)
	if err != nil {
		t.Fatalf("New() without extinction: %v", err)
	}

	opts.AvExtinction = Float64(1.0)
	dusty, err := New(path, opts)
	if err != nil {
		t.Fatalf("New() with extinction: %v", err)
	}

	// De-reddening must actually land in the stored flux: every corrected
	// pixel is brighter, more so toward the blue.
	prevRatio := math.Inf(1)
	for i := range wl {
		ratio := dusty.Flux()[i] / plain.Flux()[i]
		if ratio <= 1 {
			t.Errorf("pixel %d not brightened: ratio %g", i, ratio)
		}
		if ratio >= prevRatio {
			t.Errorf("pixel %d correction %g not below bluer pixel's %g", i, ratio, prevRatio)
		}
		prevRatio = ratio
	}
}

func TestTrimTo(t *testing.T) {
	s := &Spectrum{
		name:       "sample",
		wavelength: []float64{3900, 4000, 4100, 4200, 4300},
		flux:       []float64{1, 2, 3, 4, 5},
		ivar:       []float64{1, 1, 1, 1, 1},
		config:     DefaultConfig(),
	}
	got := s.TrimTo(Window{Low: 4000, High: 4200})

	if diff := cmp.Diff([]float64{4000, 4100, 4200}, got.Wavelength()); diff != "" {
		t.Errorf("trimmed wavelength mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 3, 4}, got.Flux()); diff != "" {
		t.Errorf("trimmed flux mismatch (-want +got):\n%s", diff)
	}
	if len(got.Ivar()) != 3 {
		t.Errorf("trimmed ivar length = %d, want 3", len(got.Ivar()))
	}
	if s.Len() != 5 {
		t.Errorf("trim mutated the receiver: Len() = %d", s.Len())
	}
	if got.Name() != "sample" {
		t.Errorf("trim dropped the name: %q", got.Name())
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/spectra/ngc4151.txt", "ngc4151"},
		{"sample.flux.txt", "sample"},
		{"noext", "noext"},
		{"/abs/path/spec.fits", "spec"},
	}
	for _, tt := range tests {
		if got := stem(tt.path); got != tt.want {
			t.Errorf("stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
