// Command specnorm normalizes one spectrum file and writes the processed
// wavelength, flux, and inverse-variance columns as CSV on stdout.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spectra-data/specnorm/internal/config"
	"github.com/spectra-data/specnorm/spectrum"
)

func main() {
	var (
		file       = flag.String("file", "", "spectrum file to process (.txt/.dat/.csv/.tsv or .fits)")
		redshift   = flag.Float64("z", math.NaN(), "cosmological redshift of the source (required)")
		av         = flag.Float64("av", math.NaN(), "extinction magnitude A_V (omit to skip extinction correction)")
		linearize  = flag.Bool("linearize", true, "convert log10 wavelength to linear when detected")
		restFrame  = flag.Bool("rest-frame", true, "transform to the source rest frame")
		skipRows   = flag.Int("skip-rows", 2, "header rows to skip in delimited files")
		sep        = flag.String("sep", "\t", "field separator for delimited files")
		configPath = flag.String("config", "", "optional wavelength-window tuning JSON")
		trim       = flag.String("trim", "", "optional trim window as 'low,high' (empty = no trim)")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("missing required -file")
	}

	opts := spectrum.Options{
		LinearizeWavelength: linearize,
		ToRestFrame:         restFrame,
		SkipRows:            skipRows,
		Separator:           sep,
	}
	if !math.IsNaN(*redshift) {
		opts.Redshift = redshift
	}
	if !math.IsNaN(*av) {
		opts.AvExtinction = av
	}
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		windows := cfg.Windows()
		opts.Config = &windows
	}

	s, err := spectrum.New(*file, opts)
	if err != nil {
		log.Fatalf("process %s: %v", *file, err)
	}

	if *trim != "" {
		window, err := parseWindow(*trim)
		if err != nil {
			log.Fatalf("invalid -trim: %v", err)
		}
		s = s.TrimTo(window)
	}

	if err := writeCSV(os.Stdout, s); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("%s: %d pixels", s.Name(), s.Len())
}

// parseWindow parses a "low,high" pair into a wavelength window.
func parseWindow(s string) (spectrum.Window, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return spectrum.Window{}, fmt.Errorf("expected 'low,high', got %q", s)
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return spectrum.Window{}, fmt.Errorf("invalid low bound %q: %w", parts[0], err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return spectrum.Window{}, fmt.Errorf("invalid high bound %q: %w", parts[1], err)
	}
	w := spectrum.Window{Low: low, High: high}
	return w, w.Validate()
}

// writeCSV emits the processed arrays as wavelength,flux,ivar rows.
func writeCSV(f *os.File, s *spectrum.Spectrum) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"wavelength", "flux", "ivar"}); err != nil {
		return err
	}
	wl, fl, iv := s.Wavelength(), s.Flux(), s.Ivar()
	for i := range wl {
		row := []string{
			strconv.FormatFloat(wl[i], 'g', -1, 64),
			strconv.FormatFloat(fl[i], 'g', -1, 64),
			strconv.FormatFloat(iv[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
