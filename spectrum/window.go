package spectrum

import "fmt"

// Window is a closed wavelength interval in Angstroms.
type Window struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether w lies inside the window, bounds inclusive.
func (win Window) Contains(w float64) bool {
	return w >= win.Low && w <= win.High
}

// Rescale returns a copy of the window stretched into the observed frame for
// redshift z. The receiver is left untouched: windows are configured in
// rest-frame units and shared configuration must never be mutated in place.
func (win Window) Rescale(z float64) Window {
	return Window{Low: win.Low * (1 + z), High: win.High * (1 + z)}
}

// Validate checks that the interval is non-empty.
func (win Window) Validate() error {
	if win.Low >= win.High {
		return fmt.Errorf("window low %g must be below high %g", win.Low, win.High)
	}
	return nil
}

func (win Window) String() string {
	return fmt.Sprintf("[%g, %g]", win.Low, win.High)
}
