package spectrum

// Config holds the externally configured wavelength intervals consumed by the
// pipeline. Values are treated as per-call immutable: stages that need a
// frame-adjusted interval work on a rescaled copy.
type Config struct {
	// IvarWindow is the continuum-dominated interval, in rest-frame
	// Angstroms, used to estimate the noise variance when the source table
	// carries no ivar column.
	IvarWindow Window
	// TrimWindow is the interval used by the optional Trim operation.
	TrimWindow Window
}

// DefaultConfig returns the stock window configuration: a line-free stretch
// of the optical continuum for noise estimation and the usable range of a
// typical optical spectrograph for trimming.
func DefaultConfig() Config {
	return Config{
		IvarWindow: Window{Low: 4150, High: 4250},
		TrimWindow: Window{Low: 3800, High: 9200},
	}
}
