package spectrum

// Options configures the construction of a Spectrum. Optional fields are
// pointer-typed so that "absent" is distinguishable from a zero value; the
// Get* accessors supply the defaults. Redshift is the only required field.
type Options struct {
	// Redshift is the source's cosmological redshift. Required.
	Redshift *float64
	// AvExtinction is the line-of-sight extinction magnitude A_V. When
	// absent the extinction-correction stage is skipped entirely.
	AvExtinction *float64
	// LinearizeWavelength gates the log10-to-linear wavelength stage.
	// Default true.
	LinearizeWavelength *bool
	// ToRestFrame gates the observed-to-rest-frame transform. Default
	// true. When false, the ivar estimation window is rescaled into the
	// observed frame instead.
	ToRestFrame *bool
	// SkipRows is the number of header rows to skip in delimited files.
	// Default 2.
	SkipRows *int
	// Separator is the field delimiter for delimited files. Default tab.
	Separator *string
	// Config supplies the wavelength windows. Default DefaultConfig().
	Config *Config
}

// Helper functions to create pointers
func Float64(v float64) *float64 { return &v }
func Bool(v bool) *bool          { return &v }
func Int(v int) *int             { return &v }
func String(v string) *string    { return &v }

// GetLinearizeWavelength returns the linearize flag or its default.
func (o Options) GetLinearizeWavelength() bool {
	if o.LinearizeWavelength == nil {
		return true
	}
	return *o.LinearizeWavelength
}

// GetToRestFrame returns the rest-frame flag or its default.
func (o Options) GetToRestFrame() bool {
	if o.ToRestFrame == nil {
		return true
	}
	return *o.ToRestFrame
}

// GetSkipRows returns the header-row count or its default.
func (o Options) GetSkipRows() int {
	if o.SkipRows == nil {
		return 2
	}
	return *o.SkipRows
}

// GetSeparator returns the field delimiter or its default.
func (o Options) GetSeparator() string {
	if o.Separator == nil {
		return "\t"
	}
	return *o.Separator
}

// GetConfig returns a copy of the window configuration or the defaults.
func (o Options) GetConfig() Config {
	if o.Config == nil {
		return DefaultConfig()
	}
	return *o.Config
}
