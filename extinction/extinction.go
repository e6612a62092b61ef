// Package extinction evaluates the Fitzpatrick (1999) interstellar
// reddening law and applies or removes its effect on flux arrays.
//
// Wavelengths are in Angstroms, extinction values in magnitudes. The law is
// parameterized by the total extinction A_V and the ratio of total to
// selective extinction R_V (3.1 for the diffuse Milky Way ISM).
package extinction

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

// Optical/IR anchor abscissas of the F99 law in inverse microns. The last two
// sit in the near UV so the spline joins the UV parametrization smoothly.
var anchorX = []float64{
	0.0,
	1e4 / 26500.0,
	1e4 / 12200.0,
	1e4 / 6000.0,
	1e4 / 5470.0,
	1e4 / 4670.0,
	1e4 / 4110.0,
	1e4 / 2700.0,
	1e4 / 2600.0,
}

// uvSplit is the inverse-micron abscissa above which the analytic UV
// parametrization replaces the spline (wavelengths shortward of 2700 A).
var uvSplit = 1e4 / 2700.0

// Fitzpatrick99 returns the extinction A(lambda) in magnitudes at each
// wavelength (Angstroms) for total extinction av and reddening ratio rv.
func Fitzpatrick99(wavelength []float64, av, rv float64) []float64 {
	spline := opticalSpline(rv)
	out := make([]float64, len(wavelength))
	for i, w := range wavelength {
		x := 1e4 / w
		if x >= uvSplit {
			out[i] = av / rv * (uvKnot(x, rv) + rv)
		} else {
			out[i] = av / rv * spline.Predict(x)
		}
	}
	return out
}

// opticalSpline fits the natural cubic spline through the rv-dependent F99
// anchor ordinates, expressed as A(lambda)/E(B-V).
func opticalSpline(rv float64) *interp.NaturalCubic {
	y := []float64{
		0.0,
		0.26469 * rv / 3.1,
		0.82925 * rv / 3.1,
		-0.422809 + 1.00270*rv + 2.13572e-04*rv*rv,
		-5.13540e-02 + 1.00216*rv - 7.35778e-05*rv*rv,
		0.700127 + 1.00184*rv - 3.32598e-05*rv*rv,
		1.19456 + 1.01707*rv - 5.46959e-03*rv*rv + 7.97809e-04*rv*rv*rv - 4.45636e-05*rv*rv*rv*rv,
		uvKnot(anchorX[7], rv) + rv,
		uvKnot(anchorX[8], rv) + rv,
	}
	var nc interp.NaturalCubic
	// anchorX is strictly increasing and len(x) == len(y), so Fit cannot fail.
	if err := nc.Fit(anchorX, y); err != nil {
		panic(err)
	}
	return &nc
}

// uvKnot evaluates the Fitzpatrick & Massa UV curve E(lambda-V)/E(B-V) at
// inverse-micron abscissa x.
func uvKnot(x, rv float64) float64 {
	const (
		x0    = 4.596
		gamma = 0.99
		c3    = 3.23
		c4    = 0.41
		c5    = 5.9
	)
	c2 := -0.824 + 4.717/rv
	c1 := 2.030 - 3.007*c2

	x2 := x * x
	d := x2 / ((x2-x0*x0)*(x2-x0*x0) + x2*gamma*gamma)
	k := c1 + c2*x + c3*d
	if x > c5 {
		y := x - c5
		k += c4 * (0.5392*y*y + 0.05644*y*y*y)
	}
	return k
}

// Remove de-reddens flux by the extinction curve a, returning a new slice.
// It inverts Apply.
func Remove(a, flux []float64) []float64 {
	out := make([]float64, len(flux))
	for i := range flux {
		out[i] = flux[i] * math.Pow(10, 0.4*a[i])
	}
	return out
}

// Apply reddens flux by the extinction curve a, returning a new slice.
func Apply(a, flux []float64) []float64 {
	out := make([]float64, len(flux))
	for i := range flux {
		out[i] = flux[i] * math.Pow(10, -0.4*a[i])
	}
	return out
}
