// Package optics holds the geometric and ophthalmic helpers shared by the
// calibration and frame matching engines. All distances are millimeters and
// all powers diopters.
package optics

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// QuarterDiopter is the manufacturing step for sphere, cylinder and addition.
	QuarterDiopter = 0.25

	// EdgingAllowance is the material lost to the edger on the blank diameter.
	EdgingAllowance = 2.0

	gridEpsilon = 1e-6
)

// OnGrid reports whether v is a whole multiple of step.
func OnGrid(v, step float64) bool {
	if step <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	q := v / step
	return scalar.EqualWithinAbs(q, math.Round(q), gridEpsilon)
}

// InRange reports lo <= v <= hi. NaN is never in range.
func InRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func IsInteger(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}

// WithinTolerance reports |a-b| <= tol.
func WithinTolerance(a, b, tol float64) bool {
	return scalar.EqualWithinAbs(a, b, tol)
}

// NormalizeAxis folds an angle in degrees onto [0, 180). Cylinder axes are
// periodic with 180°, so 180 and 0 describe the same meridian.
func NormalizeAxis(deg float64) float64 {
	a := math.Mod(deg, 180)
	if a < 0 {
		a += 180
	}
	return a
}

// MeridianPower is the power of a sphero-cylinder along the given meridian:
// F = S + C·sin²(θ - axis).
func MeridianPower(sphere, cylinder, axis, meridian float64) float64 {
	theta := (NormalizeAxis(meridian) - NormalizeAxis(axis)) * math.Pi / 180
	s := math.Sin(theta)
	return sphere + cylinder*s*s
}

// HorizontalPower is the power acting along the 180° meridian, which is the
// one horizontal decentration moves along.
func HorizontalPower(sphere, cylinder, axis float64) float64 {
	return MeridianPower(sphere, cylinder, axis, 180)
}

// PrenticePrism returns the prism in prism diopters induced by a
// displacement of decentrationMM through a lens of the given power.
func PrenticePrism(power, decentrationMM float64) float64 {
	return math.Abs(power) * math.Abs(decentrationMM) / 10
}

// BoxingDiagonal approximates the effective diameter of a lens shape by the
// diagonal of its boxing rectangle.
func BoxingDiagonal(width, height float64) float64 {
	return math.Hypot(width, height)
}

// MinimumBlankSize is the smallest uncut lens diameter that still covers the
// frame shape once the optical center is moved by decentrationMM.
func MinimumBlankSize(effectiveDiameter, decentrationMM float64) float64 {
	return effectiveDiameter + 2*math.Abs(decentrationMM) + EdgingAllowance
}

// Taper maps a deviation onto [0, 1]: 1 while |diff| <= full, 0 once
// |diff| >= zero, linear in between.
func Taper(diff, full, zero float64) float64 {
	d := math.Abs(diff)
	switch {
	case d <= full:
		return 1
	case d >= zero || zero <= full:
		return 0
	default:
		return (zero - d) / (zero - full)
	}
}

// Round1 rounds to one decimal place for display.
func Round1(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
