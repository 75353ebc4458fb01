package calibration

// Prescription limits accepted by the engine.
const (
	MinSphere   = -20.0
	MaxSphere   = 20.0
	MinCylinder = -10.0
	MaxCylinder = 0.0
	MinAxis     = 0.0
	MaxAxis     = 180.0
	MinAddition = 0.5
	MaxAddition = 4.0
)

// Thresholds are the safety bounds that turn a valid input into a warning.
type Thresholds struct {
	// Largest nasal/temporal decentration an edger handles on a stock blank.
	MaxDecentration float64

	// Above these absolute powers a prescription is sensitive to
	// decentration error and usually needs a high-index material.
	HighSphere   float64
	HighCylinder float64

	// Allowed gap between binocular PD and the sum of the monocular DNPs.
	PDTolerance float64

	// Largest uncut blank diameter commonly stocked by surfacing labs.
	MaxBlankDiameter float64

	// Fraction of the boxing diagonal taken as the effective diameter of
	// the lens shape. 1 treats every shape as its full boxing rectangle;
	// labs that know their shapes are rounder can lower it. Zero means 1.
	EffectiveDiameterFactor float64

	// Pupil must sit at least this far inside the lens box vertically.
	MinFittingMargin float64

	// Shortest fitting height that still fits a progressive corridor.
	MinProgressiveFittingHeight float64
}

// DefaultThresholds returns conservative values used by most labs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxDecentration:             5.0,
		HighSphere:                  6.0,
		HighCylinder:                4.0,
		PDTolerance:                 2.0,
		MaxBlankDiameter:            75.0,
		EffectiveDiameterFactor:     1.0,
		MinFittingMargin:            4.0,
		MinProgressiveFittingHeight: 14.0,
	}
}
