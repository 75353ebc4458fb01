package domain

type OpticalCenterOffset struct {
	Horizontal float64  `json:"horizontal"`
	Vertical   *float64 `json:"vertical,omitempty"`
}

type EyeCalibration struct {
	OpticalCenterOffset OpticalCenterOffset `json:"opticalCenterOffset"`
	NasalDecentration   float64             `json:"nasalDecentration"`
	FittingHeight       *float64            `json:"fittingHeight,omitempty"`
	HorizontalPower     float64             `json:"horizontalPower"`
	UnDecenteredPrism   float64             `json:"unDecenteredPrism"`
	MinimumBlankSize    float64             `json:"minimumBlankSize"`
}

type Feasibility struct {
	DecentrationWithinLimit bool  `json:"decentrationWithinLimit"`
	BlankSizeAvailable      bool  `json:"blankSizeAvailable"`
	FittingHeightValid      *bool `json:"fittingHeightValid,omitempty"`
}

type CalibrationResult struct {
	Success             bool            `json:"success"`
	Error               string          `json:"error,omitempty"`
	OD                  *EyeCalibration `json:"od,omitempty"`
	OS                  *EyeCalibration `json:"os,omitempty"`
	RecommendedLensType LensType        `json:"recommendedLensType,omitempty"`
	Feasibility         *Feasibility    `json:"feasibility,omitempty"`
	Warnings            []string        `json:"warnings"`
}
