// Package calibration turns a prescription, facial measurements and frame
// geometry into per-eye lens centering parameters.
//
// The engine is pure: it never performs I/O and never mutates its input, so
// a single Engine can be shared by any number of goroutines.
package calibration

import (
	"fmt"
	"math"

	"github.com/oticahub/lens-engine/internal/domain"
	"github.com/oticahub/lens-engine/internal/optics"
)

// Input groups everything a calibration needs.
type Input struct {
	Prescription   domain.Prescription       `json:"prescription"`
	Face           domain.FacialMeasurements `json:"face"`
	Frame          domain.FrameSpecs         `json:"frame"`
	LensPreference domain.LensType           `json:"lensPreference,omitempty"`
}

type Engine struct {
	thresholds Thresholds
}

func NewEngine() *Engine {
	return &Engine{thresholds: DefaultThresholds()}
}

func NewEngineWithThresholds(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// eyeGeometry is the unrounded per-eye computation.
type eyeGeometry struct {
	nasal           float64
	vertical        *float64
	fittingHeight   *float64
	horizontalPower float64
	prism           float64
	blank           float64
}

// Calculate validates the input and, if it is well formed, computes the
// calibration. Risky but valid input yields warnings, never a failure.
func (e *Engine) Calculate(in Input) domain.CalibrationResult {
	if verr := validate(in); verr != nil {
		return domain.CalibrationResult{
			Success:  false,
			Error:    verr.Message,
			Warnings: []string{},
		}
	}

	lensType := inferLensType(in.Prescription, in.LensPreference)
	needsHeight := lensType != domain.LensMonofocal

	var warnings []string

	if !optics.WithinTolerance(in.Face.PD, in.Face.DNPRight+in.Face.DNPLeft, e.thresholds.PDTolerance) {
		warnings = append(warnings, fmt.Sprintf(
			"A soma das DNPs (%.1f mm) difere da DP (%.1f mm) em mais de %.1f mm; as medidas faciais podem estar imprecisas. A descentração usa as DNPs monoculares.",
			in.Face.DNPRight+in.Face.DNPLeft, in.Face.PD, e.thresholds.PDTolerance))
	}

	if in.LensPreference != "" && in.Prescription.Addition == nil {
		warnings = append(warnings, "Preferência por lente multifocal ignorada: a receita não possui adição.")
	}

	feas := domain.Feasibility{DecentrationWithinLimit: true, BlankSizeAvailable: true}
	eyes := map[domain.Eye]*domain.EyeCalibration{}

	for _, eye := range []domain.Eye{domain.EyeRight, domain.EyeLeft} {
		rx := in.Prescription.OD
		if eye == domain.EyeLeft {
			rx = in.Prescription.OS
		}
		g := e.computeEye(eye, rx, in.Face, in.Frame)

		if math.Abs(g.nasal) > e.thresholds.MaxDecentration {
			feas.DecentrationWithinLimit = false
			warnings = append(warnings, fmt.Sprintf(
				"Descentração de %.1f mm no %s excede o limite de %.1f mm; aumenta espessura e prisma e pode exigir bloco maior ou lente especial.",
				math.Abs(g.nasal), eye.Label(), e.thresholds.MaxDecentration))
		}

		if g.blank > e.thresholds.MaxBlankDiameter {
			feas.BlankSizeAvailable = false
			warnings = append(warnings, fmt.Sprintf(
				"Armação pequena para a descentração calculada no %s: diâmetro mínimo de bloco %.1f mm, acima do maior bloco disponível (%.0f mm).",
				eye.Label(), g.blank, e.thresholds.MaxBlankDiameter))
		}

		if math.Abs(rx.Sphere) > e.thresholds.HighSphere || math.Abs(rx.Cylinder) > e.thresholds.HighCylinder {
			warnings = append(warnings, fmt.Sprintf(
				"Prescrição de alta complexidade no %s (esférico %+.2f, cilíndrico %+.2f): mais sensível a erros de descentração; recomenda-se material de alto índice.",
				eye.Label(), rx.Sphere, rx.Cylinder))
		}

		if g.fittingHeight != nil {
			ok := e.fittingHeightUsable(*g.fittingHeight, *in.Frame.LensHeight, needsHeight)
			if feas.FittingHeightValid == nil {
				feas.FittingHeightValid = &ok
			} else if !ok {
				*feas.FittingHeightValid = false
			}
			if !ok {
				warnings = append(warnings, e.fittingHeightWarning(eye, *g.fittingHeight, *in.Frame.LensHeight, needsHeight))
			}
		} else if needsHeight {
			warnings = append(warnings, fmt.Sprintf(
				"Altura de montagem do %s não informada; a medida é obrigatória para lente %s.",
				eye.Label(), lensType))
		}

		eyes[eye] = g.round(eye)
	}

	if warnings == nil {
		warnings = []string{}
	}

	return domain.CalibrationResult{
		Success:             true,
		OD:                  eyes[domain.EyeRight],
		OS:                  eyes[domain.EyeLeft],
		RecommendedLensType: lensType,
		Feasibility:         &feas,
		Warnings:            warnings,
	}
}

func (e *Engine) computeEye(eye domain.Eye, rx domain.EyePrescription, face domain.FacialMeasurements, frame domain.FrameSpecs) eyeGeometry {
	lensWidth, lensHeight, bridge := *frame.LensWidth, *frame.LensHeight, *frame.BridgeWidth

	// Distance from the frame midline to this lens' geometric center.
	frameHalfWidth := lensWidth/2 + bridge/2
	g := eyeGeometry{nasal: frameHalfWidth - face.DNP(eye)}

	if h := face.FittingHeight(eye); h != nil {
		v := *h - lensHeight/2
		fh := *h
		g.vertical = &v
		g.fittingHeight = &fh
	}

	g.horizontalPower = optics.HorizontalPower(rx.Sphere, rx.Cylinder, rx.Axis)
	g.prism = optics.PrenticePrism(g.horizontalPower, g.nasal)

	displacement := math.Abs(g.nasal)
	if g.vertical != nil {
		displacement = math.Hypot(g.nasal, *g.vertical)
	}
	ed := optics.BoxingDiagonal(lensWidth, lensHeight)
	if f := e.thresholds.EffectiveDiameterFactor; f > 0 {
		ed *= f
	}
	g.blank = optics.MinimumBlankSize(ed, displacement)
	return g
}

func (e *Engine) fittingHeightUsable(height, lensHeight float64, multifocal bool) bool {
	if height < e.thresholds.MinFittingMargin || height > lensHeight-e.thresholds.MinFittingMargin {
		return false
	}
	if multifocal && height < e.thresholds.MinProgressiveFittingHeight {
		return false
	}
	return true
}

func (e *Engine) fittingHeightWarning(eye domain.Eye, height, lensHeight float64, multifocal bool) string {
	if multifocal && height >= e.thresholds.MinFittingMargin && height <= lensHeight-e.thresholds.MinFittingMargin {
		return fmt.Sprintf(
			"Altura de montagem de %.1f mm no %s é menor que o mínimo de %.1f mm para o corredor da lente multifocal.",
			height, eye.Label(), e.thresholds.MinProgressiveFittingHeight)
	}
	return fmt.Sprintf(
		"Pupila do %s fora da área útil da lente (altura %.1f mm em aro de %.1f mm); risco de aberração fora do eixo óptico.",
		eye.Label(), height, lensHeight)
}

// round converts the raw geometry into display values. Horizontal offsets
// are on the frame x axis, positive toward the wearer's left, so nasal
// decentration is positive for OD and negative for OS.
func (g eyeGeometry) round(eye domain.Eye) *domain.EyeCalibration {
	horizontal := g.nasal
	if eye == domain.EyeLeft {
		horizontal = -g.nasal
	}
	out := &domain.EyeCalibration{
		OpticalCenterOffset: domain.OpticalCenterOffset{Horizontal: optics.Round1(horizontal)},
		NasalDecentration:   optics.Round1(g.nasal),
		HorizontalPower:     optics.Round1(g.horizontalPower),
		UnDecenteredPrism:   optics.Round1(g.prism),
		MinimumBlankSize:    optics.Round1(g.blank),
	}
	if g.vertical != nil {
		v := optics.Round1(*g.vertical)
		out.OpticalCenterOffset.Vertical = &v
	}
	if g.fittingHeight != nil {
		fh := optics.Round1(*g.fittingHeight)
		out.FittingHeight = &fh
	}
	return out
}

func inferLensType(rx domain.Prescription, pref domain.LensType) domain.LensType {
	if rx.Addition == nil {
		return domain.LensMonofocal
	}
	if pref == domain.LensBifocal {
		return domain.LensBifocal
	}
	return domain.LensProgressive
}

var defaultEngine = NewEngine()

// Calculate runs the default engine.
func Calculate(in Input) domain.CalibrationResult {
	return defaultEngine.Calculate(in)
}
