package calibration

import (
	"fmt"

	"github.com/oticahub/lens-engine/internal/domain"
	"github.com/oticahub/lens-engine/internal/optics"
)

func validate(in Input) *domain.ValidationError {
	if err := ValidatePatient(in); err != nil {
		return err
	}
	return validateFrame(in.Frame)
}

// ValidatePatient checks everything except the frame, so one prescription
// can be validated once before it is calibrated against many frames.
func ValidatePatient(in Input) *domain.ValidationError {
	if err := validateEye(domain.EyeRight, in.Prescription.OD); err != nil {
		return err
	}
	if err := validateEye(domain.EyeLeft, in.Prescription.OS); err != nil {
		return err
	}
	if add := in.Prescription.Addition; add != nil {
		if !optics.InRange(*add, MinAddition, MaxAddition) || !optics.OnGrid(*add, optics.QuarterDiopter) {
			return domain.NewValidationError("prescription.addition",
				"Adição deve estar entre +0.50 e +4.00, em passos de 0.25")
		}
	}
	if err := validateFace(in.Face); err != nil {
		return err
	}
	switch in.LensPreference {
	case "", domain.LensBifocal, domain.LensProgressive:
	default:
		return domain.NewValidationError("lensPreference",
			"Preferência de lente inválida; use bifocal ou progressiva")
	}
	return nil
}

func validateEye(eye domain.Eye, rx domain.EyePrescription) *domain.ValidationError {
	field := "prescription." + string(eye)

	if !optics.InRange(rx.Sphere, MinSphere, MaxSphere) {
		return domain.NewValidationError(field+".sphere",
			fmt.Sprintf("Esférico do %s deve estar entre -20.00 e +20.00", eye.Label()))
	}
	if !optics.OnGrid(rx.Sphere, optics.QuarterDiopter) {
		return domain.NewValidationError(field+".sphere",
			fmt.Sprintf("Esférico do %s deve variar em passos de 0.25", eye.Label()))
	}
	if !optics.InRange(rx.Cylinder, MinCylinder, MaxCylinder) {
		return domain.NewValidationError(field+".cylinder",
			fmt.Sprintf("Cilíndrico do %s deve estar entre -10.00 e 0.00", eye.Label()))
	}
	if !optics.OnGrid(rx.Cylinder, optics.QuarterDiopter) {
		return domain.NewValidationError(field+".cylinder",
			fmt.Sprintf("Cilíndrico do %s deve variar em passos de 0.25", eye.Label()))
	}
	if !optics.IsInteger(rx.Axis) || !optics.InRange(rx.Axis, MinAxis, MaxAxis) {
		return domain.NewValidationError(field+".axis",
			fmt.Sprintf("Eixo do %s deve ser um número inteiro entre 0 e 180", eye.Label()))
	}
	return nil
}

func validateFace(face domain.FacialMeasurements) *domain.ValidationError {
	if !positive(face.PD) {
		return domain.NewValidationError("face.pd",
			"Distância pupilar (DP) deve ser maior que zero")
	}
	for _, eye := range []domain.Eye{domain.EyeRight, domain.EyeLeft} {
		if !positive(face.DNP(eye)) {
			return domain.NewValidationError("face.dnp."+string(eye),
				fmt.Sprintf("DNP do %s deve ser maior que zero", eye.Label()))
		}
		if h := face.FittingHeight(eye); h != nil && !positive(*h) {
			return domain.NewValidationError("face.fittingHeight."+string(eye),
				fmt.Sprintf("Altura de montagem do %s deve ser maior que zero", eye.Label()))
		}
	}
	return nil
}

func validateFrame(frame domain.FrameSpecs) *domain.ValidationError {
	checks := []struct {
		field string
		value *float64
		label string
	}{
		{"frame.lensWidth", frame.LensWidth, "Largura da lente (aro)"},
		{"frame.lensHeight", frame.LensHeight, "Altura da lente"},
		{"frame.bridgeWidth", frame.BridgeWidth, "Largura da ponte"},
	}
	for _, c := range checks {
		if c.value == nil || !positive(*c.value) {
			return domain.NewValidationError(c.field, c.label+" da armação deve ser informada e maior que zero")
		}
	}
	return nil
}

func positive(v float64) bool {
	return optics.InRange(v, 0, 1e6) && v > 0
}
