package domain

// EyePrescription is the refractive correction for one eye, in the
// negative-cylinder convention.
type EyePrescription struct {
	Sphere   float64 `json:"sphere"`
	Cylinder float64 `json:"cylinder"`
	Axis     float64 `json:"axis"`
}

// Prescription holds both eyes plus the near addition shared by them.
type Prescription struct {
	OD       EyePrescription `json:"od"`
	OS       EyePrescription `json:"os"`
	Addition *float64        `json:"addition,omitempty"`
}

type Eye string

const (
	EyeRight Eye = "od"
	EyeLeft  Eye = "os"
)

// Label is the localized name used in validation messages and warnings.
func (e Eye) Label() string {
	if e == EyeLeft {
		return "olho esquerdo (OE)"
	}
	return "olho direito (OD)"
}

type LensType string

const (
	LensMonofocal   LensType = "monofocal"
	LensBifocal     LensType = "bifocal"
	LensProgressive LensType = "progressiva"
)
