package domain

type FaceShape string

const (
	FaceOval   FaceShape = "oval"
	FaceRound  FaceShape = "round"
	FaceSquare FaceShape = "square"
	FaceHeart  FaceShape = "heart"
	FaceOblong FaceShape = "oblong"
)

var faceShapeLabels = map[FaceShape]string{
	FaceOval:   "oval",
	FaceRound:  "redondo",
	FaceSquare: "quadrado",
	FaceHeart:  "coração",
	FaceOblong: "alongado",
}

func (s FaceShape) Valid() bool {
	_, ok := faceShapeLabels[s]
	return ok
}

// Label returns the Portuguese name shown to customers.
func (s FaceShape) Label() string {
	if l, ok := faceShapeLabels[s]; ok {
		return l
	}
	return string(s)
}

// FacialMeasurements are millimeter values produced by the photo analysis
// step. Zero in a required distance means "not measured"; the vertical
// fitting heights are explicitly optional.
type FacialMeasurements struct {
	PD        float64   `json:"pd"`
	DNPRight  float64   `json:"dnpRight"`
	DNPLeft   float64   `json:"dnpLeft"`
	FaceWidth float64   `json:"faceWidth,omitempty"`
	FaceShape FaceShape `json:"faceShape,omitempty"`

	// Pupil height above the lower rim of the frame box, per eye.
	FittingHeightRight *float64 `json:"fittingHeightRight,omitempty"`
	FittingHeightLeft  *float64 `json:"fittingHeightLeft,omitempty"`
}

// DNP returns the monocular pupillary distance for an eye.
func (m FacialMeasurements) DNP(eye Eye) float64 {
	if eye == EyeLeft {
		return m.DNPLeft
	}
	return m.DNPRight
}

// FittingHeight returns the measured fitting height for an eye, if any.
func (m FacialMeasurements) FittingHeight(eye Eye) *float64 {
	if eye == EyeLeft {
		return m.FittingHeightLeft
	}
	return m.FittingHeightRight
}

// CustomerPreferences narrow a recommendation. Empty fields mean no preference.
type CustomerPreferences struct {
	Gender   string `json:"gender,omitempty"`
	Material string `json:"material,omitempty"`
}
