package domain

import "time"

type FrameShape string

const (
	FrameRectangular FrameShape = "rectangular"
	FrameSquare      FrameShape = "square"
	FrameRound       FrameShape = "round"
	FrameOval        FrameShape = "oval"
	FrameCatEye      FrameShape = "cat_eye"
	FrameAviator     FrameShape = "aviator"
	FrameGeometric   FrameShape = "geometric"
)

// FrameSpecs describes frame geometry in the boxing system. Dimensions are
// optional because catalog rows are frequently incomplete.
type FrameSpecs struct {
	LensWidth       *float64    `json:"lensWidth,omitempty"`
	LensHeight      *float64    `json:"lensHeight,omitempty"`
	BridgeWidth     *float64    `json:"bridgeWidth,omitempty"`
	TempleLength    *float64    `json:"templeLength,omitempty"`
	FrameShape      FrameShape  `json:"frameShape,omitempty"`
	FrameMaterial   string      `json:"frameMaterial,omitempty"`
	Gender          string      `json:"gender,omitempty"`
	IdealFaceShapes []FaceShape `json:"idealFaceShapes,omitempty"`
}

// Product is a catalog row already mapped to typed frame specs.
type Product struct {
	ID        string     `json:"id"`
	StoreID   string     `json:"storeId"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Price     float64    `json:"price"`
	Specs     FrameSpecs `json:"specs"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}
