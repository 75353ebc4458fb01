package matching

import (
	"fmt"
	"os"

	"github.com/oticahub/lens-engine/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// Weights are the relative importance of each factor. They need not sum to
// 100; scores are normalized by their total.
type Weights struct {
	FaceShape float64 `yaml:"face_shape"`
	Size      float64 `yaml:"size"`
	Bridge    float64 `yaml:"bridge"`
	Gender    float64 `yaml:"gender"`
	Material  float64 `yaml:"material"`
}

func (w Weights) total() float64 {
	return floats.Sum([]float64{w.FaceShape, w.Size, w.Bridge, w.Gender, w.Material})
}

// FaceShapeCredit is the credit given for each kind of shape match.
type FaceShapeCredit struct {
	Ideal         float64 `yaml:"ideal"`
	Complementary float64 `yaml:"complementary"`
	Neutral       float64 `yaml:"neutral"`
}

// SizeBands compare the boxing frame width (2 × lens + bridge) with the face
// width minus the end pieces and hinges that sit outside the boxing system.
type SizeBands struct {
	EndpieceAllowance float64 `yaml:"endpiece_allowance"`
	FullWithin        float64 `yaml:"full_within"`
	ZeroBeyond        float64 `yaml:"zero_beyond"`
}

// BridgeBands estimate the ideal bridge from face width and PD.
type BridgeBands struct {
	FaceWidthRatio float64 `yaml:"face_width_ratio"`
	PDRatio        float64 `yaml:"pd_ratio"`
	Min            float64 `yaml:"min"`
	Max            float64 `yaml:"max"`
	FullWithin     float64 `yaml:"full_within"`
	ZeroBeyond     float64 `yaml:"zero_beyond"`
}

type Policy struct {
	Weights   Weights         `yaml:"weights"`
	FaceShape FaceShapeCredit `yaml:"face_shape"`
	Size      SizeBands       `yaml:"size"`
	Bridge    BridgeBands     `yaml:"bridge"`

	// Credit for a preference the product does not declare.
	UnknownAttribute float64 `yaml:"unknown_attribute"`

	// Frame shapes that complement each face shape.
	Compatibility map[domain.FaceShape][]domain.FrameShape `yaml:"compatibility"`
}

// DefaultPolicy returns the scoring policy used in production. Face shape
// and size carry 70% of the weight.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			FaceShape: 40,
			Size:      30,
			Bridge:    15,
			Gender:    7.5,
			Material:  7.5,
		},
		FaceShape: FaceShapeCredit{
			Ideal:         1.0,
			Complementary: 0.6,
			Neutral:       0.3,
		},
		Size: SizeBands{
			EndpieceAllowance: 8,
			FullWithin:        4,
			ZeroBeyond:        15,
		},
		Bridge: BridgeBands{
			FaceWidthRatio: 0.135,
			PDRatio:        0.29,
			Min:            14,
			Max:            24,
			FullWithin:     2,
			ZeroBeyond:     6,
		},
		UnknownAttribute: 0.5,
		Compatibility: map[domain.FaceShape][]domain.FrameShape{
			domain.FaceOval:   {domain.FrameRectangular, domain.FrameSquare, domain.FrameAviator, domain.FrameGeometric, domain.FrameCatEye},
			domain.FaceRound:  {domain.FrameRectangular, domain.FrameSquare, domain.FrameGeometric, domain.FrameCatEye},
			domain.FaceSquare: {domain.FrameRound, domain.FrameOval, domain.FrameAviator, domain.FrameCatEye},
			domain.FaceHeart:  {domain.FrameOval, domain.FrameRound, domain.FrameAviator},
			domain.FaceOblong: {domain.FrameSquare, domain.FrameRound, domain.FrameGeometric},
		},
	}
}

// Validate checks the policy is internally consistent.
func (p Policy) Validate() error {
	w := p.Weights
	for name, v := range map[string]float64{
		"face_shape": w.FaceShape, "size": w.Size, "bridge": w.Bridge,
		"gender": w.Gender, "material": w.Material,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative (got %v)", name, v)
		}
	}
	total := w.total()
	if total <= 0 {
		return fmt.Errorf("weights must sum to more than zero")
	}
	if (w.FaceShape+w.Size)/total <= 0.6 {
		return fmt.Errorf("face_shape and size weights must exceed 60%% of the total (got %.1f%%)",
			(w.FaceShape+w.Size)/total*100)
	}
	c := p.FaceShape
	if !(c.Ideal > c.Complementary && c.Complementary >= c.Neutral && c.Neutral >= 0 && c.Ideal <= 1) {
		return fmt.Errorf("face shape credit must satisfy 1 >= ideal > complementary >= neutral >= 0")
	}
	if p.Size.FullWithin < 0 || p.Size.ZeroBeyond <= p.Size.FullWithin {
		return fmt.Errorf("size bands must satisfy 0 <= full_within < zero_beyond")
	}
	if p.Bridge.FullWithin < 0 || p.Bridge.ZeroBeyond <= p.Bridge.FullWithin {
		return fmt.Errorf("bridge bands must satisfy 0 <= full_within < zero_beyond")
	}
	if p.Bridge.Min > p.Bridge.Max {
		return fmt.Errorf("bridge min %.1f exceeds max %.1f", p.Bridge.Min, p.Bridge.Max)
	}
	if p.UnknownAttribute < 0 || p.UnknownAttribute > 1 {
		return fmt.Errorf("unknown_attribute must be within [0, 1]")
	}
	return nil
}

// LoadPolicy reads a YAML file over the default policy. Keys absent from the
// file keep their default values.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read scoring policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse scoring policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid scoring policy: %w", err)
	}
	return p, nil
}
