// Package matching ranks a store's frames against a customer's face.
//
// Each product is scored on weighted factors (face shape, size, bridge and
// the optional gender and material preferences). A factor the product or the
// customer cannot inform is skipped and contributes nothing, but its weight
// still counts toward the total, so incomplete catalog rows rank lower
// instead of failing.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/oticahub/lens-engine/internal/domain"
	"github.com/oticahub/lens-engine/internal/optics"
	"gonum.org/v1/gonum/floats"
)

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Match scores every product and returns them best first. Ties keep catalog
// order. The products slice and its elements are never modified.
func (e *Engine) Match(m domain.FacialMeasurements, prefs domain.CustomerPreferences, products []domain.Product) []domain.FrameRecommendation {
	recs := make([]domain.FrameRecommendation, 0, len(products))
	for _, p := range products {
		recs = append(recs, e.score(m, prefs, p))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

func (e *Engine) score(m domain.FacialMeasurements, prefs domain.CustomerPreferences, p domain.Product) domain.FrameRecommendation {
	var reasons []string
	var f domain.FactorScores

	if v, reason, ok := e.faceShapeFactor(m.FaceShape, p.Specs); ok {
		f.FaceShape = &v
		reasons = appendReason(reasons, reason)
	}
	if v, reason, ok := e.sizeFactor(m.FaceWidth, p.Specs); ok {
		f.Size = &v
		reasons = appendReason(reasons, reason)
	}
	if v, reason, ok := e.bridgeFactor(m, p.Specs); ok {
		f.Bridge = &v
		reasons = appendReason(reasons, reason)
	}

	g, reason := e.preferenceFactor(prefs.Gender, p.Specs.Gender, genderReason)
	f.Gender = &g
	reasons = appendReason(reasons, reason)

	mat, reason := e.preferenceFactor(prefs.Material, p.Specs.FrameMaterial, materialReason)
	f.Material = &mat
	reasons = appendReason(reasons, reason)

	if reasons == nil {
		reasons = []string{}
	}

	return domain.FrameRecommendation{
		ProductID:    p.ID,
		Name:         p.Name,
		Score:        optics.Round1(e.aggregate(f)),
		MatchReasons: reasons,
		Factors:      roundFactors(f),
	}
}

// aggregate is the weighted sum normalized to [0, 100].
func (e *Engine) aggregate(f domain.FactorScores) float64 {
	w := e.policy.Weights
	total := w.total()
	if total <= 0 {
		return 0
	}
	parts := []float64{
		weighted(w.FaceShape, f.FaceShape),
		weighted(w.Size, f.Size),
		weighted(w.Bridge, f.Bridge),
		weighted(w.Gender, f.Gender),
		weighted(w.Material, f.Material),
	}
	return floats.Sum(parts) / total * 100
}

func weighted(weight float64, v *float64) float64 {
	if v == nil {
		return 0
	}
	return weight * *v
}

func (e *Engine) faceShapeFactor(face domain.FaceShape, specs domain.FrameSpecs) (float64, string, bool) {
	face = domain.FaceShape(strings.ToLower(strings.TrimSpace(string(face))))
	if !face.Valid() {
		return 0, "", false
	}
	credit := e.policy.FaceShape

	for _, s := range specs.IdealFaceShapes {
		if strings.EqualFold(strings.TrimSpace(string(s)), string(face)) {
			return credit.Ideal, "Formato ideal para rosto " + face.Label(), true
		}
	}
	if specs.FrameShape != "" {
		for _, s := range e.policy.Compatibility[face] {
			if strings.EqualFold(string(s), string(specs.FrameShape)) {
				return credit.Complementary, "Formato complementar ao rosto " + face.Label(), true
			}
		}
	}
	return credit.Neutral, "", true
}

func (e *Engine) sizeFactor(faceWidth float64, specs domain.FrameSpecs) (float64, string, bool) {
	if faceWidth <= 0 || specs.LensWidth == nil || specs.BridgeWidth == nil {
		return 0, "", false
	}
	bands := e.policy.Size
	frameWidth := *specs.LensWidth*2 + *specs.BridgeWidth
	v := optics.Taper(frameWidth-(faceWidth-bands.EndpieceAllowance), bands.FullWithin, bands.ZeroBeyond)

	switch {
	case v >= 1:
		return v, "Tamanho compatível com a largura do rosto", true
	case v >= 0.5:
		return v, "Tamanho próximo ao ideal para o rosto", true
	default:
		return v, "", true
	}
}

func (e *Engine) bridgeFactor(m domain.FacialMeasurements, specs domain.FrameSpecs) (float64, string, bool) {
	if specs.BridgeWidth == nil {
		return 0, "", false
	}
	ideal, ok := e.idealBridge(m)
	if !ok {
		return 0, "", false
	}
	bands := e.policy.Bridge
	v := optics.Taper(*specs.BridgeWidth-ideal, bands.FullWithin, bands.ZeroBeyond)
	if v >= 0.75 {
		return v, "Ponte adequada ao nariz", true
	}
	return v, "", true
}

// idealBridge averages the bridge estimates derivable from the face width and
// the PD, clamped to the range of bridges actually manufactured.
func (e *Engine) idealBridge(m domain.FacialMeasurements) (float64, bool) {
	bands := e.policy.Bridge
	var estimates []float64
	if m.FaceWidth > 0 {
		estimates = append(estimates, m.FaceWidth*bands.FaceWidthRatio)
	}
	if m.PD > 0 {
		estimates = append(estimates, m.PD*bands.PDRatio)
	}
	if len(estimates) == 0 {
		return 0, false
	}
	ideal := floats.Sum(estimates) / float64(len(estimates))
	return min(max(ideal, bands.Min), bands.Max), true
}

const unisex = "unissex"

func genderReason(value string) string {
	return "Modelo " + strings.ToLower(value)
}

func materialReason(value string) string {
	return "Material preferido: " + strings.ToLower(value)
}

// preferenceFactor scores an optional filter. No preference is neutral and
// earns full credit so it never reorders products.
func (e *Engine) preferenceFactor(wanted, actual string, reason func(string) string) (float64, string) {
	wanted, actual = strings.TrimSpace(wanted), strings.TrimSpace(actual)
	switch {
	case wanted == "":
		return 1, ""
	case actual == "":
		return e.policy.UnknownAttribute, ""
	case strings.EqualFold(wanted, actual), strings.EqualFold(actual, unisex):
		return 1, reason(actual)
	default:
		return 0, ""
	}
}

func appendReason(reasons []string, reason string) []string {
	if reason == "" {
		return reasons
	}
	return append(reasons, reason)
}

func roundFactors(f domain.FactorScores) domain.FactorScores {
	round := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		r := math.Round(*v*100) / 100
		return &r
	}
	return domain.FactorScores{
		FaceShape: round(f.FaceShape),
		Size:      round(f.Size),
		Bridge:    round(f.Bridge),
		Gender:    round(f.Gender),
		Material:  round(f.Material),
	}
}

var defaultEngine = NewEngine(DefaultPolicy())

// MatchFramesToFace ranks products with the default policy and no customer
// preferences.
func MatchFramesToFace(m domain.FacialMeasurements, products []domain.Product) []domain.FrameRecommendation {
	return defaultEngine.Match(m, domain.CustomerPreferences{}, products)
}
