package matching

import (
	"reflect"
	"strings"
	"testing"

	"github.com/oticahub/lens-engine/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func ovalFace() domain.FacialMeasurements {
	return domain.FacialMeasurements{PD: 62, DNPRight: 31, DNPLeft: 31, FaceWidth: 138, FaceShape: domain.FaceOval}
}

func frame(id string, ideal ...domain.FaceShape) domain.Product {
	return domain.Product{
		ID:   id,
		Name: "Armação " + id,
		Specs: domain.FrameSpecs{
			LensWidth:       ptr(53),
			LensHeight:      ptr(40),
			BridgeWidth:     ptr(18),
			FrameShape:      domain.FrameRound,
			IdealFaceShapes: ideal,
		},
	}
}

func TestMatchEmptyCatalog(t *testing.T) {
	recs := MatchFramesToFace(ovalFace(), nil)
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", recs)
	}

	recs = MatchFramesToFace(ovalFace(), []domain.Product{})
	if len(recs) != 0 {
		t.Errorf("expected no recommendations, got %d", len(recs))
	}
}

func TestMatchIdealShapeRanksFirst(t *testing.T) {
	products := []domain.Product{
		frame("round-declared", domain.FaceRound),
		frame("oval-declared", domain.FaceOval),
	}

	recs := MatchFramesToFace(ovalFace(), products)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ProductID != "oval-declared" {
		t.Errorf("expected oval-declared first, got %s", recs[0].ProductID)
	}
	if recs[0].Score <= recs[1].Score {
		t.Errorf("ideal shape should score strictly higher: %.1f vs %.1f", recs[0].Score, recs[1].Score)
	}
	if !containsReason(recs[0].MatchReasons, "Formato ideal para rosto oval") {
		t.Errorf("expected ideal shape reason, got %v", recs[0].MatchReasons)
	}
}

func TestMatchIdealBeatsComplementaryAndNeutral(t *testing.T) {
	ideal := frame("ideal", domain.FaceOval)
	complementary := frame("complementary")
	complementary.Specs.FrameShape = domain.FrameAviator
	neutral := frame("neutral")

	recs := MatchFramesToFace(ovalFace(), []domain.Product{neutral, complementary, ideal})

	got := []string{recs[0].ProductID, recs[1].ProductID, recs[2].ProductID}
	want := []string{"ideal", "complementary", "neutral"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
	if !containsReason(recs[1].MatchReasons, "Formato complementar ao rosto oval") {
		t.Errorf("expected complementary reason, got %v", recs[1].MatchReasons)
	}
	if *recs[2].Factors.FaceShape == 0 {
		t.Error("neutral shape should still earn baseline credit")
	}
}

func TestMatchStableTies(t *testing.T) {
	products := []domain.Product{frame("a"), frame("b"), frame("c"), frame("d")}

	recs := MatchFramesToFace(ovalFace(), products)
	for i, r := range recs {
		if r.ProductID != products[i].ID {
			t.Fatalf("tied products should keep catalog order, got %s at %d", r.ProductID, i)
		}
	}
}

func TestMatchSortedDescending(t *testing.T) {
	wide := frame("wide")
	wide.Specs.LensWidth = ptr(62)
	narrow := frame("narrow")
	narrow.Specs.LensWidth = ptr(44)
	incomplete := domain.Product{ID: "incomplete"}

	recs := MatchFramesToFace(ovalFace(), []domain.Product{incomplete, narrow, frame("ideal", domain.FaceOval), wide})
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Score < recs[i].Score {
			t.Fatalf("not sorted at %d: %.1f < %.1f", i, recs[i-1].Score, recs[i].Score)
		}
	}
	if recs[0].ProductID != "ideal" {
		t.Errorf("expected ideal first, got %s", recs[0].ProductID)
	}
}

func TestMatchSizeFit(t *testing.T) {
	// 2*53 + 18 = 124 against 138 - 8 = 130: 6mm off, inside the taper.
	recs := MatchFramesToFace(ovalFace(), []domain.Product{frame("x")})
	size := *recs[0].Factors.Size
	if size <= 0 || size >= 1 {
		t.Errorf("expected partial size credit, got %.2f", size)
	}

	exact := frame("exact")
	exact.Specs.LensWidth = ptr(56) // 130
	recs = MatchFramesToFace(ovalFace(), []domain.Product{exact})
	if *recs[0].Factors.Size != 1 {
		t.Errorf("expected full size credit, got %.2f", *recs[0].Factors.Size)
	}
	if !containsReason(recs[0].MatchReasons, "Tamanho compatível") {
		t.Errorf("expected size reason, got %v", recs[0].MatchReasons)
	}

	huge := frame("huge")
	huge.Specs.LensWidth = ptr(70) // 158, 28mm too wide
	recs = MatchFramesToFace(ovalFace(), []domain.Product{huge})
	if *recs[0].Factors.Size != 0 {
		t.Errorf("expected zero size credit, got %.2f", *recs[0].Factors.Size)
	}
}

func TestMatchMissingSpecsStillScored(t *testing.T) {
	incomplete := domain.Product{ID: "p1", Specs: domain.FrameSpecs{FrameShape: domain.FrameSquare}}

	recs := MatchFramesToFace(ovalFace(), []domain.Product{incomplete})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Factors.Size != nil || recs[0].Factors.Bridge != nil {
		t.Errorf("missing dimensions should skip size and bridge, got %+v", recs[0].Factors)
	}
	if recs[0].Score <= 0 || recs[0].Score >= 100 {
		t.Errorf("expected a reduced but positive score, got %.1f", recs[0].Score)
	}
}

func TestMatchUnknownMeasurementsSkipFactors(t *testing.T) {
	m := domain.FacialMeasurements{}
	recs := MatchFramesToFace(m, []domain.Product{frame("x", domain.FaceOval)})

	f := recs[0].Factors
	if f.FaceShape != nil || f.Size != nil || f.Bridge != nil {
		t.Errorf("unknown measurements should skip factors, got %+v", f)
	}
}

func TestMatchPreferences(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	female := frame("female")
	female.Specs.Gender = "feminino"
	female.Specs.FrameMaterial = "acetato"
	male := frame("male")
	male.Specs.Gender = "masculino"
	male.Specs.FrameMaterial = "metal"
	unisexFrame := frame("unisex")
	unisexFrame.Specs.Gender = "Unissex"

	prefs := domain.CustomerPreferences{Gender: "feminino", Material: "Acetato"}
	recs := engine.Match(ovalFace(), prefs, []domain.Product{male, unisexFrame, female})

	if recs[0].ProductID != "female" {
		t.Errorf("expected female first, got %s", recs[0].ProductID)
	}
	if recs[2].ProductID != "male" {
		t.Errorf("expected male last, got %s", recs[2].ProductID)
	}
	if !containsReason(recs[0].MatchReasons, "Modelo feminino") || !containsReason(recs[0].MatchReasons, "Material preferido: acetato") {
		t.Errorf("expected preference reasons, got %v", recs[0].MatchReasons)
	}
	if !containsReason(recs[1].MatchReasons, "Modelo unissex") {
		t.Errorf("expected unisex reason, got %v", recs[1].MatchReasons)
	}
}

func TestMatchNoPreferencesIsNeutral(t *testing.T) {
	a := frame("a")
	a.Specs.Gender = "masculino"
	b := frame("b")
	b.Specs.FrameMaterial = "titânio"

	recs := MatchFramesToFace(ovalFace(), []domain.Product{a, b})
	if recs[0].Score != recs[1].Score {
		t.Errorf("absent preferences must not change scores: %.1f vs %.1f", recs[0].Score, recs[1].Score)
	}
}

func TestMatchDoesNotMutateCatalog(t *testing.T) {
	products := []domain.Product{frame("a", domain.FaceRound), frame("b", domain.FaceOval)}
	snapshot := make([]domain.Product, len(products))
	copy(snapshot, products)

	MatchFramesToFace(ovalFace(), products)

	if !reflect.DeepEqual(products, snapshot) {
		t.Error("catalog was mutated")
	}
	if products[0].ID != "a" {
		t.Error("catalog order was changed")
	}
}

func TestMatchScoreBounds(t *testing.T) {
	perfect := frame("perfect", domain.FaceOval)
	perfect.Specs.LensWidth = ptr(56)

	recs := MatchFramesToFace(ovalFace(), []domain.Product{perfect, {ID: "empty"}})
	for _, r := range recs {
		if r.Score < 0 || r.Score > 100 {
			t.Errorf("%s: score %.1f out of bounds", r.ProductID, r.Score)
		}
	}
	if recs[0].Score != 100 {
		t.Errorf("expected a perfect match to score 100, got %.1f", recs[0].Score)
	}
}

func containsReason(reasons []string, fragment string) bool {
	for _, r := range reasons {
		if strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}
