package repository

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/oticahub/lens-engine/internal/domain"
)

func TestFrameSpecsFromBlob(t *testing.T) {
	blob := map[string]any{
		"lensWidth":       52.0,
		"lens_height":     "38 mm",
		"ponte":           "17,5",
		"haste":           json.Number("145"),
		"formato":         "Retangular",
		"material":        "Acetato",
		"genero":          "Feminino",
		"idealFaceShapes": []any{"oval", "Redondo", "triangle", 42},
	}

	specs := FrameSpecsFromBlob(blob)

	if specs.LensWidth == nil || *specs.LensWidth != 52 {
		t.Errorf("lens width: got %v", specs.LensWidth)
	}
	if specs.LensHeight == nil || *specs.LensHeight != 38 {
		t.Errorf("lens height: got %v", specs.LensHeight)
	}
	if specs.BridgeWidth == nil || *specs.BridgeWidth != 17.5 {
		t.Errorf("bridge: got %v", specs.BridgeWidth)
	}
	if specs.TempleLength == nil || *specs.TempleLength != 145 {
		t.Errorf("temple: got %v", specs.TempleLength)
	}
	if specs.FrameShape != domain.FrameRectangular {
		t.Errorf("frame shape: got %q", specs.FrameShape)
	}
	if specs.FrameMaterial != "Acetato" {
		t.Errorf("material: got %q", specs.FrameMaterial)
	}
	if specs.Gender != "feminino" {
		t.Errorf("gender: got %q", specs.Gender)
	}
	want := []domain.FaceShape{domain.FaceOval, domain.FaceRound}
	if !reflect.DeepEqual(specs.IdealFaceShapes, want) {
		t.Errorf("ideal shapes: got %v, want %v", specs.IdealFaceShapes, want)
	}
}

func TestFrameSpecsFromBlobMissingAndInvalid(t *testing.T) {
	specs := FrameSpecsFromBlob(map[string]any{
		"lens_width":   "wide",
		"bridge_width": 0.0,
		"lensHeight":   -3.0,
		"frameShape":   "blob",
	})

	if specs.LensWidth != nil || specs.BridgeWidth != nil || specs.LensHeight != nil {
		t.Errorf("invalid dimensions should be unset, got %+v", specs)
	}
	if specs.FrameShape != "" {
		t.Errorf("unknown frame shape should be unset, got %q", specs.FrameShape)
	}

	if empty := FrameSpecsFromBlob(nil); !reflect.DeepEqual(empty, domain.FrameSpecs{}) {
		t.Errorf("nil blob should map to empty specs, got %+v", empty)
	}
}

func TestFrameSpecsFromBlobCommaSeparatedShapes(t *testing.T) {
	specs := FrameSpecsFromBlob(map[string]any{"formatos_rosto": "quadrado, coração"})

	want := []domain.FaceShape{domain.FaceSquare, domain.FaceHeart}
	if !reflect.DeepEqual(specs.IdealFaceShapes, want) {
		t.Errorf("got %v, want %v", specs.IdealFaceShapes, want)
	}
}
