package repository

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/oticahub/lens-engine/internal/domain"
)

// Keys the catalog editors have used for each spec over time.
var specKeys = struct {
	lensWidth, lensHeight, bridgeWidth, templeLength []string
	frameShape, material, gender, idealFaceShapes   []string
}{
	lensWidth:       []string{"lensWidth", "lens_width", "largura_lente", "aro"},
	lensHeight:      []string{"lensHeight", "lens_height", "altura_lente"},
	bridgeWidth:     []string{"bridgeWidth", "bridge_width", "ponte"},
	templeLength:    []string{"templeLength", "temple_length", "haste"},
	frameShape:      []string{"frameShape", "frame_shape", "formato"},
	material:        []string{"frameMaterial", "frame_material", "material"},
	gender:          []string{"gender", "genero", "gênero"},
	idealFaceShapes: []string{"idealFaceShapes", "ideal_face_shapes", "formatos_rosto"},
}

var faceShapeAliases = map[string]domain.FaceShape{
	"oval":     domain.FaceOval,
	"round":    domain.FaceRound,
	"redondo":  domain.FaceRound,
	"square":   domain.FaceSquare,
	"quadrado": domain.FaceSquare,
	"heart":    domain.FaceHeart,
	"coracao":  domain.FaceHeart,
	"coração":  domain.FaceHeart,
	"oblong":   domain.FaceOblong,
	"oblongo":  domain.FaceOblong,
	"alongado": domain.FaceOblong,
}

var frameShapeAliases = map[string]domain.FrameShape{
	"rectangular": domain.FrameRectangular,
	"retangular":  domain.FrameRectangular,
	"square":      domain.FrameSquare,
	"quadrado":    domain.FrameSquare,
	"round":       domain.FrameRound,
	"redondo":     domain.FrameRound,
	"oval":        domain.FrameOval,
	"cat_eye":     domain.FrameCatEye,
	"cat-eye":     domain.FrameCatEye,
	"gatinho":     domain.FrameCatEye,
	"aviator":     domain.FrameAviator,
	"aviador":     domain.FrameAviator,
	"geometric":   domain.FrameGeometric,
	"geometrico":  domain.FrameGeometric,
	"geométrico":  domain.FrameGeometric,
	"hexagonal":   domain.FrameGeometric,
}

// FrameSpecsFromBlob coerces the loosely typed product specs JSON into
// FrameSpecs. Unknown, malformed or non-positive values are left unset.
func FrameSpecsFromBlob(blob map[string]any) domain.FrameSpecs {
	var specs domain.FrameSpecs
	if len(blob) == 0 {
		return specs
	}

	specs.LensWidth = lookupMillimeters(blob, specKeys.lensWidth)
	specs.LensHeight = lookupMillimeters(blob, specKeys.lensHeight)
	specs.BridgeWidth = lookupMillimeters(blob, specKeys.bridgeWidth)
	specs.TempleLength = lookupMillimeters(blob, specKeys.templeLength)

	if s := lookupString(blob, specKeys.frameShape); s != "" {
		specs.FrameShape = frameShapeAliases[normalizeWord(s)]
	}
	specs.FrameMaterial = lookupString(blob, specKeys.material)
	specs.Gender = strings.ToLower(lookupString(blob, specKeys.gender))

	for _, raw := range lookupStrings(blob, specKeys.idealFaceShapes) {
		if shape, ok := faceShapeAliases[normalizeWord(raw)]; ok {
			specs.IdealFaceShapes = append(specs.IdealFaceShapes, shape)
		}
	}
	return specs
}

func lookup(blob map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := blob[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupMillimeters(blob map[string]any, keys []string) *float64 {
	v, ok := lookup(blob, keys)
	if !ok {
		return nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(strings.ToLower(n))
		s = strings.TrimSpace(strings.TrimSuffix(s, "mm"))
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if !(f > 0) {
		return nil
	}
	return &f
}

func lookupString(blob map[string]any, keys []string) string {
	v, ok := lookup(blob, keys)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// lookupStrings accepts either a JSON array or a comma separated string.
func lookupStrings(blob map[string]any, keys []string) []string {
	v, ok := lookup(blob, keys)
	if !ok {
		return nil
	}
	var out []string
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list...)
	case string:
		out = strings.Split(list, ",")
	}
	return out
}

func normalizeWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}
