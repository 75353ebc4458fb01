package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oticahub/lens-engine/internal/logger"
	"github.com/sirupsen/logrus"
)

// DemoStoreID is fixed so the seeded store can be addressed without a lookup.
const DemoStoreID = "6f1c2b7e-8a45-4c1d-9b0e-3d2f5a6b7c8d"

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	logger.Info("[seed] truncating existing data")
	if _, err := pool.Exec(ctx, `TRUNCATE products, stores CASCADE`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	logger.Info("[seed] inserting stores")
	storeIDs, err := seedStores(ctx, pool, rng)
	if err != nil {
		return fmt.Errorf("seed stores: %w", err)
	}

	for _, storeID := range storeIDs {
		if err := seedProducts(ctx, pool, rng, storeID, 40); err != nil {
			return fmt.Errorf("seed products for store %s: %w", storeID, err)
		}
	}

	logger.WithFields(logrus.Fields{"stores": len(storeIDs)}).Info("[seed] seeding complete")
	return nil
}

func seedStores(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand) ([]string, error) {
	visaoClaraID, err := seededUUID(rng)
	if err != nil {
		return nil, err
	}
	stores := []struct{ id, name, slug string }{
		{DemoStoreID, "Ótica Central", "otica-central"},
		{visaoClaraID, "Ótica Visão Clara", "visao-clara"},
	}

	rows := []string{}
	args := []any{}
	ids := []string{}
	for _, s := range stores {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, s.id, s.name, s.slug)
		ids = append(ids, s.id)
	}

	query := "INSERT INTO stores (id, name, slug) VALUES " + strings.Join(rows, ", ")
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	return ids, nil
}

var (
	frameShapes = []string{"rectangular", "square", "round", "oval", "cat_eye", "aviator", "geometric"}
	materials   = []string{"acetato", "metal", "titânio", "TR90"}
	genders     = []string{"masculino", "feminino", "unissex"}
	faceShapes  = []string{"oval", "round", "square", "heart", "oblong"}

	// Shapes that usually suit a face, used to fill idealFaceShapes.
	shapeSuits = map[string][]string{
		"rectangular": {"round", "oval"},
		"square":      {"round", "oval"},
		"round":       {"square", "oblong"},
		"oval":        {"square", "heart"},
		"cat_eye":     {"heart", "round"},
		"aviator":     {"heart", "oval", "square"},
		"geometric":   {"oval", "oblong"},
	}
)

func seedProducts(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, storeID string, n int) error {
	categories := []string{"oculos_grau", "oculos_sol", "armacao", "lente_contato", "acessorio"}
	categoryWeights := []float64{0.45, 0.2, 0.2, 0.1, 0.05}

	rows := []string{}
	args := []any{}

	for i := 0; i < n; i++ {
		category := weightedChoice(rng, categories, categoryWeights)
		shape := frameShapes[rng.Intn(len(frameShapes))]
		name := fmt.Sprintf("Armação %s %03d", strings.ReplaceAll(shape, "_", " "), i+1)
		price := math.Round((149+rng.Float64()*850)*100) / 100
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(365))
		active := rng.Float64() > 0.1

		var specs map[string]any
		if category != "lente_contato" && category != "acessorio" {
			specs = frameSpecs(rng, i, shape)
		}

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, storeID, name, category, price, active, specs, createdAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO products (store_id, name, category, price, is_active, specs, created_at) VALUES " +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

// frameSpecs rotates through the key spellings found in real catalog imports.
func frameSpecs(rng *rand.Rand, i int, shape string) map[string]any {
	lensWidth := float64(46 + rng.Intn(13))
	lensHeight := float64(30 + rng.Intn(16))
	bridge := float64(14 + rng.Intn(8))
	temple := float64(135 + 5*rng.Intn(4))
	material := materials[rng.Intn(len(materials))]
	gender := genders[rng.Intn(len(genders))]
	suits := shapeSuits[shape]

	switch i % 4 {
	case 0:
		return map[string]any{
			"lensWidth": lensWidth, "lensHeight": lensHeight, "bridgeWidth": bridge,
			"templeLength": temple, "frameShape": shape, "frameMaterial": material,
			"gender": gender, "idealFaceShapes": suits,
		}
	case 1:
		return map[string]any{
			"lens_width": lensWidth, "lens_height": lensHeight, "bridge_width": bridge,
			"temple_length": temple, "frame_shape": shape, "material": material,
			"gender": gender, "ideal_face_shapes": strings.Join(suits, ","),
		}
	case 2:
		return map[string]any{
			"largura_lente": fmt.Sprintf("%.0f mm", lensWidth),
			"altura_lente":  fmt.Sprintf("%.0f", lensHeight),
			"ponte":         fmt.Sprintf("%.0f mm", bridge),
			"haste":         temple,
			"formato":       shape,
			"material":      material,
			"genero":        gender,
		}
	default:
		// Incomplete listing: only the calibre and a face hint.
		return map[string]any{
			"lensWidth":       lensWidth,
			"idealFaceShapes": []string{faceShapes[rng.Intn(len(faceShapes))]},
		}
	}
}

// seededUUID draws a v4 UUID from rng so reseeding yields the same ids.
func seededUUID(rng *rand.Rand) (string, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return "", fmt.Errorf("generate store id: %w", err)
	}
	return id.String(), nil
}

func weightedChoice(rng *rand.Rand, choices []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
