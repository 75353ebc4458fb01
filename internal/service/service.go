package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oticahub/lens-engine/internal/calibration"
	"github.com/oticahub/lens-engine/internal/domain"
	"github.com/oticahub/lens-engine/internal/logger"
	"github.com/oticahub/lens-engine/internal/matching"
	"github.com/sirupsen/logrus"
)

const (
	defaultLimit            = 10
	maxLimit                = 50
	defaultCatalogLimit     = 100
	defaultBatchConcurrency = 8
)

// Catalog is the product store the service reads frames from.
type Catalog interface {
	GetStoreByID(ctx context.Context, storeID string) (*domain.Store, error)
	GetEyewearProducts(ctx context.Context, storeID string, limit int) ([]domain.Product, error)
}

// RecommendationCache keeps ranked lists per store and request fingerprint.
type RecommendationCache interface {
	Get(ctx context.Context, storeID string, limit int, fingerprint string) ([]domain.FrameRecommendation, bool, error)
	Set(ctx context.Context, storeID string, limit int, fingerprint string, recs []domain.FrameRecommendation) error
	ClearStoreCache(ctx context.Context, storeID string) (int, error)
}

// Fingerprinter derives the cache identity of a recommendation request.
type Fingerprinter func(domain.FacialMeasurements, domain.CustomerPreferences) string

type Options struct {
	CatalogLimit     int
	BatchConcurrency int
}

type Service struct {
	catalog     Catalog
	cache       RecommendationCache
	fingerprint Fingerprinter
	calibrator  *calibration.Engine
	matcher     *matching.Engine
	opts        Options
}

func NewService(catalog Catalog, cache RecommendationCache, fingerprint Fingerprinter,
	calibrator *calibration.Engine, matcher *matching.Engine, opts Options) *Service {
	if opts.CatalogLimit <= 0 {
		opts.CatalogLimit = defaultCatalogLimit
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = defaultBatchConcurrency
	}
	return &Service{
		catalog:     catalog,
		cache:       cache,
		fingerprint: fingerprint,
		calibrator:  calibrator,
		matcher:     matcher,
		opts:        opts,
	}
}

// CalibrateLens runs the calibration engine. Validation failures are part of
// the result, never an error.
func (s *Service) CalibrateLens(ctx context.Context, in calibration.Input) domain.CalibrationResult {
	result := s.calibrator.Calculate(in)

	entry := logger.WithFields(logrus.Fields{
		"success":   result.Success,
		"lens_type": result.RecommendedLensType,
		"warnings":  len(result.Warnings),
	})
	if !result.Success {
		entry.WithField("error", result.Error).Info("[service] calibration rejected")
	} else {
		entry.Debug("[service] calibration computed")
	}
	return result
}

// ValidateMeasurements enforces the fields the matching engine needs before
// it is invoked.
func ValidateMeasurements(m domain.FacialMeasurements) error {
	if !(m.PD > 0) {
		return domain.NewValidationError("measurements.pd", "Distância pupilar (DP) deve ser maior que zero")
	}
	if !(m.FaceWidth > 0) {
		return domain.NewValidationError("measurements.faceWidth", "Largura do rosto deve ser maior que zero")
	}
	if !m.FaceShape.Valid() {
		return domain.NewValidationError("measurements.faceShape",
			"Formato do rosto deve ser oval, redondo, quadrado, coração ou alongado")
	}
	return nil
}

func (s *Service) GetRecommendations(ctx context.Context, storeID string, m domain.FacialMeasurements,
	prefs domain.CustomerPreferences, limit int) (*domain.RecommendationResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	if err := ValidateMeasurements(m); err != nil {
		return nil, err
	}

	fp := s.fingerprint(m, prefs)
	log := logger.WithFields(logrus.Fields{"store_id": storeID, "limit": limit})

	// Check Cache
	cached, found, err := s.cache.Get(ctx, storeID, limit, fp)
	if err != nil {
		log.WithError(err).Warn("[service] cache get error")
	}

	// Use recommendations from cache if available
	if found {
		return &domain.RecommendationResult{
			Recommendations: cached,
			CacheHit:        true,
		}, nil
	}

	// Cache miss -> rank the catalog
	recs, err := s.rankCatalog(ctx, storeID, m, prefs, limit)
	if err != nil {
		return nil, err
	}

	// Store recommendations in cache
	if cacheErr := s.cache.Set(ctx, storeID, limit, fp, recs); cacheErr != nil {
		log.WithError(cacheErr).Warn("[service] cache set error")
	}

	return &domain.RecommendationResult{
		Recommendations: recs,
		CacheHit:        false,
	}, nil
}

func (s *Service) rankCatalog(ctx context.Context, storeID string, m domain.FacialMeasurements,
	prefs domain.CustomerPreferences, limit int) ([]domain.FrameRecommendation, error) {
	products, err := s.loadCatalog(ctx, storeID)
	if err != nil {
		return nil, err
	}

	recs := s.matcher.Match(m, prefs, products)
	logger.WithFields(logrus.Fields{
		"store_id":      storeID,
		"product_count": len(products),
	}).Debug("[service] catalog ranked")

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *Service) loadCatalog(ctx context.Context, storeID string) ([]domain.Product, error) {
	if _, err := s.catalog.GetStoreByID(ctx, storeID); err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch store: %w", err)
	}

	products, err := s.catalog.GetEyewearProducts(ctx, storeID, s.opts.CatalogLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	return products, nil
}

// CalibrateCatalog calibrates one prescription against every frame in the
// store catalog with a bounded worker pool. The frame in the input is ignored.
func (s *Service) CalibrateCatalog(ctx context.Context, storeID string, in calibration.Input) (*domain.CatalogCalibrationResponse, error) {
	start := time.Now()

	if verr := calibration.ValidatePatient(in); verr != nil {
		return nil, verr
	}

	products, err := s.loadCatalog(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// Calibrate products concurrently with bounded worker pool
	results := make([]domain.CatalogCalibration, len(products))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.opts.BatchConcurrency) // semaphore

	for i, product := range products {
		wg.Add(1)
		go func(idx int, p domain.Product) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = s.calibrateProduct(ctx, in, p)
		}(i, product)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// summary
	var summary domain.BatchSummary
	for _, r := range results {
		switch r.Status {
		case domain.StatusFeasible:
			summary.FeasibleCount++
		case domain.StatusWarning:
			summary.WarningCount++
		default:
			summary.FailedCount++
		}
	}
	summary.ProcessingTimeMs = time.Since(start).Milliseconds()

	logger.WithFields(logrus.Fields{
		"store_id":      storeID,
		"product_count": len(products),
		"feasible":      summary.FeasibleCount,
		"failed":        summary.FailedCount,
	}).Info("[service] catalog calibration complete")

	return &domain.CatalogCalibrationResponse{
		StoreID: storeID,
		Results: results,
		Summary: summary,
		Meta: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Calibrates a single catalog frame, capturing failures in the result.
func (s *Service) calibrateProduct(ctx context.Context, in calibration.Input, p domain.Product) domain.CatalogCalibration {
	out := domain.CatalogCalibration{ProductID: p.ID, Name: p.Name}
	if err := ctx.Err(); err != nil {
		out.Status = domain.StatusFailed
		out.Result = domain.CalibrationResult{Error: "Tempo de processamento esgotado", Warnings: []string{}}
		return out
	}

	in.Frame = p.Specs
	out.Result = s.calibrator.Calculate(in)

	switch {
	case !out.Result.Success:
		out.Status = domain.StatusFailed
	case len(out.Result.Warnings) > 0:
		out.Status = domain.StatusWarning
	default:
		out.Status = domain.StatusFeasible
	}
	return out
}

// InvalidateStore drops every cached recommendation list of a store.
func (s *Service) InvalidateStore(ctx context.Context, storeID string) (int, error) {
	n, err := s.cache.ClearStoreCache(ctx, storeID)
	if err != nil {
		return n, fmt.Errorf("clear store cache: %w", err)
	}
	logger.WithFields(logrus.Fields{"store_id": storeID, "deleted": n}).Info("[service] store cache cleared")
	return n, nil
}

// Handle response error
func CategorizeError(err error) (string, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "validation_error", verr.Message
	case errors.Is(err, domain.ErrStoreNotFound):
		return "store_not_found", "Loja não encontrada"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "request_timeout", "A requisição expirou, tente novamente"
	default:
		return "internal_error", "Ocorreu um erro inesperado"
	}
}
