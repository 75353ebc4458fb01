package domain

// FactorScores are the per-factor contributions, each in [0, 1].
// A nil factor was not assessable for this product.
type FactorScores struct {
	FaceShape *float64 `json:"faceShape,omitempty"`
	Size      *float64 `json:"size,omitempty"`
	Bridge    *float64 `json:"bridge,omitempty"`
	Gender    *float64 `json:"gender,omitempty"`
	Material  *float64 `json:"material,omitempty"`
}

type FrameRecommendation struct {
	ProductID    string       `json:"productId"`
	Name         string       `json:"name,omitempty"`
	Score        float64      `json:"score"`
	MatchReasons []string     `json:"matchReasons"`
	Factors      FactorScores `json:"factors"`
}

type RecommendationMeta struct {
	CacheHit    bool   `json:"cacheHit"`
	GeneratedAt string `json:"generatedAt"`
	TotalCount  int    `json:"totalCount"`
}

type RecommendationResult struct {
	Recommendations []FrameRecommendation
	CacheHit        bool
}

const (
	StatusFeasible = "feasible"
	StatusWarning  = "warning"
	StatusFailed   = "failed"
)

// CatalogCalibration is the outcome of calibrating one catalog frame.
type CatalogCalibration struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Status    string            `json:"status"`
	Result    CalibrationResult `json:"result"`
}

type BatchSummary struct {
	FeasibleCount    int   `json:"feasibleCount"`
	WarningCount     int   `json:"warningCount"`
	FailedCount      int   `json:"failedCount"`
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

type CatalogCalibrationResponse struct {
	StoreID string               `json:"storeId"`
	Results []CatalogCalibration `json:"results"`
	Summary BatchSummary         `json:"summary"`
	Meta    BatchMeta            `json:"metadata"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generatedAt"`
}
