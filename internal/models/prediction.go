package models

// Health labels emitted by the health model.
const (
	HealthHealthy  = "healthy"
	HealthStressed = "stressed"
)

// HealthPrediction is the /api/predict/health response.
type HealthPrediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// PricePrediction is the /api/predict/price response.
type PricePrediction struct {
	Price float64 `json:"price"`
}

// PricePredictionRequest is the /api/predict/price request body.
type PricePredictionRequest struct {
	Crop         string        `json:"crop"`
	RecentPrices []float64     `json:"recent_prices"`
	Weather      FeatureVector `json:"weather"`
}

// PredictionResult combines both model outputs. It is derived per request and
// never stored.
type PredictionResult struct {
	Crop        string  `json:"crop"`
	Health      string  `json:"health"`
	Probability float64 `json:"probability"`
	Price       float64 `json:"price"`
}

// Healthy reports whether the health label is the healthy one.
func (p PredictionResult) Healthy() bool {
	return p.Health == HealthHealthy
}

// TrainResult is the /api/train response.
type TrainResult struct {
	Status string `json:"status"`
}
