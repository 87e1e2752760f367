package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agrovision/dashboard-go/internal/models"
)

// PredictBackend is the part of the backend API the dashboard needs.
type PredictBackend interface {
	Geocode(ctx context.Context, city string) (*models.GeoLocation, error)
	Weather(ctx context.Context, lat, lon float64) (models.WeatherSeries, error)
	PredictHealth(ctx context.Context, features models.FeatureVector) (*models.HealthPrediction, error)
	PredictPrice(ctx context.Context, crop string, recentPrices []float64, features models.FeatureVector) (*models.PricePrediction, error)
	RecentPrices(ctx context.Context) ([]float64, error)
	Train(ctx context.Context) (*models.TrainResult, error)
}

// DashboardState is a copy of the dashboard view state.
type DashboardState struct {
	City         string                   `json:"city"`
	Crop         string                   `json:"crop"`
	Geo          *models.GeoLocation      `json:"geo,omitempty"`
	Weather      *models.WeatherSeries    `json:"weather,omitempty"`
	Prediction   *models.PredictionResult `json:"prediction,omitempty"`
	RecentPrices []float64                `json:"recent_prices"`
	Loading      bool                     `json:"loading"`
	Training     bool                     `json:"training"`
	Error        string                   `json:"error,omitempty"`
	Generation   uint64                   `json:"generation"`
	UpdatedAt    time.Time                `json:"updated_at,omitempty"`
}

// DashboardService holds the dashboard view-model and runs the predict
// workflow: geocode, weather, feature assembly, then health and price
// inference.
//
// Each Predict call takes a generation number. Only the most recently issued
// generation writes its results to the shared state, so a slow earlier run
// can never overwrite a newer one.
type DashboardService struct {
	backend PredictBackend

	mu           sync.Mutex
	state        DashboardState
	issued       uint64
	inflight     int
	training     int
	pricesLoaded bool
}

// NewDashboardService creates a dashboard with the initial city and crop.
func NewDashboardService(backend PredictBackend, city, crop string) *DashboardService {
	return &DashboardService{
		backend: backend,
		state: DashboardState{
			City:         city,
			Crop:         crop,
			RecentPrices: []float64{},
		},
	}
}

// State returns a copy of the current view state.
func (s *DashboardService) State() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Loading = s.inflight > 0
	st.Training = s.training > 0
	st.RecentPrices = append([]float64{}, s.state.RecentPrices...)
	return st
}

// Predict runs the full workflow for a city and crop. Any failure aborts the
// remaining steps and is reported as a single "prediction failed" message;
// no partial prediction is kept.
func (s *DashboardService) Predict(ctx context.Context, city, crop string) (*models.PredictionResult, error) {
	city = strings.TrimSpace(city)
	crop = strings.ToLower(strings.TrimSpace(crop))
	if city == "" {
		return nil, &ValidationError{Field: "city", Message: "Please enter a city."}
	}
	if crop == "" {
		return nil, &ValidationError{Field: "crop", Message: "Please select a crop."}
	}

	gen := s.begin(city, crop)
	defer s.finish()

	runID := uuid.NewString()
	log.Printf("[dashboard] run %s (gen %d): predicting %s in %s", runID, gen, crop, city)

	result, err := s.run(ctx, gen, city, crop)
	if err != nil {
		log.Printf("[dashboard] run %s (gen %d) failed: %v", runID, gen, err)
		s.applyIfLatest(gen, func(st *DashboardState) {
			st.Prediction = nil
			st.Error = MsgPredictionFailed
		})
		return nil, err
	}

	applied := s.applyIfLatest(gen, func(st *DashboardState) {
		st.Prediction = result
		st.Error = ""
	})
	if !applied {
		log.Printf("[dashboard] run %s (gen %d) superseded, result discarded", runID, gen)
	}
	return result, nil
}

func (s *DashboardService) run(ctx context.Context, gen uint64, city, crop string) (*models.PredictionResult, error) {
	geo, err := s.backend.Geocode(ctx, city)
	if err != nil {
		return nil, &WorkflowError{Step: "geocode", Display: MsgPredictionFailed, Err: err}
	}
	s.applyIfLatest(gen, func(st *DashboardState) {
		st.Geo = geo
		st.Weather = nil
	})

	series, err := s.backend.Weather(ctx, geo.Lat, geo.Lon)
	if err != nil {
		return nil, &WorkflowError{Step: "weather", Display: MsgPredictionFailed, Err: err}
	}
	s.applyIfLatest(gen, func(st *DashboardState) {
		st.Weather = &series
	})

	features, err := models.AssembleFeatures(series)
	if err != nil {
		return nil, &WorkflowError{Step: "features", Display: MsgPredictionFailed, Err: err}
	}

	prices := s.recentPricesForPredict(ctx)

	var health *models.HealthPrediction
	var price *models.PricePrediction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.backend.PredictHealth(gctx, features)
		if err != nil {
			return fmt.Errorf("health: %w", err)
		}
		health = h
		return nil
	})
	g.Go(func() error {
		p, err := s.backend.PredictPrice(gctx, crop, prices, features)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		price = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, &WorkflowError{Step: "predict", Display: MsgPredictionFailed, Err: err}
	}

	return &models.PredictionResult{
		Crop:        crop,
		Health:      health.Label,
		Probability: health.Probability,
		Price:       price.Price,
	}, nil
}

// LoadRecentPrices refreshes the cached recent price series.
func (s *DashboardService) LoadRecentPrices(ctx context.Context) ([]float64, error) {
	prices, err := s.backend.RecentPrices(ctx)
	if err != nil {
		return nil, &WorkflowError{Step: "recent prices", Err: err}
	}

	s.mu.Lock()
	s.state.RecentPrices = append([]float64{}, prices...)
	s.pricesLoaded = true
	s.mu.Unlock()

	return prices, nil
}

// recentPricesForPredict returns the cached series, loading it once on first
// use. A failed load is logged and an empty series is sent; the price model
// pads short histories itself.
func (s *DashboardService) recentPricesForPredict(ctx context.Context) []float64 {
	s.mu.Lock()
	if s.pricesLoaded {
		prices := append([]float64{}, s.state.RecentPrices...)
		s.mu.Unlock()
		return prices
	}
	s.mu.Unlock()

	prices, err := s.LoadRecentPrices(ctx)
	if err != nil {
		log.Printf("[dashboard] recent prices unavailable, predicting without history: %v", err)
		return []float64{}
	}
	return prices
}

// TrainModels triggers backend retraining. It shares no state with the
// predict workflow apart from the training flag.
func (s *DashboardService) TrainModels(ctx context.Context) (*models.TrainResult, error) {
	s.mu.Lock()
	s.training++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.training--
		s.mu.Unlock()
	}()

	result, err := s.backend.Train(ctx)
	if err != nil {
		log.Printf("[dashboard] retraining failed: %v", err)
		return nil, &WorkflowError{Step: "train", Display: MsgTrainFailed, Err: err}
	}
	log.Printf("[dashboard] retraining finished: %s", result.Status)
	return result, nil
}

// Forecast fetches weather for arbitrary coordinates without touching the
// dashboard state.
func (s *DashboardService) Forecast(ctx context.Context, lat, lon float64) (models.WeatherSeries, error) {
	geo := models.GeoLocation{Lat: lat, Lon: lon}
	if !geo.IsValid() {
		return models.WeatherSeries{}, &ValidationError{Field: "coordinates", Message: "Latitude must be within ±90 and longitude within ±180."}
	}
	series, err := s.backend.Weather(ctx, lat, lon)
	if err != nil {
		return models.WeatherSeries{}, &WorkflowError{Step: "weather", Err: err}
	}
	return series, nil
}

func (s *DashboardService) begin(city, crop string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	s.inflight++
	s.state.City = city
	s.state.Crop = crop
	return s.issued
}

func (s *DashboardService) finish() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// applyIfLatest runs fn against the state when gen is still the newest
// generation and reports whether it did.
func (s *DashboardService) applyIfLatest(gen uint64, fn func(st *DashboardState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.issued {
		return false
	}
	fn(&s.state)
	s.state.Generation = gen
	s.state.UpdatedAt = time.Now()
	return true
}
