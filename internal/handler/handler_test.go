package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/dashboard-go/internal/client"
	"github.com/agrovision/dashboard-go/internal/models"
	"github.com/agrovision/dashboard-go/internal/monitor"
	"github.com/agrovision/dashboard-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBackend struct {
	geoErr    error
	supplyErr error
	records   []models.AllocationRecord
	supplyFor string
}

func (b *stubBackend) Geocode(ctx context.Context, city string) (*models.GeoLocation, error) {
	if b.geoErr != nil {
		return nil, b.geoErr
	}
	return &models.GeoLocation{Lat: 18.52, Lon: 73.85, Name: city}, nil
}

func (b *stubBackend) Weather(ctx context.Context, lat, lon float64) (models.WeatherSeries, error) {
	return models.WeatherSeries{Days: []models.DailyWeather{{Date: "2025-01-01", TempMax: 30, WindSpeed: 7}}}, nil
}

func (b *stubBackend) PredictHealth(ctx context.Context, fv models.FeatureVector) (*models.HealthPrediction, error) {
	return &models.HealthPrediction{Label: "healthy", Probability: 0.9}, nil
}

func (b *stubBackend) PredictPrice(ctx context.Context, crop string, prices []float64, fv models.FeatureVector) (*models.PricePrediction, error) {
	return &models.PricePrediction{Price: 1999}, nil
}

func (b *stubBackend) RecentPrices(ctx context.Context) ([]float64, error) {
	return []float64{1, 2}, nil
}

func (b *stubBackend) Train(ctx context.Context) (*models.TrainResult, error) {
	return &models.TrainResult{Status: "trained"}, nil
}

func (b *stubBackend) SupplyAllocations(ctx context.Context, req models.SupplyRequest) ([]models.AllocationRecord, error) {
	b.supplyFor = req.City
	return b.records, b.supplyErr
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: bad body %q", method, path, w.Body.String())
	}
	return w.Code, env
}

func newRouter(b *stubBackend) *gin.Engine {
	dash := service.NewDashboardService(b, "", "wheat")
	dh := NewDashboardHandler(dash)
	sh := NewSupplyHandler(service.NewSupplyService(b, 10000), dash)

	r := gin.New()
	r.GET("/dashboard", dh.GetDashboard)
	r.POST("/predict", dh.Predict)
	r.POST("/train", dh.Train)
	r.GET("/weather", dh.GetWeather)
	r.GET("/prices", dh.GetPrices)
	r.GET("/crops", dh.ListCrops)
	r.POST("/supply", sh.Query)
	return r
}

func TestPredictHandler(t *testing.T) {
	r := newRouter(&stubBackend{})

	code, env := do(t, r, http.MethodPost, "/predict", PredictRequest{City: "Pune", Crop: "wheat"})
	if code != http.StatusOK {
		t.Fatalf("code = %d (%s)", code, env.Message)
	}
	var v DashboardView
	json.Unmarshal(env.Data, &v)
	if v.Prediction.Health != "HEALTHY" || v.Prediction.Price != "₹1999.00 / quintal" {
		t.Errorf("prediction = %+v", v.Prediction)
	}
	if v.Map == nil || v.Weather.Location != "Pune" || v.State.Loading {
		t.Errorf("view = %+v", v)
	}
}

func TestPredictHandlerErrors(t *testing.T) {
	code, env := do(t, newRouter(&stubBackend{}), http.MethodPost, "/predict", PredictRequest{Crop: "wheat"})
	if code != http.StatusBadRequest || env.Message != "Please enter a city." {
		t.Errorf("blank city: %d %q", code, env.Message)
	}

	code, env = do(t, newRouter(&stubBackend{geoErr: client.ErrEmptyResult}), http.MethodPost, "/predict", PredictRequest{City: "Atlantis", Crop: "wheat"})
	if code != http.StatusNotFound || env.Message != service.MsgPredictionFailed {
		t.Errorf("not found: %d %q", code, env.Message)
	}

	offline := &client.NetworkError{Op: "geocode", Err: errors.New("refused")}
	code, env = do(t, newRouter(&stubBackend{geoErr: offline}), http.MethodPost, "/predict", PredictRequest{City: "Pune", Crop: "wheat"})
	if code != http.StatusServiceUnavailable || env.Message != service.MsgPredictionFailed {
		t.Errorf("offline: %d %q", code, env.Message)
	}
	var v DashboardView
	json.Unmarshal(env.Data, &v)
	if v.State.Loading || v.State.Error != service.MsgPredictionFailed || !v.Prediction.Empty {
		t.Errorf("failed view = %+v", v)
	}
}

func TestWeatherHandler(t *testing.T) {
	r := newRouter(&stubBackend{})

	if code, _ := do(t, r, http.MethodGet, "/weather?lat=abc&lon=1", nil); code != http.StatusBadRequest {
		t.Errorf("bad lat: %d", code)
	}
	if code, _ := do(t, r, http.MethodGet, "/weather?lat=91&lon=1", nil); code != http.StatusBadRequest {
		t.Errorf("out of range: %d", code)
	}
	if code, env := do(t, r, http.MethodGet, "/weather?lat=19.07&lon=72.87", nil); code != http.StatusOK || len(env.Data) == 0 {
		t.Errorf("ok: %d %s", code, env.Data)
	}
}

func TestPricesAndCrops(t *testing.T) {
	r := newRouter(&stubBackend{})

	code, env := do(t, r, http.MethodGet, "/prices?crop=rice", nil)
	if code != http.StatusOK {
		t.Fatalf("prices: %d", code)
	}
	var prices struct {
		Prices []float64 `json:"prices"`
		Chart  struct {
			Title string `json:"title"`
		} `json:"chart"`
	}
	json.Unmarshal(env.Data, &prices)
	if len(prices.Prices) != 2 || prices.Chart.Title != "📈 Rice Price Trend" {
		t.Errorf("prices = %+v", prices)
	}

	code, env = do(t, r, http.MethodGet, "/crops", nil)
	var groups []map[string]interface{}
	json.Unmarshal(env.Data, &groups)
	if code != http.StatusOK || len(groups) != 3 {
		t.Errorf("crops: %d %d", code, len(groups))
	}
}

func TestTrainHandler(t *testing.T) {
	code, env := do(t, newRouter(&stubBackend{}), http.MethodPost, "/train", nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte("trained")) {
		t.Errorf("train: %d %s", code, env.Data)
	}
}

func TestSupplyHandler(t *testing.T) {
	b := &stubBackend{}
	code, env := do(t, newRouter(b), http.MethodPost, "/supply", nil)
	if code != http.StatusBadRequest || env.Message != service.MsgSupplyNoCity {
		t.Errorf("no city: %d %q", code, env.Message)
	}

	b = &stubBackend{records: []models.AllocationRecord{{Region: "Pune", Warehouse: "W1", Allocated: 10000}}}
	r := newRouter(b)
	do(t, r, http.MethodPost, "/predict", PredictRequest{City: "Pune", Crop: "wheat"})
	code, env = do(t, r, http.MethodPost, "/supply", nil)
	if code != http.StatusOK || b.supplyFor != "Pune" {
		t.Errorf("dashboard city: %d supplyFor=%q", code, b.supplyFor)
	}

	b = &stubBackend{supplyErr: errors.New("500")}
	code, env = do(t, newRouter(b), http.MethodPost, "/supply", SupplyRequest{City: "Pune"})
	if code != http.StatusBadGateway || env.Message != service.MsgSupplyFailed {
		t.Errorf("failure: %d %q", code, env.Message)
	}
}

func TestStatusHandler(t *testing.T) {
	fetch := monitor.FetcherFunc(func(ctx context.Context) (*models.RetrainStatus, error) {
		st := models.NewRetrainStatus(models.RetrainStatusPayload{Status: "success"})
		return &st, nil
	})
	h := NewStatusHandler(service.NewStatusService(monitor.New(fetch), nil))
	r := gin.New()
	r.GET("/status", h.GetStatus)
	r.GET("/history", h.ListHistory)

	_, env := do(t, r, http.MethodGet, "/status", nil)
	if !bytes.Contains(env.Data, []byte("Checking latest retraining info")) {
		t.Errorf("initial badge: %s", env.Data)
	}

	_, env = do(t, r, http.MethodGet, "/status?refresh=true", nil)
	if !bytes.Contains(env.Data, []byte("Retraining completed successfully")) {
		t.Errorf("refreshed badge: %s", env.Data)
	}

	code, env := do(t, r, http.MethodGet, "/history?limit=x", nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"history":[]`)) {
		t.Errorf("history: %d %s", code, env.Data)
	}
}
