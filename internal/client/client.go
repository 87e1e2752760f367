package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agrovision/dashboard-go/internal/models"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

// Client calls the prediction/analytics backend. Every method issues exactly
// one request: there is no retry, caching or client-side timeout, so callers
// bound calls through the context.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// geocodeMatch is one element of the /api/geocode array. Nominatim encodes
// coordinates as strings, other geocoders as numbers.
type geocodeMatch struct {
	Lat         flexFloat `json:"lat"`
	Lon         flexFloat `json:"lon"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
}

// Geocode resolves a city name to coordinates using the first match.
// GET /api/geocode?q={city}
func (c *Client) Geocode(ctx context.Context, city string) (*models.GeoLocation, error) {
	const op = "geocode"

	var matches []geocodeMatch
	if err := c.do(ctx, op, http.MethodGet, "/api/geocode", url.Values{"q": {city}}, nil, &matches); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s %q: %w", op, city, ErrEmptyResult)
	}

	first := matches[0]
	name := first.Name
	if name == "" {
		name = first.DisplayName
	}
	geo := &models.GeoLocation{Lat: float64(first.Lat), Lon: float64(first.Lon), Name: name}
	if !geo.IsValid() {
		return nil, &DecodeError{Op: op, Err: fmt.Errorf("coordinates out of range: %v,%v", geo.Lat, geo.Lon)}
	}
	return geo, nil
}

// Weather fetches the daily forecast for a location.
// GET /api/weather?lat={lat}&lon={lon}
func (c *Client) Weather(ctx context.Context, lat, lon float64) (models.WeatherSeries, error) {
	const op = "weather"

	query := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	var body struct {
		Daily *models.DailyArrays `json:"daily"`
	}
	if err := c.do(ctx, op, http.MethodGet, "/api/weather", query, nil, &body); err != nil {
		return models.WeatherSeries{}, err
	}
	if body.Daily == nil {
		return models.WeatherSeries{}, &DecodeError{Op: op, Err: fmt.Errorf("missing daily block")}
	}

	series, err := body.Daily.Series()
	if err != nil {
		return models.WeatherSeries{}, &DecodeError{Op: op, Err: err}
	}
	return series, nil
}

// PredictHealth runs the crop health model.
// POST /api/predict/health
func (c *Client) PredictHealth(ctx context.Context, features models.FeatureVector) (*models.HealthPrediction, error) {
	const op = "predict health"

	var out models.HealthPrediction
	if err := c.do(ctx, op, http.MethodPost, "/api/predict/health", nil, features, &out); err != nil {
		return nil, err
	}
	if out.Probability < 0 || out.Probability > 1 {
		return nil, &DecodeError{Op: op, Err: fmt.Errorf("probability %v outside [0,1]", out.Probability)}
	}
	return &out, nil
}

// PredictPrice runs the price model for a crop.
// POST /api/predict/price
func (c *Client) PredictPrice(ctx context.Context, crop string, recentPrices []float64, features models.FeatureVector) (*models.PricePrediction, error) {
	const op = "predict price"

	if recentPrices == nil {
		recentPrices = []float64{}
	}
	req := models.PricePredictionRequest{
		Crop:         crop,
		RecentPrices: recentPrices,
		Weather:      features,
	}

	var out models.PricePrediction
	if err := c.do(ctx, op, http.MethodPost, "/api/predict/price", nil, req, &out); err != nil {
		return nil, err
	}
	if out.Price < 0 {
		return nil, &DecodeError{Op: op, Err: fmt.Errorf("negative price %v", out.Price)}
	}
	return &out, nil
}

// RecentPrices returns the recent market price series.
// GET /api/prices
func (c *Client) RecentPrices(ctx context.Context) ([]float64, error) {
	var prices []float64
	if err := c.do(ctx, "recent prices", http.MethodGet, "/api/prices", nil, nil, &prices); err != nil {
		return nil, err
	}
	if prices == nil {
		prices = []float64{}
	}
	return prices, nil
}

// Train asks the backend to retrain its models.
// POST /api/train
func (c *Client) Train(ctx context.Context) (*models.TrainResult, error) {
	var out models.TrainResult
	if err := c.do(ctx, "train", http.MethodPost, "/api/train", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrainStatus fetches and classifies the scheduled retraining status.
// GET /api/retrain/status
func (c *Client) RetrainStatus(ctx context.Context) (*models.RetrainStatus, error) {
	var payload models.RetrainStatusPayload
	if err := c.do(ctx, "retrain status", http.MethodGet, "/api/retrain/status", nil, nil, &payload); err != nil {
		return nil, err
	}
	status := models.NewRetrainStatus(payload)
	return &status, nil
}

// SupplyAllocations requests warehouse allocations for the given demand.
// POST /api/supply
func (c *Client) SupplyAllocations(ctx context.Context, req models.SupplyRequest) ([]models.AllocationRecord, error) {
	var out models.SupplyResponse
	if err := c.do(ctx, "supply allocate", http.MethodPost, "/api/supply", nil, req, &out); err != nil {
		return nil, err
	}
	if out.Allocations == nil {
		out.Allocations = []models.AllocationRecord{}
	}
	return out.Allocations, nil
}

// do performs one JSON round trip. body may be nil; out must be a pointer.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling back
// to the raw text.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

// flexFloat decodes a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*f = flexFloat(v)
	return nil
}
