package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/dashboard-go/internal/middleware"
	"github.com/agrovision/dashboard-go/internal/models"
	"github.com/agrovision/dashboard-go/internal/service"
	"github.com/agrovision/dashboard-go/internal/view"
	"github.com/agrovision/dashboard-go/pkg/response"
)

// DashboardHandler handles HTTP requests for the main dashboard
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// PredictRequest is the body of a predict call.
type PredictRequest struct {
	City string `json:"city"`
	Crop string `json:"crop"`
}

// DashboardView is the full dashboard payload.
type DashboardView struct {
	Welcome    string                 `json:"welcome"`
	State      service.DashboardState `json:"state"`
	Prediction view.PredictionPanel   `json:"prediction"`
	Weather    view.WeatherCard       `json:"weather"`
	Map        *view.MapDisplay       `json:"map,omitempty"`
	Prices     view.PriceChart        `json:"prices"`
}

func (h *DashboardHandler) render(c *gin.Context) DashboardView {
	st := h.service.State()
	return DashboardView{
		Welcome:    view.Welcome(c.GetString(middleware.UserKey)),
		State:      st,
		Prediction: view.NewPredictionPanel(st.Prediction, st.Crop),
		Weather:    view.NewWeatherCard(st.Weather, st.City),
		Map:        view.NewMapDisplay(st.Geo),
		Prices:     view.NewPriceChart(st.Crop, st.RecentPrices),
	}
}

// GetDashboard returns the current dashboard view
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	response.Success(c, h.render(c))
}

// Predict runs the prediction workflow for a city and crop
// POST /api/v1/predict
func (h *DashboardHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.service.Predict(c.Request.Context(), req.City, req.Crop); err != nil {
		c.Error(err)
		response.Fail(c, service.HTTPStatus(err), service.UserMessage(err, service.MsgPredictionFailed), h.render(c))
		return
	}

	response.Success(c, h.render(c))
}

// Train triggers model retraining
// POST /api/v1/train
func (h *DashboardHandler) Train(c *gin.Context) {
	result, err := h.service.TrainModels(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.Error(c, service.HTTPStatus(err), service.UserMessage(err, service.MsgTrainFailed))
		return
	}

	response.Success(c, result)
}

// GetWeather returns the forecast for coordinates
// GET /api/v1/weather?lat=..&lon=..
func (h *DashboardHandler) GetWeather(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		response.BadRequest(c, "lat and lon must be numbers")
		return
	}

	series, err := h.service.Forecast(c.Request.Context(), lat, lon)
	if err != nil {
		c.Error(err)
		response.Error(c, service.HTTPStatus(err), service.UserMessage(err, "Failed to load weather"))
		return
	}

	response.Success(c, gin.H{
		"series": series,
		"panel":  view.NewWeatherPanel(series),
		"map":    view.NewMapDisplay(&models.GeoLocation{Lat: lat, Lon: lon}),
	})
}

// GetPrices reloads the recent price series
// GET /api/v1/prices?crop=..
func (h *DashboardHandler) GetPrices(c *gin.Context) {
	crop := c.Query("crop")
	if crop == "" {
		crop = h.service.State().Crop
	}

	prices, err := h.service.LoadRecentPrices(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.Error(c, service.HTTPStatus(err), service.UserMessage(err, "Failed to load recent prices"))
		return
	}

	response.Success(c, gin.H{
		"prices": prices,
		"chart":  view.NewPriceChart(crop, prices),
	})
}

// ListCrops returns the crop catalogue
// GET /api/v1/crops
func (h *DashboardHandler) ListCrops(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	response.Success(c, view.CropSelector())
}
