package models

import "errors"

// Placeholder inputs sent with every feature vector. They are demo constants,
// not sensor readings.
const (
	PlaceholderNDVI         = 0.62
	PlaceholderEVI          = 0.45
	PlaceholderSoilMoisture = 0.23
	PlaceholderPestIndex    = 0.2
	PlaceholderHumidity     = 50
)

// ErrEmptySeries is returned when a feature vector is requested from a
// forecast with no days.
var ErrEmptySeries = errors.New("weather series is empty")

// FeatureVector is the fixed-shape input of the health and price models.
type FeatureVector struct {
	NDVI         float64 `json:"ndvi"`
	EVI          float64 `json:"evi"`
	SoilMoisture float64 `json:"soil_moisture"`
	PestIndex    float64 `json:"pest_index"`
	TempMax      float64 `json:"temp_max"`
	TempMin      float64 `json:"temp_min"`
	PrecipMM     float64 `json:"precip_mm"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
}

// AssembleFeatures builds a feature vector from the most recent day of the
// series plus the placeholder constants.
func AssembleFeatures(series WeatherSeries) (FeatureVector, error) {
	latest, ok := series.Latest()
	if !ok {
		return FeatureVector{}, ErrEmptySeries
	}

	return FeatureVector{
		NDVI:         PlaceholderNDVI,
		EVI:          PlaceholderEVI,
		SoilMoisture: PlaceholderSoilMoisture,
		PestIndex:    PlaceholderPestIndex,
		TempMax:      latest.TempMax,
		TempMin:      latest.TempMin,
		PrecipMM:     latest.Precipitation,
		Humidity:     PlaceholderHumidity,
		WindSpeed:    latest.WindSpeed,
	}, nil
}
