package view

import (
	"fmt"
	"net/url"

	"github.com/agrovision/dashboard-go/internal/models"
)

// WeatherHint is shown when no forecast has been loaded.
const WeatherHint = "No live weather (locate a city and press predict)"

// WeatherCard summarises the last day of a forecast.
type WeatherCard struct {
	Empty         bool   `json:"empty"`
	Hint          string `json:"hint,omitempty"`
	Location      string `json:"location,omitempty"`
	Date          string `json:"date,omitempty"`
	TempMax       string `json:"temp_max,omitempty"`
	Precipitation string `json:"precipitation,omitempty"`
	Wind          string `json:"wind,omitempty"`
}

// NewWeatherCard renders the newest day of w.
func NewWeatherCard(w *models.WeatherSeries, city string) WeatherCard {
	if w == nil {
		return WeatherCard{Empty: true, Hint: WeatherHint}
	}
	day, ok := w.Latest()
	if !ok {
		return WeatherCard{Empty: true, Hint: WeatherHint}
	}
	return WeatherCard{
		Location:      city,
		Date:          day.Date,
		TempMax:       num(day.TempMax) + " °C",
		Precipitation: num(day.Precipitation) + " mm",
		Wind:          num(day.WindSpeed) + " m/s",
	}
}

// ForecastDay is one column of the forecast strip.
type ForecastDay struct {
	Date    string `json:"date"`
	TempMax string `json:"temp_max"`
	Wind    string `json:"wind"`
}

// WeatherPanel is the multi-day forecast strip.
type WeatherPanel struct {
	Title string        `json:"title"`
	Days  []ForecastDay `json:"days"`
}

// NewWeatherPanel lists every day of w in order.
func NewWeatherPanel(w models.WeatherSeries) WeatherPanel {
	panel := WeatherPanel{
		Title: fmt.Sprintf("🌦 %d-Day Weather Forecast", w.Len()),
		Days:  make([]ForecastDay, 0, w.Len()),
	}
	for _, d := range w.Days {
		panel.Days = append(panel.Days, ForecastDay{
			Date:    d.Date,
			TempMax: num(d.TempMax) + "°C",
			Wind:    num(d.WindSpeed) + " km/h",
		})
	}
	return panel
}

// MapDisplay is an embeddable map centred on a location.
type MapDisplay struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	EmbedURL string  `json:"embed_url"`
}

// NewMapDisplay returns nil when there is no usable location.
func NewMapDisplay(g *models.GeoLocation) *MapDisplay {
	if g == nil || !g.IsValid() {
		return nil
	}
	q := url.Values{}
	q.Set("q", num(g.Lat)+","+num(g.Lon))
	q.Set("z", "8")
	q.Set("output", "embed")
	return &MapDisplay{
		Lat:      g.Lat,
		Lon:      g.Lon,
		EmbedURL: "https://maps.google.com/maps?" + q.Encode(),
	}
}
