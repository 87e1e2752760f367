package models

import "fmt"

// DailyWeather is one day of a forecast.
type DailyWeather struct {
	Date          string  `json:"date"`
	TempMax       float64 `json:"temp_max"`
	TempMin       float64 `json:"temp_min"`
	Precipitation float64 `json:"precipitation"`
	WindSpeed     float64 `json:"windspeed"`
}

// WeatherSeries is an ordered run of daily records, oldest first.
type WeatherSeries struct {
	Days []DailyWeather `json:"days"`
}

// Len returns the number of days in the series.
func (w WeatherSeries) Len() int {
	return len(w.Days)
}

// Latest returns the last day of the series.
func (w WeatherSeries) Latest() (DailyWeather, bool) {
	if len(w.Days) == 0 {
		return DailyWeather{}, false
	}
	return w.Days[len(w.Days)-1], true
}

// DailyArrays is the Open-Meteo "daily" block as returned by /api/weather:
// parallel arrays indexed by day.
type DailyArrays struct {
	Time             []string  `json:"time"`
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
	WindSpeedMax     []float64 `json:"windspeed_10m_max"`
}

// Series zips the parallel arrays into a WeatherSeries. All arrays must have
// the same length.
func (d DailyArrays) Series() (WeatherSeries, error) {
	n := len(d.Time)
	lengths := map[string]int{
		"temperature_2m_max": len(d.TemperatureMax),
		"temperature_2m_min": len(d.TemperatureMin),
		"precipitation_sum":  len(d.PrecipitationSum),
		"windspeed_10m_max":  len(d.WindSpeedMax),
	}
	for name, l := range lengths {
		if l != n {
			return WeatherSeries{}, fmt.Errorf("daily.%s has %d entries, daily.time has %d", name, l, n)
		}
	}

	days := make([]DailyWeather, n)
	for i := 0; i < n; i++ {
		days[i] = DailyWeather{
			Date:          d.Time[i],
			TempMax:       d.TemperatureMax[i],
			TempMin:       d.TemperatureMin[i],
			Precipitation: d.PrecipitationSum[i],
			WindSpeed:     d.WindSpeedMax[i],
		}
	}
	return WeatherSeries{Days: days}, nil
}
