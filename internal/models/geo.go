package models

import "github.com/golang/geo/s2"

// GeoLocation is a resolved place. It is replaced wholesale on the next
// geocode query and never edited in place.
type GeoLocation struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// LatLng converts the location to an S2 lat/lng.
func (g GeoLocation) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(g.Lat, g.Lon)
}

// IsValid reports whether the coordinates lie within the normal lat/lng range.
func (g GeoLocation) IsValid() bool {
	return g.LatLng().IsValid()
}
