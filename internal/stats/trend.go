// Package stats summarises numeric series shown on the dashboard charts.
package stats

import (
	"math"
	"sort"
)

// Trend describes a series ordered oldest first.
type Trend struct {
	Count     int     `json:"count"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Change    float64 `json:"change"`               // last - first
	ChangePct float64 `json:"change_pct,omitempty"` // relative to first, 0 when first is 0
	Slope     float64 `json:"slope"`                // least-squares change per step
}

// Direction is the sign of the fitted slope.
func (t Trend) Direction() string {
	switch {
	case t.Slope > 0:
		return "rising"
	case t.Slope < 0:
		return "falling"
	default:
		return "flat"
	}
}

// Summarize returns nil for an empty series.
func Summarize(values []float64) *Trend {
	if len(values) == 0 {
		return nil
	}

	first, last := values[0], values[len(values)-1]
	t := &Trend{
		Count:  len(values),
		Min:    Min(values),
		Max:    Max(values),
		Mean:   Mean(values),
		Median: Median(values),
		Change: last - first,
		Slope:  Slope(values),
	}
	if first != 0 {
		t.ChangePct = t.Change / first * 100
	}
	return t
}

// Mean calculates the arithmetic mean
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median calculates the median without reordering values
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Min returns the smallest value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, v := range values {
		m = math.Min(m, v)
	}
	return m
}

// Max returns the largest value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}

// Slope fits values against their index by least squares.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	meanX := (n - 1) / 2
	meanY := Mean(values)
	var num, den float64
	for i, y := range values {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	return num / den
}
