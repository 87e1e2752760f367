package stats

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	if Summarize(nil) != nil {
		t.Error("empty series should give nil")
	}

	tr := Summarize([]float64{2000, 2100, 1900, 2200})
	if tr.Count != 4 || tr.Min != 1900 || tr.Max != 2200 {
		t.Errorf("trend = %+v", tr)
	}
	if !almost(tr.Mean, 2050) || !almost(tr.Median, 2050) {
		t.Errorf("mean/median = %v/%v", tr.Mean, tr.Median)
	}
	if tr.Change != 200 || !almost(tr.ChangePct, 10) {
		t.Errorf("change = %v (%v%%)", tr.Change, tr.ChangePct)
	}
	if !almost(tr.Slope, 40) || tr.Direction() != "rising" {
		t.Errorf("slope = %v direction = %s", tr.Slope, tr.Direction())
	}
}

func TestSlope(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{[]float64{5}, 0},
		{[]float64{3, 3, 3}, 0},
		{[]float64{10, 8, 6, 4}, -2},
	}
	for _, tc := range cases {
		if got := Slope(tc.in); !almost(got, tc.want) {
			t.Errorf("Slope(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMedianDoesNotReorder(t *testing.T) {
	in := []float64{3, 1, 2}
	if Median(in) != 2 || in[0] != 3 {
		t.Errorf("median = %v, input = %v", Median(in), in)
	}
}

func TestZeroFirstValue(t *testing.T) {
	tr := Summarize([]float64{0, 10})
	if tr.ChangePct != 0 || tr.Change != 10 {
		t.Errorf("trend = %+v", tr)
	}
}
