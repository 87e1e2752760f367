package view

import (
	"fmt"

	"github.com/agrovision/dashboard-go/internal/models"
	"github.com/agrovision/dashboard-go/internal/stats"
	"github.com/agrovision/dashboard-go/internal/supply"
)

// PricePoint is one point of the price trend line.
type PricePoint struct {
	Day   string  `json:"day"`
	Price float64 `json:"price"`
}

// PriceChart is the recent price trend for a crop.
type PriceChart struct {
	Title     string       `json:"title"`
	Points    []PricePoint `json:"points"`
	Trend     *stats.Trend `json:"trend,omitempty"`
	Direction string       `json:"direction,omitempty"`
}

// NewPriceChart labels prices Day 1..Day N, oldest first.
func NewPriceChart(crop string, prices []float64) PriceChart {
	chart := PriceChart{
		Title:  fmt.Sprintf("📈 %s Price Trend", title(crop)),
		Points: make([]PricePoint, len(prices)),
	}
	for i, p := range prices {
		chart.Points[i] = PricePoint{Day: fmt.Sprintf("Day %d", i+1), Price: p}
	}
	if t := stats.Summarize(prices); t != nil {
		chart.Trend = t
		chart.Direction = t.Direction()
	}
	return chart
}

// Supply table hints.
const (
	SupplyIdleHint  = "No allocation data yet. Click \"Refresh Live Data\" to fetch from server."
	SupplyChartHint = "No warehouse data to display."
)

// SupplyRow is one table row.
type SupplyRow struct {
	Region    string  `json:"region"`
	Warehouse string  `json:"warehouse"`
	Allocated float64 `json:"allocated"`
	Status    string  `json:"status"`
	Tone      Tone    `json:"tone"`
}

// SupplyTable is the supply analytics panel.
type SupplyTable struct {
	Rows      []SupplyRow             `json:"rows"`
	Chart     []supply.WarehouseTotal `json:"chart"`
	ChartHint string                  `json:"chart_hint,omitempty"`
	Error     string                  `json:"error,omitempty"`
	Hint      string                  `json:"hint,omitempty"`
}

// NewSupplyTable renders allocation records. errMsg is the message of a failed
// or empty query and is shown instead of the idle hint.
func NewSupplyTable(records []models.AllocationRecord, errMsg string) SupplyTable {
	table := SupplyTable{
		Rows:  make([]SupplyRow, 0, len(records)),
		Chart: supply.ChartRows(supply.Aggregate(records)),
	}
	if errMsg != "" {
		table.Error = "⚠️ " + errMsg
	}
	if len(records) == 0 {
		if errMsg == "" {
			table.Hint = SupplyIdleHint
		}
		return table
	}

	for _, r := range records {
		row := SupplyRow{
			Region:    r.Region,
			Warehouse: r.Warehouse,
			Allocated: r.Allocated,
			Status:    "✅ Fulfilled",
			Tone:      ToneGood,
		}
		if row.Warehouse == "" {
			row.Warehouse = "-"
		}
		if r.Note != "" {
			row.Status = "⚠️ " + r.Note
			row.Tone = ToneWarn
		}
		table.Rows = append(table.Rows, row)
	}
	if len(table.Chart) == 0 {
		table.ChartHint = SupplyChartHint
	}
	return table
}
