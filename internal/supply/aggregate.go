package supply

import (
	"sort"

	"github.com/agrovision/dashboard-go/internal/models"
)

// WarehouseTotal is one bar of the allocation-per-warehouse chart.
type WarehouseTotal struct {
	Warehouse string  `json:"warehouse"`
	Allocated float64 `json:"allocated"`
}

// Summary totals an allocation list.
type Summary struct {
	Regions     int     `json:"regions"`
	Warehouses  int     `json:"warehouses"`
	Fulfilled   float64 `json:"fulfilled"`
	Unfulfilled float64 `json:"unfulfilled"`
}

// Aggregate sums allocated quantity per warehouse. Records without a
// warehouse are skipped. The result is never nil.
func Aggregate(records []models.AllocationRecord) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range records {
		if !r.Fulfilled() {
			continue
		}
		totals[r.Warehouse] += r.Allocated
	}
	return totals
}

// ChartRows turns warehouse totals into chart rows ordered by warehouse id.
func ChartRows(totals map[string]float64) []WarehouseTotal {
	rows := make([]WarehouseTotal, 0, len(totals))
	for wh, v := range totals {
		rows = append(rows, WarehouseTotal{Warehouse: wh, Allocated: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Warehouse < rows[j].Warehouse
	})
	return rows
}

// Summarize counts regions and warehouses and splits the quantity into
// fulfilled and unfulfilled.
func Summarize(records []models.AllocationRecord) Summary {
	regions := make(map[string]struct{})
	warehouses := make(map[string]struct{})

	var s Summary
	for _, r := range records {
		regions[r.Region] = struct{}{}
		if r.Fulfilled() {
			warehouses[r.Warehouse] = struct{}{}
			s.Fulfilled += r.Allocated
		} else {
			s.Unfulfilled += r.Allocated
		}
	}
	s.Regions = len(regions)
	s.Warehouses = len(warehouses)
	return s
}
