package models

// AllocationRecord is one line of a supply allocation. An empty Warehouse
// means the demand for that region could not be fulfilled.
type AllocationRecord struct {
	Region    string  `json:"region"`
	Warehouse string  `json:"warehouse,omitempty"`
	Allocated float64 `json:"allocated"`
	Note      string  `json:"note,omitempty"`
}

// Fulfilled reports whether the record was served from a warehouse.
func (a AllocationRecord) Fulfilled() bool {
	return a.Warehouse != ""
}

// SupplyRequest is the /api/supply request body.
type SupplyRequest struct {
	City   string             `json:"city"`
	Demand map[string]float64 `json:"demand"`
}

// SupplyResponse is the /api/supply response body.
type SupplyResponse struct {
	Allocations []AllocationRecord `json:"allocations"`
}
