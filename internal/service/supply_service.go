package service

import (
	"context"
	"log"
	"strings"

	"github.com/agrovision/dashboard-go/internal/models"
	"github.com/agrovision/dashboard-go/internal/supply"
)

// SupplyBackend requests warehouse allocations.
type SupplyBackend interface {
	SupplyAllocations(ctx context.Context, req models.SupplyRequest) ([]models.AllocationRecord, error)
}

// SupplyResult is everything the supply panel shows for one query.
type SupplyResult struct {
	City        string                    `json:"city"`
	Allocations []models.AllocationRecord `json:"allocations"`
	Totals      map[string]float64        `json:"totals"`
	Chart       []supply.WarehouseTotal   `json:"chart"`
	Summary     supply.Summary            `json:"summary"`
	Message     string                    `json:"message,omitempty"`
}

// SupplyService queries allocations for the dashboard city
type SupplyService struct {
	backend     SupplyBackend
	demandUnits float64
}

// NewSupplyService creates a new supply service
func NewSupplyService(backend SupplyBackend, demandUnits float64) *SupplyService {
	if demandUnits <= 0 {
		demandUnits = 10000
	}
	return &SupplyService{backend: backend, demandUnits: demandUnits}
}

// Query requests allocations covering the configured demand for city. A blank
// city is rejected without contacting the backend.
func (s *SupplyService) Query(ctx context.Context, city string) (*SupplyResult, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, &ValidationError{Field: "city", Message: MsgSupplyNoCity}
	}

	records, err := s.backend.SupplyAllocations(ctx, models.SupplyRequest{
		City:   city,
		Demand: map[string]float64{city: s.demandUnits},
	})
	if err != nil {
		log.Printf("[supply] allocation query for %s failed: %v", city, err)
		return nil, &WorkflowError{Step: "supply allocate", Display: MsgSupplyFailed, Err: err}
	}

	totals := supply.Aggregate(records)
	result := &SupplyResult{
		City:        city,
		Allocations: records,
		Totals:      totals,
		Chart:       supply.ChartRows(totals),
		Summary:     supply.Summarize(records),
	}
	if len(records) == 0 {
		result.Message = MsgSupplyEmpty
	}
	return result, nil
}
