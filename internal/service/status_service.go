package service

import (
	"context"
	"log"

	"github.com/agrovision/dashboard-go/internal/models"
	"github.com/agrovision/dashboard-go/internal/monitor"
)

// StatusStore persists retrain status changes.
type StatusStore interface {
	Create(obs *models.StatusObservation) error
	List(limit int, offset int) ([]*models.StatusObservation, error)
	Latest() (*models.StatusObservation, error)
	CountByKind() (map[models.StatusKind]int, error)
}

// HistorySummary totals the recorded status changes.
type HistorySummary struct {
	Latest *models.StatusObservation `json:"latest,omitempty"`
	Counts map[models.StatusKind]int `json:"counts"`
}

// StatusService owns the retrain status monitor and records every change it
// observes.
type StatusService struct {
	monitor *monitor.Monitor
	store   StatusStore
}

// NewStatusService wires the monitor to the store. store may be nil.
func NewStatusService(m *monitor.Monitor, store StatusStore) *StatusService {
	s := &StatusService{monitor: m, store: store}
	m.OnChange(s.record)
	return s
}

// Start begins polling.
func (s *StatusService) Start(ctx context.Context) error {
	return s.monitor.Start(ctx)
}

// Stop ends polling.
func (s *StatusService) Stop() {
	s.monitor.Stop()
}

// Current returns the latest monitor state.
func (s *StatusService) Current() monitor.Snapshot {
	return s.monitor.Snapshot()
}

// Refresh forces an out-of-schedule fetch.
func (s *StatusService) Refresh(ctx context.Context) monitor.Snapshot {
	return s.monitor.Poll(ctx)
}

// History lists recorded status changes, newest first.
func (s *StatusService) History(limit, offset int) ([]*models.StatusObservation, error) {
	if s.store == nil {
		return []*models.StatusObservation{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(limit, offset)
}

// Summary returns the most recent recorded change and per-kind totals.
func (s *StatusService) Summary() (*HistorySummary, error) {
	sum := &HistorySummary{Counts: map[models.StatusKind]int{}}
	if s.store == nil {
		return sum, nil
	}

	latest, err := s.store.Latest()
	if err != nil {
		return nil, err
	}
	counts, err := s.store.CountByKind()
	if err != nil {
		return nil, err
	}
	sum.Latest = latest
	sum.Counts = counts
	return sum, nil
}

func (s *StatusService) record(prev, next monitor.Snapshot) {
	log.Printf("[status] retrain status %s -> %s (%q)", prev.Kind, next.Kind, next.Raw)
	if s.store == nil {
		return
	}

	obs := &models.StatusObservation{
		Kind:       next.Kind,
		Raw:        next.Raw,
		Detail:     next.Detail,
		LastRun:    next.LastRunRaw,
		ObservedAt: next.CheckedAt,
	}
	if next.Kind == models.StatusError {
		obs.Detail = next.Error
	}
	if err := s.store.Create(obs); err != nil {
		log.Printf("[status] failed to record observation: %v", err)
	}
}
