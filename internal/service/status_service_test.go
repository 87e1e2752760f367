package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/agrovision/dashboard-go/internal/models"
	"github.com/agrovision/dashboard-go/internal/monitor"
)

type memStore struct {
	mu   sync.Mutex
	rows []*models.StatusObservation
}

func (s *memStore) Create(obs *models.StatusObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obs.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, obs)
	return nil
}

func (s *memStore) List(limit, offset int) ([]*models.StatusObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.StatusObservation{}
	for i := len(s.rows) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

func (s *memStore) Latest() (*models.StatusObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rows) == 0 {
		return nil, nil
	}
	return s.rows[len(s.rows)-1], nil
}

func (s *memStore) CountByKind() (map[models.StatusKind]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[models.StatusKind]int{}
	for _, r := range s.rows {
		counts[r.Kind]++
	}
	return counts, nil
}

func scripted(raws ...string) monitor.FetcherFunc {
	var mu sync.Mutex
	i := 0
	return func(ctx context.Context) (*models.RetrainStatus, error) {
		mu.Lock()
		defer mu.Unlock()
		raw := raws[i]
		if i < len(raws)-1 {
			i++
		}
		if raw == "" {
			return nil, errors.New("dial tcp: connection refused")
		}
		st := models.NewRetrainStatus(models.RetrainStatusPayload{Status: raw, LastRun: "2025-01-02 03:04:05"})
		return &st, nil
	}
}

func TestStatusServiceRecordsChanges(t *testing.T) {
	store := &memStore{}
	svc := NewStatusService(monitor.New(scripted("pending", "pending", "success:v3", "")), store)

	for i := 0; i < 4; i++ {
		svc.Refresh(context.Background())
	}

	history, err := svc.History(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("history = %d rows, want 3", len(history))
	}
	if history[0].Kind != models.StatusError || history[0].Detail == "" {
		t.Errorf("newest = %+v, want error with detail", history[0])
	}
	if history[1].Kind != models.StatusSuccess || history[1].Detail != "v3" || history[1].LastRun != "2025-01-02 03:04:05" {
		t.Errorf("second = %+v", history[1])
	}
	if history[2].Kind != models.StatusPending {
		t.Errorf("oldest = %+v", history[2])
	}

	if cur := svc.Current(); cur.Kind != models.StatusError {
		t.Errorf("Current().Kind = %s", cur.Kind)
	}

	sum, err := svc.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Latest == nil || sum.Latest.Kind != models.StatusError || sum.Counts[models.StatusSuccess] != 1 || len(sum.Counts) != 3 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestStatusServiceWithoutStore(t *testing.T) {
	svc := NewStatusService(monitor.New(scripted("pending")), nil)
	svc.Refresh(context.Background())

	history, err := svc.History(0, -1)
	if err != nil || history == nil || len(history) != 0 {
		t.Errorf("History() = %v, %v", history, err)
	}
	if sum, err := svc.Summary(); err != nil || sum.Latest != nil || sum.Counts == nil {
		t.Errorf("Summary() = %+v, %v", sum, err)
	}
}

func TestStatusServiceHistoryClampsLimit(t *testing.T) {
	store := &memStore{}
	svc := NewStatusService(monitor.New(scripted("pending")), store)
	for i := 0; i < 30; i++ {
		store.Create(&models.StatusObservation{Kind: models.StatusPending})
	}

	history, _ := svc.History(1000, 0)
	if len(history) != 20 {
		t.Errorf("len = %d, want default page of 20", len(history))
	}
}
