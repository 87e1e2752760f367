package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agrovision/dashboard-go/internal/models"
)

// StatusRepository stores the retrain status changes seen by the monitor
type StatusRepository struct {
	db *sql.DB
}

// NewStatusRepository creates a new status repository
func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// Create appends an observation
func (r *StatusRepository) Create(obs *models.StatusObservation) error {
	query := `
		INSERT INTO retrain_status_history (kind, raw, detail, last_run, observed_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now()
	}

	result, err := r.db.Exec(query,
		string(obs.Kind),
		obs.Raw,
		obs.Detail,
		obs.LastRun,
		obs.ObservedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create status observation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	obs.ID = id
	return nil
}

// List returns the most recent observations, newest first
func (r *StatusRepository) List(limit int, offset int) ([]*models.StatusObservation, error) {
	query := `
		SELECT id, kind, raw, detail, last_run, observed_at
		FROM retrain_status_history
		ORDER BY observed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list status observations: %w", err)
	}
	defer rows.Close()

	observations := []*models.StatusObservation{}
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status observations: %w", err)
	}

	return observations, nil
}

// Latest returns the most recent observation, or nil when there is none
func (r *StatusRepository) Latest() (*models.StatusObservation, error) {
	query := `
		SELECT id, kind, raw, detail, last_run, observed_at
		FROM retrain_status_history
		ORDER BY observed_at DESC, id DESC
		LIMIT 1
	`

	obs, err := scanObservation(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return obs, nil
}

// CountByKind counts observations per status kind
func (r *StatusRepository) CountByKind() (map[models.StatusKind]int, error) {
	rows, err := r.db.Query(`SELECT kind, COUNT(*) FROM retrain_status_history GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count status observations: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.StatusKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[models.StatusKind(kind)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanObservation(row rowScanner) (*models.StatusObservation, error) {
	obs := &models.StatusObservation{}
	var kind string
	var observedAt int64
	err := row.Scan(&obs.ID, &kind, &obs.Raw, &obs.Detail, &obs.LastRun, &observedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan status observation: %w", err)
	}
	obs.Kind = models.StatusKind(kind)
	obs.ObservedAt = time.UnixMilli(observedAt)
	return obs, nil
}
