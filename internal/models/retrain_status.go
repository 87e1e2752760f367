package models

import (
	"strings"
	"time"
)

// StatusKind is the closed set of retrain states shown by the dashboard.
type StatusKind string

// StatusKind constants
const (
	StatusChecking StatusKind = "checking"
	StatusPending  StatusKind = "pending"
	StatusSuccess  StatusKind = "success"
	StatusFail     StatusKind = "fail"
	StatusError    StatusKind = "error"
	StatusUnknown  StatusKind = "unknown"
)

// lastRunLayouts are the timestamp formats the retrain scheduler has written.
var lastRunLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// RetrainDetails describes the last training run.
type RetrainDetails struct {
	ModelsTrained int  `json:"models_trained"`
	RecordsUsed   *int `json:"records_used,omitempty"`
}

// RetrainStatusPayload is the /api/retrain/status body as sent by the backend.
type RetrainStatusPayload struct {
	Status  string          `json:"status"`
	LastRun string          `json:"last_run,omitempty"`
	Details *RetrainDetails `json:"details,omitempty"`
}

// RetrainStatus is a classified retrain status. Raw keeps the backend text
// verbatim; Kind and Detail are derived from it once.
type RetrainStatus struct {
	Kind       StatusKind      `json:"kind"`
	Detail     string          `json:"detail,omitempty"`
	Raw        string          `json:"raw"`
	LastRun    *time.Time      `json:"last_run,omitempty"`
	LastRunRaw string          `json:"last_run_raw,omitempty"`
	Details    *RetrainDetails `json:"details,omitempty"`
}

// NewRetrainStatus classifies a backend payload.
func NewRetrainStatus(p RetrainStatusPayload) RetrainStatus {
	kind, detail := ClassifyStatus(p.Status)
	status := RetrainStatus{
		Kind:       kind,
		Detail:     detail,
		Raw:        p.Status,
		LastRunRaw: p.LastRun,
		Details:    p.Details,
	}
	if p.LastRun != "" {
		for _, layout := range lastRunLayouts {
			if t, err := time.ParseInLocation(layout, p.LastRun, time.Local); err == nil {
				status.LastRun = &t
				break
			}
		}
	}
	return status
}

// ClassifyStatus maps free-text status strings onto a StatusKind.
// Matching is case-insensitive; "success" and "fail" match anywhere in the
// text so that suffixed values such as "failed: timeout" or "success:v2"
// classify correctly. Text after the first ':' becomes the detail.
func ClassifyStatus(raw string) (StatusKind, string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return StatusUnknown, ""
	}

	detail := ""
	if i := strings.Index(text, ":"); i >= 0 {
		detail = strings.TrimSpace(text[i+1:])
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "success"):
		return StatusSuccess, detail
	case strings.Contains(lower, "fail"):
		return StatusFail, detail
	case lower == string(StatusPending):
		return StatusPending, ""
	case lower == string(StatusError):
		return StatusError, ""
	default:
		return StatusUnknown, text
	}
}

// IsSuccess reports a success-style status.
func (s RetrainStatus) IsSuccess() bool {
	return s.Kind == StatusSuccess
}

// IsFailure reports a fail-style or error status.
func (s RetrainStatus) IsFailure() bool {
	return s.Kind == StatusFail || s.Kind == StatusError
}

// StatusObservation is one change of retrain status seen by the monitor.
type StatusObservation struct {
	ID         int64      `json:"id" db:"id"`
	Kind       StatusKind `json:"kind" db:"kind"`
	Raw        string     `json:"raw" db:"raw"`
	Detail     string     `json:"detail,omitempty" db:"detail"`
	LastRun    string     `json:"last_run,omitempty" db:"last_run"`
	ObservedAt time.Time  `json:"observed_at" db:"observed_at"`
}
