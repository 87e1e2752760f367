package view

import (
	"strconv"
	"time"

	"github.com/agrovision/dashboard-go/internal/models"
)

// RetrainBadge is the model retraining status card.
type RetrainBadge struct {
	Kind     models.StatusKind `json:"kind"`
	Loading  bool              `json:"loading"`
	Message  string            `json:"message"`
	Tone     Tone              `json:"tone"`
	Trained  string            `json:"models_trained,omitempty"`
	Records  string            `json:"records_used,omitempty"`
	LastLine string            `json:"last_updated,omitempty"`
}

// NewRetrainBadge renders a classified status. loading is true while the
// first fetch has not completed.
func NewRetrainBadge(s models.RetrainStatus, loading bool) RetrainBadge {
	b := RetrainBadge{Kind: s.Kind, Loading: loading}
	if loading {
		b.Message = "⏳ Checking latest retraining info..."
		b.Tone = ToneNeutral
		return b
	}

	switch s.Kind {
	case models.StatusPending:
		b.Message, b.Tone = "⚠️ Retraining scheduled or in progress...", ToneWarn
	case models.StatusSuccess:
		b.Message, b.Tone = "✅ Retraining completed successfully!", ToneGood
	case models.StatusFail:
		b.Message, b.Tone = "❌ Retraining failed: "+s.Raw, ToneBad
	case models.StatusError:
		b.Message, b.Tone = "⚠️ Unable to fetch retrain status (server offline?)", ToneBad
	default:
		b.Message, b.Tone = "ℹ️ Waiting for retrain log...", ToneWarn
	}

	if s.Details != nil {
		b.Trained = strconv.Itoa(s.Details.ModelsTrained)
		b.Records = "N/A"
		if s.Details.RecordsUsed != nil && *s.Details.RecordsUsed != 0 {
			b.Records = strconv.Itoa(*s.Details.RecordsUsed)
		}
	}

	switch {
	case s.LastRun != nil:
		b.LastLine = "🕒 Last updated: " + s.LastRun.Format(time.DateTime)
	case s.LastRunRaw != "":
		b.LastLine = "🕒 Last updated: " + s.LastRunRaw
	default:
		b.LastLine = "No retraining log yet."
	}
	return b
}
