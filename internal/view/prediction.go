package view

import (
	"fmt"
	"strings"

	"github.com/agrovision/dashboard-go/internal/models"
)

// PredictionHint is shown before the first prediction.
const PredictionHint = "No prediction yet. Click \"Get Predictions\" to see results."

// PredictionPanel is the rendered prediction card.
type PredictionPanel struct {
	Empty      bool   `json:"empty"`
	Hint       string `json:"hint,omitempty"`
	Title      string `json:"title,omitempty"`
	Health     string `json:"health,omitempty"`
	HealthIcon string `json:"health_icon,omitempty"`
	Tone       Tone   `json:"tone,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Price      string `json:"price,omitempty"`
}

// NewPredictionPanel renders p for the selected crop. A nil prediction gives
// the empty-state hint.
func NewPredictionPanel(p *models.PredictionResult, crop string) PredictionPanel {
	if p == nil {
		return PredictionPanel{Empty: true, Hint: PredictionHint}
	}

	name := title(crop)
	if name == "" {
		name = "Crop"
	}
	panel := PredictionPanel{
		Title:      "🌾 Prediction for " + name,
		Health:     strings.ToUpper(p.Health),
		Tone:       ToneBad,
		HealthIcon: "⚠️",
		Confidence: fmt.Sprintf("%.1f%%", p.Probability*100),
		Price:      fmt.Sprintf("₹%.2f / quintal", p.Price),
	}
	if p.Healthy() {
		panel.Tone = ToneGood
		panel.HealthIcon = "✅"
	}
	return panel
}
