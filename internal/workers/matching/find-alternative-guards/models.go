package findalternativeguards

import "guard-matching/internal/models"

type Input struct {
	BookingID string `json:"bookingId"`
	Limit     int    `json:"limit,omitempty"`
}

type Output struct {
	Alternatives      []models.MatchResult `json:"alternatives"`
	TotalAlternatives int                  `json:"totalAlternatives"`
	HasAlternatives   bool                 `json:"hasAlternatives"`
}
