package recommendguards

import "guard-matching/internal/models"

type Input struct {
	ClientID string                 `json:"clientId"`
	Criteria models.BookingCriteria `json:"criteria"`
	Limit    int                    `json:"limit,omitempty"`
}

type Output struct {
	Recommendations []models.MatchResult `json:"recommendations"`
	PreferredCount  int                  `json:"preferredCount"`
}
