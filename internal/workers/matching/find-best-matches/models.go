package findbestmatches

import "guard-matching/internal/models"

type Input struct {
	Criteria models.BookingCriteria `json:"criteria"`
	Limit    int                    `json:"limit,omitempty"`
}

type Output struct {
	Matches      []models.MatchResult `json:"matches"`
	TotalMatches int                  `json:"totalMatches"`
	TopGuardID   string               `json:"topGuardId,omitempty"`
}
