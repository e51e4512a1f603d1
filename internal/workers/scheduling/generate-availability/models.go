package generateavailability

import "guard-matching/internal/models"

type Input struct {
	GuardID string `json:"guardId"`
	Days    int    `json:"days,omitempty"`
}

type Output struct {
	GuardID       string          `json:"guardId"`
	DaysGenerated int             `json:"daysGenerated"`
	FirstDate     string          `json:"firstDate,omitempty"`
	LastDate      string          `json:"lastDate,omitempty"`
	Calendar      models.Calendar `json:"calendar"`
}
