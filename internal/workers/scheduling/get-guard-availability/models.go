package getguardavailability

import "guard-matching/internal/models"

type Input struct {
	GuardID  string `json:"guardId"`
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
}

type Output struct {
	GuardID           string                   `json:"guardId"`
	Days              []models.DayAvailability `json:"days"`
	RecurringSchedule models.RecurringSchedule `json:"recurringSchedule,omitempty"`
	OpenDays          int                      `json:"openDays"`
}
