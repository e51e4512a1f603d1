package checkslotavailability

import "guard-matching/internal/models"

type Input struct {
	models.SlotRequest
}

type Output struct {
	GuardID   string          `json:"guardId"`
	Date      string          `json:"date"`
	Slot      models.TimeSlot `json:"slot"`
	Available bool            `json:"available"`
}
