package bookguardslot

import "guard-matching/internal/models"

type Input struct {
	models.SlotRequest
	BookingID string `json:"bookingId,omitempty"`
}

type Output struct {
	GuardID   string          `json:"guardId"`
	Date      string          `json:"date"`
	Slot      models.TimeSlot `json:"slot"`
	BookingID string          `json:"bookingId,omitempty"`
	Booked    bool            `json:"booked"`
}
