package sendbookingnotification

import "guard-matching/internal/models"

const (
	KindBooked     = "booked"
	KindCancelled  = "cancelled"
	KindReassigned = "reassigned"

	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

type Input struct {
	GuardID       string           `json:"guardId"`
	Kind          string           `json:"kind"`
	BookingID     string           `json:"bookingId"`
	Date          string           `json:"date"`
	Slot          *models.TimeSlot `json:"slot,omitempty"`
	ClientName    string           `json:"clientName,omitempty"`
	PickupAddress string           `json:"pickupAddress,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
	SentAt         string `json:"sentAt"`
}
