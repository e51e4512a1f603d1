// Package events publishes booking lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"guard-matching/internal/models"

	"github.com/google/uuid"
)

const (
	TypeSlotBooked    = "guard.slot.booked"
	TypeSlotCancelled = "guard.slot.cancelled"
)

type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	GuardID    string          `json:"guardId"`
	Date       string          `json:"date"`
	Slot       models.TimeSlot `json:"slot"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func NewSlotEvent(eventType, guardID, date string, slot models.TimeSlot) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		GuardID:    guardID,
		Date:       date,
		Slot:       slot,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
