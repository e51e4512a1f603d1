package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	ProtectionArmed   = "armed"
	ProtectionUnarmed = "unarmed"

	VehicleStandard = "standard"
	VehicleArmored  = "armored"

	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"

	DateLayout = "2006-01-02"

	DefaultMaxDistanceKm = 50.0
	DefaultMinRating     = 3.5
)

var ErrInvalidCriteria = errors.New("invalid booking criteria")

type BookingCriteria struct {
	PickupLocation     GeoPoint `json:"pickupLocation"`
	Languages          []string `json:"languages,omitempty"`
	ProtectionType     string   `json:"protectionType,omitempty"`
	VehicleType        string   `json:"vehicleType,omitempty"`
	ScheduledDate      string   `json:"scheduledDate"`
	StartTime          string   `json:"startTime"`
	DurationHours      float64  `json:"durationHours"`
	NumberOfProtectors int      `json:"numberOfProtectors,omitempty"`
	MaxDistanceKm      float64  `json:"maxDistanceKm,omitempty"`
	MinRating          float64  `json:"minRating,omitempty"`
	PreferredGuardIDs  []string `json:"preferredGuardIds,omitempty"`
}

// WithDefaults returns a copy with MaxDistanceKm and MinRating filled in when unset.
func (c BookingCriteria) WithDefaults() BookingCriteria {
	if c.MaxDistanceKm <= 0 {
		c.MaxDistanceKm = DefaultMaxDistanceKm
	}
	if c.MinRating <= 0 {
		c.MinRating = DefaultMinRating
	}
	if c.NumberOfProtectors <= 0 {
		c.NumberOfProtectors = 1
	}
	return c
}

func (c BookingCriteria) Validate() error {
	if c.DurationHours <= 0 {
		return fmt.Errorf("%w: durationHours must be positive", ErrInvalidCriteria)
	}
	if _, err := c.ScheduledStart(); err != nil {
		return err
	}
	if !c.PickupLocation.Valid() {
		return fmt.Errorf("%w: pickup location out of range", ErrInvalidCriteria)
	}
	switch c.ProtectionType {
	case "", ProtectionArmed, ProtectionUnarmed:
	default:
		return fmt.Errorf("%w: unknown protectionType %q", ErrInvalidCriteria, c.ProtectionType)
	}
	switch c.VehicleType {
	case "", VehicleStandard, VehicleArmored:
	default:
		return fmt.Errorf("%w: unknown vehicleType %q", ErrInvalidCriteria, c.VehicleType)
	}
	return nil
}

// ScheduledStart combines ScheduledDate and StartTime. The result carries no timezone meaning.
func (c BookingCriteria) ScheduledStart() (time.Time, error) {
	day, err := time.Parse(DateLayout, c.ScheduledDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: scheduledDate %q", ErrInvalidCriteria, c.ScheduledDate)
	}
	minutes, err := ParseClock(c.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: startTime %q", ErrInvalidCriteria, c.StartTime)
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

type Booking struct {
	ID                 string   `json:"id"`
	ClientID           string   `json:"clientId"`
	GuardID            string   `json:"guardId"`
	Status             string   `json:"status"`
	Rating             *float64 `json:"rating,omitempty"`
	PickupLocation     GeoPoint `json:"pickupLocation"`
	Languages          []string `json:"languages,omitempty"`
	ProtectionType     string   `json:"protectionType,omitempty"`
	VehicleType        string   `json:"vehicleType,omitempty"`
	ScheduledDate      string   `json:"scheduledDate"`
	StartTime          string   `json:"startTime"`
	DurationHours      float64  `json:"durationHours"`
	NumberOfProtectors int      `json:"numberOfProtectors,omitempty"`
}

// Criteria rebuilds the match request a booking was made with.
func (b Booking) Criteria() BookingCriteria {
	return BookingCriteria{
		PickupLocation:     b.PickupLocation,
		Languages:          b.Languages,
		ProtectionType:     b.ProtectionType,
		VehicleType:        b.VehicleType,
		ScheduledDate:      b.ScheduledDate,
		StartTime:          b.StartTime,
		DurationHours:      b.DurationHours,
		NumberOfProtectors: b.NumberOfProtectors,
	}
}
