package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid HH:MM clock value")

// TimeSlot is a half-open interval [Start, End) in minutes since midnight.
// A booked slot carries the id of the booking holding it, when one was given.
type TimeSlot struct {
	Start     int
	End       int
	BookingID string
}

func NewTimeSlot(start, end string) (TimeSlot, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeSlot{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeSlot{}, err
	}
	return TimeSlot{Start: s, End: e}, nil
}

// MustSlot panics on malformed input. Meant for literals.
func MustSlot(start, end string) TimeSlot {
	slot, err := NewTimeSlot(start, end)
	if err != nil {
		panic(err)
	}
	return slot
}

// Valid reports End > Start with both bounds inside the day. 24:00 is a valid end.
func (s TimeSlot) Valid() bool {
	return s.Start >= 0 && s.End <= MinutesPerDay && s.End > s.Start
}

func (s TimeSlot) String() string {
	return FormatClock(s.Start) + "-" + FormatClock(s.End)
}

type timeSlotJSON struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	BookingID string `json:"bookingId,omitempty"`
}

func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeSlotJSON{Start: FormatClock(s.Start), End: FormatClock(s.End), BookingID: s.BookingID})
}

func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var raw timeSlotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	slot, err := NewTimeSlot(raw.Start, raw.End)
	if err != nil {
		return err
	}
	slot.BookingID = raw.BookingID
	*s = slot
	return nil
}

// ParseClock converts "HH:MM" to minutes since midnight. "24:00" is accepted as 1440.
func ParseClock(value string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return hours*60 + minutes, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

type DayAvailability struct {
	Date        string     `json:"date"`
	IsAvailable bool       `json:"isAvailable"`
	TimeSlots   []TimeSlot `json:"timeSlots"`
	BookedSlots []TimeSlot `json:"bookedSlots"`
}

// RecurringSchedule maps lower-case weekday names to offered slots.
type RecurringSchedule map[string][]TimeSlot

type Calendar struct {
	GuardID   string            `json:"guardId"`
	Days      []DayAvailability `json:"days"`
	Recurring RecurringSchedule `json:"recurringSchedule"`
}

// SlotRequest identifies one slot on one guard's calendar day.
type SlotRequest struct {
	GuardID string   `json:"guardId"`
	Date    string   `json:"date"`
	Slot    TimeSlot `json:"slot"`
}

func (r SlotRequest) Validate() error {
	if strings.TrimSpace(r.GuardID) == "" {
		return errors.New("guardId is required")
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD", r.Date)
	}
	if !r.Slot.Valid() {
		return fmt.Errorf("slot %s must end after it starts", r.Slot)
	}
	return nil
}
