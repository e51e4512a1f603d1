package matching

import (
	"strings"
	"time"

	"guard-matching/internal/models"
)

const DefaultAvailabilityDays = 14

var (
	defaultDaySlots = []models.TimeSlot{
		{Start: 8 * 60, End: 12 * 60},
		{Start: 12 * 60, End: 16 * 60},
		{Start: 16 * 60, End: 20 * 60},
		{Start: 20 * 60, End: 24 * 60},
	}
	weekdaySlots = []models.TimeSlot{
		{Start: 8 * 60, End: 12 * 60},
		{Start: 12 * 60, End: 16 * 60},
		{Start: 16 * 60, End: 20 * 60},
	}
	weekendSlots = []models.TimeSlot{
		{Start: 10 * 60, End: 14 * 60},
		{Start: 14 * 60, End: 18 * 60},
	}
)

// GenerateAvailability builds days consecutive calendar entries starting at today,
// each offering the four fixed 4-hour blocks and nothing booked.
func GenerateAvailability(guardID string, days int, today time.Time) models.Calendar {
	if days <= 0 {
		days = DefaultAvailabilityDays
	}
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	out := make([]models.DayAvailability, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, models.DayAvailability{
			Date:        start.AddDate(0, 0, i).Format(models.DateLayout),
			IsAvailable: true,
			TimeSlots:   append([]models.TimeSlot(nil), defaultDaySlots...),
			BookedSlots: []models.TimeSlot{},
		})
	}

	return models.Calendar{
		GuardID:   guardID,
		Days:      out,
		Recurring: DefaultRecurringSchedule(),
	}
}

// DefaultRecurringSchedule is display data. The conflict checker never reads it.
func DefaultRecurringSchedule() models.RecurringSchedule {
	schedule := make(models.RecurringSchedule, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		slots := weekdaySlots
		if d == time.Saturday || d == time.Sunday {
			slots = weekendSlots
		}
		schedule[strings.ToLower(d.String())] = append([]models.TimeSlot(nil), slots...)
	}
	return schedule
}
