package matching

import "guard-matching/internal/models"

// Overlaps is the half-open interval test: touching slots do not overlap.
func Overlaps(a, b models.TimeSlot) bool {
	return a.Start < b.End && b.Start < a.End
}

// IsSlotAvailable reports whether candidate overlaps none of the booked slots.
// A malformed candidate is never available.
func IsSlotAvailable(booked []models.TimeSlot, candidate models.TimeSlot) bool {
	if !candidate.Valid() {
		return false
	}
	for _, b := range booked {
		if Overlaps(b, candidate) {
			return false
		}
	}
	return true
}

// FindDay returns the index of date in days, or -1.
func FindDay(days []models.DayAvailability, date string) int {
	for i := range days {
		if days[i].Date == date {
			return i
		}
	}
	return -1
}

// HeldBy reports whether booked already holds slot's exact bounds under
// slot's booking id. Slots without a booking id are never held.
func HeldBy(booked []models.TimeSlot, slot models.TimeSlot) bool {
	if slot.BookingID == "" {
		return false
	}
	for _, b := range booked {
		if b.Start == slot.Start && b.End == slot.End && b.BookingID == slot.BookingID {
			return true
		}
	}
	return false
}

// BookSlot appends slot to the day's booked list when it does not conflict.
// It returns false when the day is missing or the slot conflicts; the input is left untouched.
// Booking a slot already held by the same booking id succeeds without change.
func BookSlot(days []models.DayAvailability, date string, slot models.TimeSlot) ([]models.DayAvailability, bool) {
	idx := FindDay(days, date)
	if idx < 0 {
		return days, false
	}
	if HeldBy(days[idx].BookedSlots, slot) {
		return days, true
	}
	booked, ok := AppendIfFree(days[idx].BookedSlots, slot)
	if !ok {
		return days, false
	}
	out := cloneDays(days)
	out[idx].BookedSlots = booked
	return out, true
}

// AppendIfFree is the per-day core of BookSlot, shared with the storage CAS loop.
func AppendIfFree(booked []models.TimeSlot, slot models.TimeSlot) ([]models.TimeSlot, bool) {
	if !IsSlotAvailable(booked, slot) {
		return booked, false
	}
	out := make([]models.TimeSlot, 0, len(booked)+1)
	out = append(out, booked...)
	return append(out, slot), true
}

// CancelSlot removes the first booked slot with exactly the same start and end.
func CancelSlot(days []models.DayAvailability, date string, slot models.TimeSlot) ([]models.DayAvailability, bool) {
	idx := FindDay(days, date)
	if idx < 0 {
		return days, false
	}
	booked, ok := RemoveExact(days[idx].BookedSlots, slot)
	if !ok {
		return days, false
	}
	out := cloneDays(days)
	out[idx].BookedSlots = booked
	return out, true
}

func RemoveExact(booked []models.TimeSlot, slot models.TimeSlot) ([]models.TimeSlot, bool) {
	for i, b := range booked {
		if b.Start == slot.Start && b.End == slot.End {
			out := make([]models.TimeSlot, 0, len(booked)-1)
			out = append(out, booked[:i]...)
			return append(out, booked[i+1:]...), true
		}
	}
	return booked, false
}

func cloneDays(days []models.DayAvailability) []models.DayAvailability {
	out := make([]models.DayAvailability, len(days))
	copy(out, days)
	return out
}
