package services

import (
	"context"
	"sync"

	"guard-matching/internal/events"
	"guard-matching/internal/models"
)

type fakeRoster struct {
	guards []models.GuardProfile
	err    error
}

func (f *fakeRoster) ListGuards(context.Context) ([]models.GuardProfile, error) {
	return f.guards, f.err
}

type fakeBookings struct {
	byID    map[string]models.Booking
	history []models.Booking
	getErr  error
	listErr error
}

func (f *fakeBookings) GetBooking(_ context.Context, id string) (models.Booking, error) {
	if f.getErr != nil {
		return models.Booking{}, f.getErr
	}
	return f.byID[id], nil
}

func (f *fakeBookings) ListByClient(context.Context, string) ([]models.Booking, error) {
	return f.history, f.listErr
}

type fakeGeo struct {
	ids        []string
	indexed    []string
	err        error
	indexedErr error
	radius     float64
	asked      []string
}

func (f *fakeGeo) Nearby(_ context.Context, _ models.GeoPoint, radiusKm float64) ([]string, error) {
	f.radius = radiusKm
	return f.ids, f.err
}

func (f *fakeGeo) Indexed(_ context.Context, ids []string) (map[string]bool, error) {
	f.asked = ids
	if f.indexedErr != nil {
		return nil, f.indexedErr
	}
	out := map[string]bool{}
	for _, id := range ids {
		for _, known := range f.indexed {
			if id == known {
				out[id] = true
			}
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func rating(r float64) *float64 { return &r }

// Guards around a pickup in central Mumbai.
var pickup = models.GeoPoint{Latitude: 19.0760, Longitude: 72.8777}

func roster() []models.GuardProfile {
	return []models.GuardProfile{
		{
			ID: "g-near", Name: "Asha", Location: &models.GeoPoint{Latitude: 19.0800, Longitude: 72.8800},
			HourlyRate: 500, Rating: 4.8, CompletedJobs: 150, Languages: []string{"en", "hi"},
			IsAvailable: true, KYCStatus: models.KYCStatusApproved,
		},
		{
			ID: "g-mid", Name: "Ravi", Location: &models.GeoPoint{Latitude: 19.2000, Longitude: 72.9500},
			HourlyRate: 400, Rating: 4.2, CompletedJobs: 40, Languages: []string{"mr"},
			IsAvailable: true, KYCStatus: models.KYCStatusApproved,
		},
		{
			ID: "g-pending", Name: "Kiran", Location: &models.GeoPoint{Latitude: 19.0760, Longitude: 72.8777},
			HourlyRate: 500, Rating: 5, CompletedJobs: 300,
			IsAvailable: true, KYCStatus: models.KYCStatusPending,
		},
	}
}

func criteria() models.BookingCriteria {
	return models.BookingCriteria{
		PickupLocation: pickup,
		Languages:      []string{"EN"},
		ScheduledDate:  "2024-03-01",
		StartTime:      "09:00",
		DurationHours:  4,
	}
}
