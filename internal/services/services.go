// Package services composes the pure matching engine with the stores.
//
// Services return *errors.StandardError values for every failure a job
// worker has to report, so handlers can pass them straight to the BPMN
// error handler.
package services

import (
	"context"
	stderrors "errors"

	"guard-matching/internal/common/config"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/matching"
	"guard-matching/internal/models"
)

type RosterReader interface {
	ListGuards(ctx context.Context) ([]models.GuardProfile, error)
}

type BookingReader interface {
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Booking, error)
}

// NearbyFinder is the geo prefilter. Indexed reports which of ids have a
// position in the index at all.
type NearbyFinder interface {
	Nearby(ctx context.Context, p models.GeoPoint, radiusKm float64) ([]string, error)
	Indexed(ctx context.Context, ids []string) (map[string]bool, error)
}

// Settings are the engine tunables shared by the services.
type Settings struct {
	Scoring                  matching.Options
	DefaultMaxDistanceKm     float64
	DefaultMinRating         float64
	DefaultLimit             int
	AlternativesLimit        int
	PreferredRatingThreshold float64
	AvailabilityDays         int
}

func DefaultSettings() Settings {
	return Settings{
		Scoring:                  matching.DefaultOptions(),
		DefaultMaxDistanceKm:     models.DefaultMaxDistanceKm,
		DefaultMinRating:         models.DefaultMinRating,
		DefaultLimit:             matching.DefaultMatchLimit,
		AlternativesLimit:        matching.DefaultAlternativesLimit,
		PreferredRatingThreshold: matching.DefaultPreferredRatingThreshold,
		AvailabilityDays:         matching.DefaultAvailabilityDays,
	}
}

func SettingsFromConfig(m config.MatchingConfig) Settings {
	return Settings{
		Scoring: matching.Options{
			AverageSpeedKmh:     m.AverageSpeedKmh,
			ReferenceHourlyRate: m.ReferenceHourlyRate,
		},
		DefaultMaxDistanceKm:     m.DefaultMaxDistanceKm,
		DefaultMinRating:         m.DefaultMinRating,
		DefaultLimit:             m.DefaultLimit,
		AlternativesLimit:        m.AlternativesLimit,
		PreferredRatingThreshold: m.PreferredRatingThreshold,
		AvailabilityDays:         m.AvailabilityDays,
	}
}

func (s Settings) applyCriteriaDefaults(c models.BookingCriteria) models.BookingCriteria {
	if c.MaxDistanceKm <= 0 && s.DefaultMaxDistanceKm > 0 {
		c.MaxDistanceKm = s.DefaultMaxDistanceKm
	}
	if c.MinRating <= 0 && s.DefaultMinRating > 0 {
		c.MinRating = s.DefaultMinRating
	}
	return c.WithDefaults()
}

func invalidCriteria(err error) *errors.StandardError {
	if stderrors.Is(err, models.ErrInvalidCriteria) {
		return errors.NewInvalidCriteriaError(err.Error())
	}
	return errors.NewInputValidationFailedError(err.Error())
}
