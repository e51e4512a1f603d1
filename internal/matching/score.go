package matching

import (
	"math"
	"strings"

	"guard-matching/internal/models"
)

const (
	FactorDistance     = "distance"
	FactorAvailability = "availability"
	FactorRating       = "rating"
	FactorExperience   = "experience"
	FactorLanguage     = "language"
	FactorPrice        = "price"

	distanceWeight     = 30.0
	availabilityPoints = 20.0
	ratingWeight       = 20.0
	experienceCap      = 15.0
	experienceJobsCap  = 100.0
	languagePoints     = 10.0
	priceWeight        = 5.0
	preferenceBoost    = 10.0
	maxRating          = 5.0

	DefaultReferenceHourlyRate = 500.0
)

var factorOrder = []string{
	FactorDistance, FactorAvailability, FactorRating, FactorExperience, FactorLanguage, FactorPrice,
}

type Options struct {
	AverageSpeedKmh     float64
	ReferenceHourlyRate float64
}

func DefaultOptions() Options {
	return Options{
		AverageSpeedKmh:     DefaultAverageSpeedKmh,
		ReferenceHourlyRate: DefaultReferenceHourlyRate,
	}
}

func (o Options) normalized() Options {
	if o.AverageSpeedKmh <= 0 {
		o.AverageSpeedKmh = DefaultAverageSpeedKmh
	}
	if o.ReferenceHourlyRate <= 0 {
		o.ReferenceHourlyRate = DefaultReferenceHourlyRate
	}
	return o
}

// ScoreGuard computes the booking match score and its additive breakdown.
// Guards without a location, or farther than MaxDistanceKm, score exactly zero;
// distance and travel time are still reported when a location exists.
func ScoreGuard(guard models.GuardProfile, criteria models.BookingCriteria, opts Options) models.MatchResult {
	criteria = criteria.WithDefaults()
	opts = opts.normalized()

	result := models.MatchResult{Guard: guard, Breakdown: emptyBreakdown()}
	if guard.Location == nil {
		return result
	}

	distance := DistanceKm(criteria.PickupLocation, *guard.Location)
	eta := TravelTimeMinutes(distance, opts.AverageSpeedKmh)
	result.DistanceKm = &distance
	result.TravelTimeMinutes = &eta

	if distance > criteria.MaxDistanceKm {
		return result
	}

	b := result.Breakdown
	b[FactorDistance] = distanceScore(distance, criteria.MaxDistanceKm)
	if guard.IsAvailable {
		b[FactorAvailability] = availabilityPoints
	}
	b[FactorRating] = ratingScore(guard.Rating, criteria.MinRating)
	b[FactorExperience] = experienceScore(guard.CompletedJobs)
	if anyLanguage(criteria.Languages, guard.Languages) {
		b[FactorLanguage] = languagePoints
	}
	b[FactorPrice] = priceScore(guard.HourlyRate, opts.ReferenceHourlyRate)
	if contains(criteria.PreferredGuardIDs, guard.ID) {
		b[FactorRating] += preferenceBoost
	}

	for _, f := range factorOrder {
		result.Score += b[f]
	}
	return result
}

func emptyBreakdown() map[string]float64 {
	return map[string]float64{
		FactorDistance:     0,
		FactorAvailability: 0,
		FactorRating:       0,
		FactorExperience:   0,
		FactorLanguage:     0,
		FactorPrice:        0,
	}
}

func distanceScore(distance, maxDistance float64) float64 {
	return math.Max(0, distanceWeight-(distance/maxDistance)*distanceWeight)
}

func ratingScore(rating, minRating float64) float64 {
	if rating < minRating {
		return 0
	}
	return rating / maxRating * ratingWeight
}

func experienceScore(completedJobs int) float64 {
	return math.Min(float64(completedJobs)/experienceJobsCap*experienceCap, experienceCap)
}

func priceScore(rate, reference float64) float64 {
	return math.Max(0, priceWeight-math.Abs(rate-reference)/reference*priceWeight)
}

func anyLanguage(wanted, spoken []string) bool {
	for _, w := range wanted {
		for _, s := range spoken {
			if strings.EqualFold(w, s) {
				return true
			}
		}
	}
	return false
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
