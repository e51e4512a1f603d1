package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard-matching/internal/models"
)

// kmPerDegreeLat is the haversine length of one degree of latitude at radius 6371 km.
const kmPerDegreeLat = 111.19492664455873

func scenarioGuard() models.GuardProfile {
	return models.GuardProfile{
		ID:            "guard-1",
		Name:          "Alex Mercer",
		Location:      &models.GeoPoint{Latitude: 40.0, Longitude: -73.0},
		HourlyRate:    500,
		Rating:        5.0,
		CompletedJobs: 100,
		Languages:     []string{"en"},
		IsAvailable:   true,
		KYCStatus:     models.KYCStatusApproved,
	}
}

func scenarioCriteria() models.BookingCriteria {
	return models.BookingCriteria{
		PickupLocation: models.GeoPoint{Latitude: 40.0, Longitude: -73.0},
		Languages:      []string{"en"},
		ScheduledDate:  "2024-03-01",
		StartTime:      "09:00",
		DurationHours:  4,
		MaxDistanceKm:  50,
		MinRating:      3.5,
	}
}

// northOf returns a point distanceKm due north of p.
func northOf(p models.GeoPoint, distanceKm float64) *models.GeoPoint {
	return &models.GeoPoint{Latitude: p.Latitude + distanceKm/kmPerDegreeLat, Longitude: p.Longitude}
}

func TestScoreGuard_PerfectScenario(t *testing.T) {
	r := ScoreGuard(scenarioGuard(), scenarioCriteria(), DefaultOptions())

	assert.InDelta(t, 100.0, r.Score, 1e-9)
	assert.InDelta(t, 30.0, r.Breakdown[FactorDistance], 1e-9)
	assert.InDelta(t, 20.0, r.Breakdown[FactorAvailability], 1e-9)
	assert.InDelta(t, 20.0, r.Breakdown[FactorRating], 1e-9)
	assert.InDelta(t, 15.0, r.Breakdown[FactorExperience], 1e-9)
	assert.InDelta(t, 10.0, r.Breakdown[FactorLanguage], 1e-9)
	assert.InDelta(t, 5.0, r.Breakdown[FactorPrice], 1e-9)
	require.NotNil(t, r.DistanceKm)
	assert.InDelta(t, 0.0, *r.DistanceKm, 1e-9)
	require.NotNil(t, r.TravelTimeMinutes)
	assert.InDelta(t, 0.0, *r.TravelTimeMinutes, 1e-9)
}

func TestScoreGuard_UnavailableLosesExactlyTwenty(t *testing.T) {
	g := scenarioGuard()
	g.IsAvailable = false

	r := ScoreGuard(g, scenarioCriteria(), DefaultOptions())

	assert.InDelta(t, 80.0, r.Score, 1e-9)
	assert.Zero(t, r.Breakdown[FactorAvailability])
}

func TestScoreGuard_HardCutoff(t *testing.T) {
	c := scenarioCriteria()

	t.Run("no location", func(t *testing.T) {
		g := scenarioGuard()
		g.Location = nil
		r := ScoreGuard(g, c, DefaultOptions())
		assert.Zero(t, r.Score)
		assert.Nil(t, r.DistanceKm)
		assert.Nil(t, r.TravelTimeMinutes)
	})

	t.Run("beyond max distance still reports distance", func(t *testing.T) {
		g := scenarioGuard()
		g.Location = northOf(c.PickupLocation, 60)
		g.CompletedJobs = 1000
		r := ScoreGuard(g, c, DefaultOptions())

		assert.Zero(t, r.Score)
		for _, v := range r.Breakdown {
			assert.Zero(t, v)
		}
		require.NotNil(t, r.DistanceKm)
		assert.InDelta(t, 60.0, *r.DistanceKm, 0.01)
		require.NotNil(t, r.TravelTimeMinutes)
		assert.InDelta(t, 90.0, *r.TravelTimeMinutes, 0.05)
	})

	t.Run("custom max distance", func(t *testing.T) {
		g := scenarioGuard()
		g.Location = northOf(c.PickupLocation, 20)
		tight := c
		tight.MaxDistanceKm = 10
		assert.Zero(t, ScoreGuard(g, tight, DefaultOptions()).Score)
	})
}

func TestScoreGuard_DistanceDecayIsMonotonic(t *testing.T) {
	c := scenarioCriteria()
	prev := 31.0
	for _, km := range []float64{0, 1, 5, 12.5, 25, 40, 49.9} {
		g := scenarioGuard()
		g.Location = northOf(c.PickupLocation, km)
		term := ScoreGuard(g, c, DefaultOptions()).Breakdown[FactorDistance]
		assert.LessOrEqual(t, term, prev, "distance %.1f km", km)
		prev = term
	}

	g := scenarioGuard()
	g.Location = northOf(c.PickupLocation, 25)
	assert.InDelta(t, 15.0, ScoreGuard(g, c, DefaultOptions()).Breakdown[FactorDistance], 0.01)
}

func TestScoreGuard_RatingGate(t *testing.T) {
	g := scenarioGuard()
	g.Rating = 3.4

	r := ScoreGuard(g, scenarioCriteria(), DefaultOptions())
	assert.Zero(t, r.Breakdown[FactorRating])

	g.Rating = 3.5
	r = ScoreGuard(g, scenarioCriteria(), DefaultOptions())
	assert.InDelta(t, 14.0, r.Breakdown[FactorRating], 1e-9)
}

func TestScoreGuard_ExperienceCap(t *testing.T) {
	tests := []struct {
		jobs int
		want float64
	}{
		{0, 0},
		{50, 7.5},
		{100, 15},
		{500, 15},
	}
	for _, tt := range tests {
		g := scenarioGuard()
		g.CompletedJobs = tt.jobs
		assert.InDelta(t, tt.want, ScoreGuard(g, scenarioCriteria(), DefaultOptions()).Breakdown[FactorExperience], 1e-9)
	}
}

func TestScoreGuard_Language(t *testing.T) {
	c := scenarioCriteria()
	g := scenarioGuard()

	g.Languages = []string{"fr", "EN"}
	assert.Equal(t, 10.0, ScoreGuard(g, c, DefaultOptions()).Breakdown[FactorLanguage])

	g.Languages = []string{"fr"}
	assert.Zero(t, ScoreGuard(g, c, DefaultOptions()).Breakdown[FactorLanguage])

	c.Languages = []string{"ar", "fr"}
	assert.Equal(t, 10.0, ScoreGuard(g, c, DefaultOptions()).Breakdown[FactorLanguage], "boolean, not proportional")
}

func TestScoreGuard_Price(t *testing.T) {
	tests := []struct {
		rate float64
		want float64
	}{
		{500, 5},
		{750, 2.5},
		{250, 2.5},
		{1000, 0},
		{2000, 0},
	}
	for _, tt := range tests {
		g := scenarioGuard()
		g.HourlyRate = tt.rate
		assert.InDelta(t, tt.want, ScoreGuard(g, scenarioCriteria(), DefaultOptions()).Breakdown[FactorPrice], 1e-9, "rate %v", tt.rate)
	}

	opts := DefaultOptions()
	opts.ReferenceHourlyRate = 1000
	g := scenarioGuard()
	g.HourlyRate = 1000
	assert.InDelta(t, 5.0, ScoreGuard(g, scenarioCriteria(), opts).Breakdown[FactorPrice], 1e-9)
}

func TestScoreGuard_PreferenceBoostLandsInRatingSlot(t *testing.T) {
	c := scenarioCriteria()
	c.PreferredGuardIDs = []string{"guard-1"}

	r := ScoreGuard(scenarioGuard(), c, DefaultOptions())

	assert.InDelta(t, 30.0, r.Breakdown[FactorRating], 1e-9)
	assert.InDelta(t, 110.0, r.Score, 1e-9)
	assert.Len(t, r.Breakdown, 6)
}

func TestScoreGuard_Defaults(t *testing.T) {
	c := scenarioCriteria()
	c.MaxDistanceKm = 0
	c.MinRating = 0

	g := scenarioGuard()
	g.Location = northOf(c.PickupLocation, 45)
	assert.Positive(t, ScoreGuard(g, c, Options{}).Score, "default max distance is 50 km")

	g.Rating = 3.0
	assert.Zero(t, ScoreGuard(g, c, Options{}).Breakdown[FactorRating], "default min rating is 3.5")
}
