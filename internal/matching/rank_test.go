package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard-matching/internal/models"
)

func rosterAround(origin models.GeoPoint, n int) []models.GuardProfile {
	roster := make([]models.GuardProfile, 0, n)
	for i := 0; i < n; i++ {
		g := scenarioGuard()
		g.ID = fmt.Sprintf("guard-%02d", i)
		g.Location = northOf(origin, float64(i)*3)
		g.CompletedJobs = 10 * i
		roster = append(roster, g)
	}
	return roster
}

func ratingOf(v float64) *float64 { return &v }

func TestFindBestMatches_LimitAndOrder(t *testing.T) {
	c := scenarioCriteria()
	roster := rosterAround(c.PickupLocation, 12)

	results := FindBestMatches(roster, c, 3, DefaultOptions())

	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestFindBestMatches_DefaultLimit(t *testing.T) {
	c := scenarioCriteria()
	results := FindBestMatches(rosterAround(c.PickupLocation, 15), c, 0, DefaultOptions())
	assert.Len(t, results, DefaultMatchLimit)
}

func TestFindBestMatches_Eligibility(t *testing.T) {
	c := scenarioCriteria()

	available := scenarioGuard()
	available.ID = "available"

	unavailable := scenarioGuard()
	unavailable.ID = "unavailable"
	unavailable.IsAvailable = false

	pendingKYC := scenarioGuard()
	pendingKYC.ID = "pending-kyc"
	pendingKYC.KYCStatus = models.KYCStatusPending

	tooFar := scenarioGuard()
	tooFar.ID = "too-far"
	tooFar.Location = northOf(c.PickupLocation, 80)

	unlocated := scenarioGuard()
	unlocated.ID = "unlocated"
	unlocated.Location = nil

	results := FindBestMatches([]models.GuardProfile{unavailable, pendingKYC, tooFar, unlocated, available}, c, 10, DefaultOptions())

	require.Len(t, results, 1)
	assert.Equal(t, "available", results[0].Guard.ID)
}

func TestFindBestMatches_TiesAreDeterministic(t *testing.T) {
	c := scenarioCriteria()
	a, b, d := scenarioGuard(), scenarioGuard(), scenarioGuard()
	a.ID, b.ID, d.ID = "guard-c", "guard-a", "guard-b"

	for i := 0; i < 5; i++ {
		results := FindBestMatches([]models.GuardProfile{a, b, d}, c, 10, DefaultOptions())
		require.Len(t, results, 3)
		assert.Equal(t, []string{"guard-a", "guard-b", "guard-c"},
			[]string{results[0].Guard.ID, results[1].Guard.ID, results[2].Guard.ID})
	}
}

func TestFindBestMatches_PreferredGuardOutranks(t *testing.T) {
	c := scenarioCriteria()
	near := scenarioGuard()
	near.ID = "near"
	far := scenarioGuard()
	far.ID = "far"
	far.Location = northOf(c.PickupLocation, 10)
	c.PreferredGuardIDs = []string{"far"}

	results := FindBestMatches([]models.GuardProfile{near, far}, c, 10, DefaultOptions())

	require.Len(t, results, 2)
	assert.Equal(t, "far", results[0].Guard.ID)
}

func TestAlternativeGuards(t *testing.T) {
	c := scenarioCriteria()
	roster := rosterAround(c.PickupLocation, 8)
	booking := models.Booking{
		ID:             "booking-1",
		GuardID:        "guard-07",
		PickupLocation: c.PickupLocation,
		Languages:      c.Languages,
		ScheduledDate:  c.ScheduledDate,
		StartTime:      c.StartTime,
		DurationHours:  c.DurationHours,
	}

	best := FindBestMatches(roster, booking.Criteria(), 1, DefaultOptions())
	require.Len(t, best, 1)
	original := best[0].Guard.ID

	alts := AlternativeGuards(roster, original, booking, 3, DefaultOptions())

	require.Len(t, alts, 3, "limit is honoured even after excluding the original guard")
	for _, a := range alts {
		assert.NotEqual(t, original, a.Guard.ID)
	}
}

func TestAlternativeGuards_DefaultLimit(t *testing.T) {
	c := scenarioCriteria()
	booking := models.Booking{PickupLocation: c.PickupLocation, ScheduledDate: c.ScheduledDate, StartTime: c.StartTime, DurationHours: 2}

	alts := AlternativeGuards(rosterAround(c.PickupLocation, 12), "guard-00", booking, 0, DefaultOptions())
	assert.Len(t, alts, DefaultAlternativesLimit)
}

func TestPreferredGuards(t *testing.T) {
	history := []models.Booking{
		{GuardID: "g-1", Status: models.BookingStatusCompleted, Rating: ratingOf(5)},
		{GuardID: "g-1", Status: models.BookingStatusCompleted, Rating: ratingOf(3)},
		{GuardID: "g-2", Status: models.BookingStatusCompleted, Rating: ratingOf(3.9)},
		{GuardID: "g-3", Status: models.BookingStatusCancelled, Rating: ratingOf(5)},
		{GuardID: "g-4", Status: models.BookingStatusCompleted},
		{GuardID: "g-5", Status: models.BookingStatusCompleted, Rating: ratingOf(4.5)},
	}

	assert.Equal(t, []string{"g-1", "g-5"}, PreferredGuards(history, 4.0))
	assert.Equal(t, []string{"g-5"}, PreferredGuards(history, 4.5))
	assert.Empty(t, PreferredGuards(nil, 0))
}

func TestRecommend_BoostsPreferredGuards(t *testing.T) {
	c := scenarioCriteria()
	near := scenarioGuard()
	near.ID = "near"
	loyal := scenarioGuard()
	loyal.ID = "loyal"
	loyal.Location = northOf(c.PickupLocation, 10)

	history := []models.Booking{
		{GuardID: "loyal", Status: models.BookingStatusCompleted, Rating: ratingOf(4.8)},
	}

	results := Recommend([]models.GuardProfile{near, loyal}, history, c, 4.0, 10, DefaultOptions())

	require.Len(t, results, 2)
	assert.Equal(t, "loyal", results[0].Guard.ID)
	assert.InDelta(t, 30.0, results[0].Breakdown[FactorRating], 1e-9)
}
