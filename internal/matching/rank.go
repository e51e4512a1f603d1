package matching

import (
	"sort"

	"guard-matching/internal/models"
)

const (
	DefaultMatchLimit               = 10
	DefaultAlternativesLimit        = 5
	DefaultPreferredRatingThreshold = 4.0
)

// FindBestMatches scores every available, KYC-approved guard, drops zero
// scores and returns at most limit results ordered by score descending.
// Equal scores are ordered by guard ID.
func FindBestMatches(roster []models.GuardProfile, criteria models.BookingCriteria, limit int, opts Options) []models.MatchResult {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	results := make([]models.MatchResult, 0, len(roster))
	for _, g := range roster {
		if !g.IsAvailable || !g.KYCApproved() {
			continue
		}
		r := ScoreGuard(g, criteria, opts)
		if r.Score <= 0 {
			continue
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Guard.ID < results[j].Guard.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// AlternativeGuards ranks replacements for a booking, never returning the originally assigned guard.
func AlternativeGuards(roster []models.GuardProfile, originalGuardID string, booking models.Booking, limit int, opts Options) []models.MatchResult {
	if limit <= 0 {
		limit = DefaultAlternativesLimit
	}
	matches := FindBestMatches(roster, booking.Criteria(), limit+1, opts)

	out := make([]models.MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.Guard.ID == originalGuardID {
			continue
		}
		out = append(out, m)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PreferredGuards returns, sorted, the guards whose average client rating over
// completed bookings reaches threshold. Unrated bookings are ignored.
func PreferredGuards(history []models.Booking, threshold float64) []string {
	if threshold <= 0 {
		threshold = DefaultPreferredRatingThreshold
	}

	type agg struct {
		sum   float64
		count int
	}
	byGuard := make(map[string]*agg)
	for _, b := range history {
		if b.Status != models.BookingStatusCompleted || b.Rating == nil || b.GuardID == "" {
			continue
		}
		a, ok := byGuard[b.GuardID]
		if !ok {
			a = &agg{}
			byGuard[b.GuardID] = a
		}
		a.sum += *b.Rating
		a.count++
	}

	preferred := make([]string, 0, len(byGuard))
	for id, a := range byGuard {
		if a.sum/float64(a.count) >= threshold {
			preferred = append(preferred, id)
		}
	}
	sort.Strings(preferred)
	return preferred
}

// Recommend boosts the client's historically well-rated guards and ranks the roster.
func Recommend(roster []models.GuardProfile, history []models.Booking, criteria models.BookingCriteria, threshold float64, limit int, opts Options) []models.MatchResult {
	criteria.PreferredGuardIDs = mergeIDs(criteria.PreferredGuardIDs, PreferredGuards(history, threshold))
	return FindBestMatches(roster, criteria, limit, opts)
}

func mergeIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
