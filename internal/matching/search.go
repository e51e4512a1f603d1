package matching

import (
	"sort"

	"guard-matching/internal/models"
)

// SearchGuards applies the catalog hard filters in order and sorts the survivors.
// The distance filter is skipped without a user location; with one, guards that
// cannot be located fail it. An empty SortBy orders by CatalogScore.
func SearchGuards(guards []models.GuardProfile, filters models.SearchFilters, userLocation *models.GeoPoint) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(guards))
	for _, g := range guards {
		var distance *float64
		if userLocation != nil && g.Location != nil {
			d := DistanceKm(*userLocation, *g.Location)
			distance = &d
		}
		if !passesFilters(g, filters, userLocation, distance) {
			continue
		}
		results = append(results, models.SearchResult{
			Guard:      g,
			MatchScore: CatalogScore(g, filters.Query, filters.Languages, filters.Certifications),
			DistanceKm: distance,
		})
	}

	sortResults(results, filters.SortBy)
	return results
}

func passesFilters(g models.GuardProfile, f models.SearchFilters, userLocation *models.GeoPoint, distance *float64) bool {
	if f.Availability != nil && *f.Availability && !g.IsAvailable {
		return false
	}
	if f.MinRating > 0 && g.Rating < f.MinRating {
		return false
	}
	if f.MinHourlyRate > 0 && g.HourlyRate < f.MinHourlyRate {
		return false
	}
	if f.MaxHourlyRate > 0 && g.HourlyRate > f.MaxHourlyRate {
		return false
	}
	if f.MaxDistanceKm > 0 && userLocation != nil {
		if distance == nil || *distance > f.MaxDistanceKm {
			return false
		}
	}
	if len(f.Languages) > 0 && !anyLanguage(f.Languages, g.Languages) {
		return false
	}
	if len(f.Certifications) > 0 {
		matched := false
		for _, c := range f.Certifications {
			if hasCertification(g.Certifications, c) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func sortResults(results []models.SearchResult, sortBy string) {
	var less func(a, b models.SearchResult) bool
	switch sortBy {
	case models.SortByRating:
		less = func(a, b models.SearchResult) bool { return a.Guard.Rating > b.Guard.Rating }
	case models.SortByPriceLow:
		less = func(a, b models.SearchResult) bool { return a.Guard.HourlyRate < b.Guard.HourlyRate }
	case models.SortByPriceHigh:
		less = func(a, b models.SearchResult) bool { return a.Guard.HourlyRate > b.Guard.HourlyRate }
	case models.SortByExperience:
		less = func(a, b models.SearchResult) bool { return a.Guard.CompletedJobs > b.Guard.CompletedJobs }
	case models.SortByDistance:
		less = func(a, b models.SearchResult) bool {
			switch {
			case a.DistanceKm == nil:
				return false
			case b.DistanceKm == nil:
				return true
			default:
				return *a.DistanceKm < *b.DistanceKm
			}
		}
	default:
		less = func(a, b models.SearchResult) bool { return a.MatchScore > b.MatchScore }
	}
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}
