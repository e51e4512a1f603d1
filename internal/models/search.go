package models

const (
	SortByRating     = "rating"
	SortByPriceLow   = "price_low"
	SortByPriceHigh  = "price_high"
	SortByDistance   = "distance"
	SortByExperience = "experience"
)

type SearchFilters struct {
	Query          string   `json:"query,omitempty"`
	Availability   *bool    `json:"availability,omitempty"`
	MinRating      float64  `json:"minRating,omitempty"`
	MinHourlyRate  float64  `json:"minHourlyRate,omitempty"`
	MaxHourlyRate  float64  `json:"maxHourlyRate,omitempty"`
	MaxDistanceKm  float64  `json:"maxDistanceKm,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	SortBy         string   `json:"sortBy,omitempty"`
}

type SearchResult struct {
	Guard      GuardProfile `json:"guard"`
	MatchScore int          `json:"matchScore"`
	DistanceKm *float64     `json:"distanceKm,omitempty"`
}
