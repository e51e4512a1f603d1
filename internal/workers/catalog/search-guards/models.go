package searchguards

import "guard-matching/internal/models"

type Input struct {
	RawFilters   map[string]interface{} `json:"rawFilters"`
	UserLocation *models.GeoPoint       `json:"userLocation,omitempty"`
}

type Output struct {
	Filters      models.SearchFilters  `json:"appliedFilters"`
	Results      []models.SearchResult `json:"results"`
	TotalResults int                   `json:"totalResults"`
}
