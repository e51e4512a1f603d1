package services

import (
	"context"

	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/metrics"
	"guard-matching/internal/matching"
	"guard-matching/internal/models"
)

type CatalogSearcher interface {
	Search(ctx context.Context, filters models.SearchFilters, userLocation *models.GeoPoint) ([]models.GuardProfile, error)
}

// SearchService answers catalog searches. Candidates come from the
// Elasticsearch catalog when one is configured and from the roster otherwise;
// the in-process filters and ordering are applied either way.
type SearchService struct {
	catalog CatalogSearcher
	roster  RosterReader
	logger  logger.Logger
}

func NewSearchService(catalog CatalogSearcher, roster RosterReader, log logger.Logger) *SearchService {
	return &SearchService{catalog: catalog, roster: roster, logger: log}
}

func (s *SearchService) Search(ctx context.Context, filters models.SearchFilters, userLocation *models.GeoPoint) ([]models.SearchResult, error) {
	if userLocation != nil && !userLocation.Valid() {
		userLocation = nil
	}

	guards := s.load(ctx, filters, userLocation)
	results := matching.SearchGuards(guards, filters, userLocation)
	metrics.MatchCandidates.WithLabelValues("search_guards").Observe(float64(len(results)))
	return results, nil
}

func (s *SearchService) load(ctx context.Context, filters models.SearchFilters, userLocation *models.GeoPoint) []models.GuardProfile {
	if s.catalog != nil {
		guards, err := s.catalog.Search(ctx, filters, userLocation)
		if err == nil {
			return guards
		}
		s.logger.Warn("catalog search failed, falling back to roster", map[string]interface{}{"error": err.Error()})
	}

	guards, err := s.roster.ListGuards(ctx)
	if err != nil {
		metrics.RosterReadFailures.WithLabelValues("search_guards").Inc()
		s.logger.Error("roster read failed, returning no results", map[string]interface{}{"error": err.Error()})
		return []models.GuardProfile{}
	}
	return guards
}
