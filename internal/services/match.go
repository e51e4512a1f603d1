package services

import (
	"context"
	stderrors "errors"
	"time"

	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/metrics"
	"guard-matching/internal/matching"
	"guard-matching/internal/models"
	"guard-matching/internal/store"

	"golang.org/x/sync/errgroup"
)

// Redis GEO uses a slightly different earth radius than the scorer.
const geoPrefilterSlack = 1.01

type MatchService struct {
	roster   RosterReader
	bookings BookingReader
	geo      NearbyFinder
	settings Settings
	logger   logger.Logger
}

// NewMatchService wires the ranking operations. geo may be nil, in which
// case every roster guard is scored.
func NewMatchService(roster RosterReader, bookings BookingReader, geo NearbyFinder, settings Settings, log logger.Logger) *MatchService {
	return &MatchService{
		roster:   roster,
		bookings: bookings,
		geo:      geo,
		settings: settings,
		logger:   log,
	}
}

func (s *MatchService) FindBestMatches(ctx context.Context, criteria models.BookingCriteria, limit int) ([]models.MatchResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, invalidCriteria(err)
	}
	criteria = s.settings.applyCriteriaDefaults(criteria)
	if limit <= 0 {
		limit = s.settings.DefaultLimit
	}

	start := time.Now()
	roster := s.candidates(ctx, "find_best_matches", criteria)
	results := matching.FindBestMatches(roster, criteria, limit, s.settings.Scoring)
	s.observe("find_best_matches", results, len(roster), start)
	return results, nil
}

func (s *MatchService) FindAlternativeGuards(ctx context.Context, bookingID string, limit int) ([]models.MatchResult, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewBookingNotFoundError(bookingID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_booking", err)
	}
	if limit <= 0 {
		limit = s.settings.AlternativesLimit
	}

	start := time.Now()
	criteria := s.settings.applyCriteriaDefaults(booking.Criteria())
	roster := s.candidates(ctx, "find_alternative_guards", criteria)
	results := matching.AlternativeGuards(roster, booking.GuardID, booking, limit, s.settings.Scoring)
	s.observe("find_alternative_guards", results, len(roster), start)
	return results, nil
}

// RecommendGuards ranks the roster with the client's well-rated guards
// boosted. A failed history read only loses the boost.
func (s *MatchService) RecommendGuards(ctx context.Context, clientID string, criteria models.BookingCriteria, limit int) ([]models.MatchResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, invalidCriteria(err)
	}
	criteria = s.settings.applyCriteriaDefaults(criteria)
	if limit <= 0 {
		limit = s.settings.DefaultLimit
	}

	start := time.Now()
	var (
		roster  []models.GuardProfile
		history []models.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roster = s.candidates(gctx, "recommend_guards", criteria)
		return nil
	})
	g.Go(func() error {
		h, err := s.bookings.ListByClient(gctx, clientID)
		if err != nil {
			s.logger.Warn("booking history unavailable, recommending without preferences", map[string]interface{}{
				"clientId": clientID,
				"error":    err.Error(),
			})
			return nil
		}
		history = h
		return nil
	})
	_ = g.Wait()

	results := matching.Recommend(roster, history, criteria, s.settings.PreferredRatingThreshold, limit, s.settings.Scoring)
	s.observe("recommend_guards", results, len(roster), start)
	return results, nil
}

// candidates loads the roster, narrowed by the geo index when one is
// configured. Read failures degrade to an empty roster.
func (s *MatchService) candidates(ctx context.Context, operation string, criteria models.BookingCriteria) []models.GuardProfile {
	roster, err := s.roster.ListGuards(ctx)
	if err != nil {
		metrics.RosterReadFailures.WithLabelValues(operation).Inc()
		s.logger.Error("roster read failed, returning no matches", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
		return []models.GuardProfile{}
	}
	if s.geo == nil {
		return roster
	}

	ids, err := s.geo.Nearby(ctx, criteria.PickupLocation, criteria.MaxDistanceKm*geoPrefilterSlack)
	if err != nil {
		s.logger.Warn("geo prefilter failed, scoring full roster", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
		return roster
	}

	nearby := make(map[string]bool, len(ids))
	for _, id := range ids {
		nearby[id] = true
	}
	var outside []string
	for _, g := range roster {
		if !nearby[g.ID] {
			outside = append(outside, g.ID)
		}
	}
	indexed, err := s.geo.Indexed(ctx, outside)
	if err != nil {
		s.logger.Warn("geo membership lookup failed, scoring full roster", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
		return roster
	}
	return prefilterRoster(roster, nearby, indexed)
}

// prefilterRoster drops only guards the index places outside the radius.
// Guards without an indexed position are kept and left to the exact cutoff.
func prefilterRoster(roster []models.GuardProfile, nearby, indexed map[string]bool) []models.GuardProfile {
	out := make([]models.GuardProfile, 0, len(roster))
	for _, g := range roster {
		if nearby[g.ID] || !indexed[g.ID] {
			out = append(out, g)
		}
	}
	return out
}

func (s *MatchService) observe(operation string, results []models.MatchResult, considered int, start time.Time) {
	metrics.MatchCandidates.WithLabelValues(operation).Observe(float64(len(results)))
	fields := map[string]interface{}{
		"operation":  operation,
		"considered": considered,
		"matched":    len(results),
		"duration":   time.Since(start).String(),
	}
	if len(results) > 0 {
		metrics.MatchTopScore.WithLabelValues(operation).Observe(results[0].Score)
		fields["topScore"] = results[0].Score
	}
	s.logger.Info("ranking complete", fields)
}
