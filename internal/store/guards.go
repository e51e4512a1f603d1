package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guard-matching/internal/models"

	"github.com/lib/pq"
)

const guardColumns = `id, name, bio, latitude, longitude, hourly_rate, rating,
	completed_jobs, languages, certifications, is_available, kyc_status`

type GuardStore struct {
	db *sql.DB
}

func NewGuardStore(db *sql.DB) *GuardStore {
	return &GuardStore{db: db}
}

// ListGuards returns the whole roster ordered by id. Eligibility filtering is
// left to the matching engine.
func (s *GuardStore) ListGuards(ctx context.Context) ([]models.GuardProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+guardColumns+` FROM guards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list guards: %w", err)
	}
	defer rows.Close()
	return scanGuards(rows)
}

func (s *GuardStore) GetGuard(ctx context.Context, id string) (models.GuardProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+guardColumns+` FROM guards WHERE id = $1`, id)
	if err != nil {
		return models.GuardProfile{}, fmt.Errorf("get guard %s: %w", id, err)
	}
	defer rows.Close()

	guards, err := scanGuards(rows)
	if err != nil {
		return models.GuardProfile{}, err
	}
	if len(guards) == 0 {
		return models.GuardProfile{}, fmt.Errorf("guard %s: %w", id, ErrNotFound)
	}
	return guards[0], nil
}

func (s *GuardStore) GetContact(ctx context.Context, guardID string) (models.GuardContact, error) {
	c := models.GuardContact{GuardID: guardID}
	err := s.db.QueryRowContext(ctx,
		`SELECT name, COALESCE(email, ''), COALESCE(phone, '') FROM guards WHERE id = $1`, guardID,
	).Scan(&c.Name, &c.Email, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("guard contact %s: %w", guardID, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("get guard contact %s: %w", guardID, err)
	}
	return c, nil
}

func scanGuards(rows *sql.Rows) ([]models.GuardProfile, error) {
	guards := []models.GuardProfile{}
	for rows.Next() {
		var (
			g        models.GuardProfile
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Bio, &lat, &lng, &g.HourlyRate, &g.Rating,
			&g.CompletedJobs, pq.Array(&g.Languages), pq.Array(&g.Certifications),
			&g.IsAvailable, &g.KYCStatus,
		); err != nil {
			return nil, fmt.Errorf("scan guard: %w", err)
		}
		if lat.Valid && lng.Valid {
			g.Location = &models.GeoPoint{Latitude: lat.Float64, Longitude: lng.Float64}
		}
		guards = append(guards, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guards: %w", err)
	}
	return guards, nil
}
