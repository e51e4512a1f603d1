package store

import (
	"context"

	"guard-matching/internal/models"

	"github.com/redis/go-redis/v9"
)

const guardGeoKey = "guards:geo"

type GeoIndex struct {
	redis *redis.Client
}

func NewGeoIndex(rdb *redis.Client) *GeoIndex {
	return &GeoIndex{redis: rdb}
}

func (g *GeoIndex) Upsert(ctx context.Context, guardID string, p models.GeoPoint) error {
	return g.redis.GeoAdd(ctx, guardGeoKey, &redis.GeoLocation{
		Name:      guardID,
		Longitude: p.Longitude,
		Latitude:  p.Latitude,
	}).Err()
}

func (g *GeoIndex) Remove(ctx context.Context, guardID string) error {
	return g.redis.ZRem(ctx, guardGeoKey, guardID).Err()
}

// Nearby returns guard IDs within radiusKm of p, nearest first.
func (g *GeoIndex) Nearby(ctx context.Context, p models.GeoPoint, radiusKm float64) ([]string, error) {
	return g.redis.GeoSearch(ctx, guardGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Longitude,
		Latitude:   p.Latitude,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
}

// Indexed reports for each id whether the index holds a position for it.
func (g *GeoIndex) Indexed(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	positions, err := g.redis.GeoPos(ctx, guardGeoKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	for i, pos := range positions {
		out[ids[i]] = pos != nil
	}
	return out, nil
}
