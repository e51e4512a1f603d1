package indexguardprofile

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"guard-matching/internal/common/config"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/models"
	"guard-matching/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuards map[string]models.GuardProfile

func (f fakeGuards) GetGuard(_ context.Context, id string) (models.GuardProfile, error) {
	g, ok := f[id]
	if !ok {
		return g, fmt.Errorf("guard %s: %w", id, store.ErrNotFound)
	}
	return g, nil
}

type fakeCatalog struct {
	indexed []string
	err     error
}

func (f *fakeCatalog) Index(_ context.Context, g models.GuardProfile) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, g.ID)
	return nil
}

type fakeGeo struct {
	points  map[string]models.GeoPoint
	removed []string
}

func (f *fakeGeo) Upsert(_ context.Context, id string, p models.GeoPoint) error {
	f.points[id] = p
	return nil
}

func (f *fakeGeo) Remove(_ context.Context, id string) error {
	delete(f.points, id)
	f.removed = append(f.removed, id)
	return nil
}

type fakeRoster struct {
	invalidations int
	err           error
}

func (f *fakeRoster) Invalidate(context.Context) error {
	f.invalidations++
	return f.err
}

var guards = fakeGuards{
	"g-1": {ID: "g-1", Location: &models.GeoPoint{Latitude: 12.97, Longitude: 77.59}},
	"g-2": {ID: "g-2"},
}

func TestHandler_Execute_IndexesEverywhere(t *testing.T) {
	cat := &fakeCatalog{}
	geo := &fakeGeo{points: map[string]models.GeoPoint{}}
	roster := &fakeRoster{}
	h := NewHandler(LoadConfig(config.WorkerConfig{}), guards, cat, geo, roster, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{GuardID: "g-1"})
	require.NoError(t, err)

	assert.Equal(t, &Output{GuardID: "g-1", CatalogIndexed: true, GeoIndexed: true}, out)
	assert.Equal(t, []string{"g-1"}, cat.indexed)
	assert.Contains(t, geo.points, "g-1")
	assert.Equal(t, 1, roster.invalidations)
}

func TestHandler_Execute_NoLocationRemovesFromGeo(t *testing.T) {
	geo := &fakeGeo{points: map[string]models.GeoPoint{"g-2": {Latitude: 1, Longitude: 1}}}
	h := NewHandler(LoadConfig(config.WorkerConfig{}), guards, nil, geo, &fakeRoster{}, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{GuardID: "g-2"})
	require.NoError(t, err)

	assert.False(t, out.CatalogIndexed)
	assert.False(t, out.GeoIndexed)
	assert.Equal(t, []string{"g-2"}, geo.removed)
	assert.NotContains(t, geo.points, "g-2")
}

func TestHandler_Execute_Errors(t *testing.T) {
	geo := &fakeGeo{points: map[string]models.GeoPoint{}}

	h := NewHandler(LoadConfig(config.WorkerConfig{}), guards, nil, geo, &fakeRoster{}, nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{GuardID: "g-404"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeGuardNotFound, errors.Normalize(err).Code)

	cat := &fakeCatalog{err: stderrors.New("es unavailable")}
	h = NewHandler(LoadConfig(config.WorkerConfig{}), guards, cat, geo, &fakeRoster{}, nil, logger.NewTestLogger(t))
	_, err = h.Execute(context.Background(), &Input{GuardID: "g-1"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSearchQueryFailed, errors.Normalize(err).Code)
	assert.Empty(t, geo.points)
}

func TestHandler_Execute_InvalidationFailureIsNotFatal(t *testing.T) {
	roster := &fakeRoster{err: stderrors.New("redis down")}
	geo := &fakeGeo{points: map[string]models.GeoPoint{}}
	h := NewHandler(LoadConfig(config.WorkerConfig{}), guards, nil, geo, roster, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{GuardID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, roster.invalidations)
}
