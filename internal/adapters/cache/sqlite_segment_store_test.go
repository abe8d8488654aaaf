package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"walking-route-service/internal/domain"
	"walking-route-service/internal/ports"
)

func openTestStore(t *testing.T) *SqliteSegmentStore {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "segments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSqliteSchema(db))
	return NewSqliteSegmentStore(db)
}

func TestSqliteSegmentStoreRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := domain.PairKey(
		domain.Coordinate{Lat: 40.00, Lon: 29.00},
		domain.Coordinate{Lat: 40.01, Lon: 29.00},
	)
	want := ports.WalkingPath{
		DistanceMeters: 1111.5,
		Path: []domain.Coordinate{
			{Lat: 40.00, Lon: 29.00},
			{Lat: 40.004, Lon: 29.001},
			{Lat: 40.01, Lon: 29.00},
		},
	}

	require.NoError(t, store.Put(ctx, key, want))

	got, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestSqliteSegmentStoreMiss(t *testing.T) {
	store := openTestStore(t)

	_, found, err := store.Get(context.Background(), "no-such-key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSqliteSegmentStoreOverwrite(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := ports.WalkingPath{
		DistanceMeters: 500,
		Path:           []domain.Coordinate{{Lat: 40, Lon: 29}, {Lat: 40.005, Lon: 29}},
	}
	second := ports.WalkingPath{
		DistanceMeters: 520,
		Path: []domain.Coordinate{
			{Lat: 40, Lon: 29},
			{Lat: 40.002, Lon: 29.001},
			{Lat: 40.005, Lon: 29},
		},
	}

	require.NoError(t, store.Put(ctx, "k", first))
	require.NoError(t, store.Put(ctx, "k", second))

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, got)
}

func TestSqliteSegmentStoreRejectsEmptyKey(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, _, err := store.Get(ctx, "")
	assert.Error(t, err)

	err = store.Put(ctx, "", ports.WalkingPath{DistanceMeters: 1})
	assert.Error(t, err)
}
