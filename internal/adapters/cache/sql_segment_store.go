package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"walking-route-service/internal/platform/obs"
	"walking-route-service/internal/ports"
)

// SQLSegmentStore is the Postgres flavor of the persistent segment tier.
type SQLSegmentStore struct {
	DB *sql.DB
}

func NewSQLSegmentStore(db *sql.DB) *SQLSegmentStore {
	return &SQLSegmentStore{DB: db}
}

// InitSQLSchema creates the segment table when missing.
func InitSQLSchema(db *sql.DB) error {
	q := `
	CREATE TABLE IF NOT EXISTS segment_cache (
        pair_key        TEXT PRIMARY KEY,
        distance_meters DOUBLE PRECISION NOT NULL,
        path            TEXT NOT NULL
    );
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init segment store schema: %w", err)
	}
	return nil
}

// Fetch the stored path for one pair key.
func (s *SQLSegmentStore) Get(ctx context.Context, key string) (_ ports.WalkingPath, _ bool, err error) {
	defer obs.Time(ctx, "segment.store.Get")(&err)

	if s.DB == nil {
		return ports.WalkingPath{}, false, errors.New("segment store: db is nil")
	}
	if key == "" {
		return ports.WalkingPath{}, false, errors.New("get segment store: key must not be empty")
	}

	q := `
	SELECT distance_meters, path
    FROM segment_cache
    WHERE pair_key = $1;
	`

	var meters float64
	var pathJSON string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&meters, &pathJSON)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return ports.WalkingPath{}, false, nil
	}
	if err != nil {
		return ports.WalkingPath{}, false, fmt.Errorf("get segment store: query segment_cache table: %w", err)
	}

	path, err := decodePath(pathJSON)
	if err != nil {
		return ports.WalkingPath{}, false, fmt.Errorf("get segment store: %w", err)
	}

	return ports.WalkingPath{DistanceMeters: meters, Path: path}, true, nil
}

// Store one path under its pair key, replacing any previous value.
func (s *SQLSegmentStore) Put(ctx context.Context, key string, p ports.WalkingPath) (err error) {
	defer obs.Time(ctx, "segment.store.Put")(&err)

	if s.DB == nil {
		return errors.New("segment store: db is nil")
	}
	if key == "" {
		return errors.New("insert segment store: key must not be empty")
	}

	pathJSON, err := encodePath(p.Path)
	if err != nil {
		return fmt.Errorf("insert segment store: %w", err)
	}

	q := `
	INSERT INTO segment_cache (pair_key, distance_meters, path)
    VALUES ($1, $2, $3)
	ON CONFLICT (pair_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		path = EXCLUDED.path;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, p.DistanceMeters, pathJSON); err != nil {
		return fmt.Errorf("insert segment store key=%q: %w", key, err)
	}
	return nil
}
