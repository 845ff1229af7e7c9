package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/model"
)

type detectionRepository struct {
	db *sqlx.DB
}

func NewDetectionRepository(db *sqlx.DB) DetectionRepository {
	return &detectionRepository{db: db}
}

// Save inserts the event and fills in its ID and CreatedAt.
func (r *detectionRepository) Save(ctx context.Context, event *model.DetectionEvent) error {
	query := `
		INSERT INTO detection_events (crop, disease, confidence, latitude, longitude, image_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		event.Crop, event.Disease, event.Confidence, event.Latitude, event.Longitude, event.ImageKey,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert detection event: %w", err)
	}
	return nil
}

func (r *detectionRepository) ListWithinBox(ctx context.Context, box geo.Box, limit int) ([]model.DetectionEvent, error) {
	query := `
		SELECT id, crop, disease, confidence, latitude, longitude, image_key, created_at
		FROM detection_events
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		  AND latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY created_at DESC
		LIMIT $5
	`
	var events []model.DetectionEvent
	err := r.db.SelectContext(ctx, &events, query, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng, limit)
	if err != nil {
		return nil, fmt.Errorf("list detection events in box: %w", err)
	}
	return events, nil
}

func (r *detectionRepository) ListRecent(ctx context.Context, limit int) ([]model.DetectionEvent, error) {
	query := `
		SELECT id, crop, disease, confidence, latitude, longitude, image_key, created_at
		FROM detection_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	var events []model.DetectionEvent
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("list recent detection events: %w", err)
	}
	return events, nil
}

func (r *detectionRepository) SetImageKey(ctx context.Context, id int64, key string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE detection_events SET image_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("set detection image key: %w", err)
	}
	return nil
}
