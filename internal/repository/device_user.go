package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/model"
)

type deviceUserRepository struct {
	db *sqlx.DB
}

func NewDeviceUserRepository(db *sqlx.DB) DeviceUserRepository {
	return &deviceUserRepository{db: db}
}

// Upsert creates or updates a device keyed by its token.
// If the token already exists, location and notification preference are
// refreshed; language only changes when a new one is supplied.
func (r *deviceUserRepository) Upsert(ctx context.Context, user *model.DeviceUser) error {
	query := `
		INSERT INTO users (latitude, longitude, device_token, notifications_enabled, language, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (device_token) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			notifications_enabled = EXCLUDED.notifications_enabled,
			language = COALESCE(EXCLUDED.language, users.language),
			updated_at = NOW()
		RETURNING id, language, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.Latitude, user.Longitude, user.DeviceToken, user.NotificationsEnabled, user.Language,
	).Scan(&user.ID, &user.Language, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert device user: %w", err)
	}
	return nil
}

func (r *deviceUserRepository) ListNotifiableWithinBox(ctx context.Context, box geo.Box) ([]model.DeviceUser, error) {
	query := `
		SELECT id, latitude, longitude, device_token, notifications_enabled, language, created_at, updated_at
		FROM users
		WHERE notifications_enabled = TRUE
		  AND latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
	`
	var users []model.DeviceUser
	err := r.db.SelectContext(ctx, &users, query, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("list notifiable users in box: %w", err)
	}
	return users, nil
}
