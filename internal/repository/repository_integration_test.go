package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arogyakrishi/internal/database"
	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/repository"
)

// setupDB connects to TEST_DATABASE_URL, applies the schema and empties the
// tables. Tests are skipped when no database is reachable.
func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		t.Skipf("Postgres not available, skipping test: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE sent_alerts, users, detection_events RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func strPtr(s string) *string { return &s }
func fPtr(f float64) *float64 { return &f }

func TestDeviceUserRepository_Upsert(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewDeviceUserRepository(db)
	ctx := context.Background()

	first := &model.DeviceUser{
		Latitude: 17.385, Longitude: 78.4867,
		DeviceToken: strPtr("ExponentPushToken[abc]"), NotificationsEnabled: true, Language: strPtr("te"),
	}
	require.NoError(t, repo.Upsert(ctx, first))
	require.NotZero(t, first.ID)

	// Same token, new location, no language: keeps the stored language.
	second := &model.DeviceUser{
		Latitude: 17.40, Longitude: 78.50,
		DeviceToken: strPtr("ExponentPushToken[abc]"), NotificationsEnabled: false,
	}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	require.NotNil(t, second.Language)
	assert.Equal(t, "te", *second.Language)

	var got model.DeviceUser
	require.NoError(t, db.GetContext(ctx, &got,
		`SELECT id, latitude, longitude, device_token, notifications_enabled, language, created_at, updated_at FROM users WHERE id = $1`,
		first.ID))
	assert.InDelta(t, 17.40, got.Latitude, 1e-9)
	assert.False(t, got.NotificationsEnabled)
}

func TestDeviceUserRepository_ListNotifiableWithinBox(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewDeviceUserRepository(db)
	ctx := context.Background()

	users := []*model.DeviceUser{
		{Latitude: 17.39, Longitude: 78.49, DeviceToken: strPtr("near"), NotificationsEnabled: true},
		{Latitude: 17.39, Longitude: 78.49, DeviceToken: strPtr("muted"), NotificationsEnabled: false},
		{Latitude: 18.5, Longitude: 78.49, DeviceToken: strPtr("far"), NotificationsEnabled: true},
	}
	for _, u := range users {
		require.NoError(t, repo.Upsert(ctx, u))
	}

	got, err := repo.ListNotifiableWithinBox(ctx, geo.BoundingBox(geo.Point{Lat: 17.385, Lng: 78.4867}, 10))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "near", *got[0].DeviceToken)
}

func TestSentAlertRepository_Window(t *testing.T) {
	db := setupDB(t)
	users := repository.NewDeviceUserRepository(db)
	alerts := repository.NewSentAlertRepository(db)
	ctx := context.Background()

	u := &model.DeviceUser{Latitude: 1, Longitude: 1, DeviceToken: strPtr("t"), NotificationsEnabled: true}
	require.NoError(t, users.Upsert(ctx, u))

	sent, err := alerts.Create(ctx, u.ID, "Rice Blast")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sent.UserID)

	exists, err := alerts.ExistsSince(ctx, u.ID, "Rice Blast", sent.SentAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = alerts.ExistsSince(ctx, u.ID, "Rice Blast", sent.SentAt.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = alerts.ExistsSince(ctx, u.ID, "Tomato Late Blight", sent.SentAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDetectionRepository_SaveAndList(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewDetectionRepository(db)
	ctx := context.Background()

	located := &model.DetectionEvent{Crop: "Rice", Disease: "Rice Blast", Confidence: 0.8, Latitude: fPtr(17.39), Longitude: fPtr(78.49)}
	unlocated := &model.DetectionEvent{Crop: "Tomato", Disease: "Tomato Late Blight", Confidence: 0.7}
	require.NoError(t, repo.Save(ctx, located))
	require.NoError(t, repo.Save(ctx, unlocated))
	assert.NotZero(t, located.ID)
	assert.False(t, located.CreatedAt.IsZero())

	inBox, err := repo.ListWithinBox(ctx, geo.BoundingBox(geo.Point{Lat: 17.385, Lng: 78.4867}, 10), 50)
	require.NoError(t, err)
	require.Len(t, inBox, 1)
	assert.Equal(t, "Rice Blast", inBox[0].Disease)

	recent, err := repo.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	require.NoError(t, repo.SetImageKey(ctx, located.ID, "detections/x.jpg"))
}
