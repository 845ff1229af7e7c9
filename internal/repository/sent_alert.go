package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"arogyakrishi/internal/model"
)

type sentAlertRepository struct {
	db *sqlx.DB
}

func NewSentAlertRepository(db *sqlx.DB) SentAlertRepository {
	return &sentAlertRepository{db: db}
}

// ExistsSince reports whether an alert for (userID, disease) was sent at or after since.
func (r *sentAlertRepository) ExistsSince(ctx context.Context, userID int64, disease string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM sent_alerts
			WHERE user_id = $1 AND disease = $2 AND sent_at >= $3
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, disease, since); err != nil {
		return false, fmt.Errorf("check sent alert: %w", err)
	}
	return exists, nil
}

// Create records a dispatched alert. There is no uniqueness constraint;
// callers check ExistsSince first.
func (r *sentAlertRepository) Create(ctx context.Context, userID int64, disease string) (*model.SentAlert, error) {
	query := `
		INSERT INTO sent_alerts (user_id, disease)
		VALUES ($1, $2)
		RETURNING id, user_id, disease, sent_at
	`
	var alert model.SentAlert
	if err := r.db.GetContext(ctx, &alert, query, userID, disease); err != nil {
		return nil, fmt.Errorf("insert sent alert: %w", err)
	}
	return &alert, nil
}
