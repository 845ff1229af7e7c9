package repository

import (
	"context"
	"time"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/model"
)

type DetectionRepository interface {
	Save(ctx context.Context, event *model.DetectionEvent) error
	// ListWithinBox returns events whose coordinates fall inside box, newest first.
	ListWithinBox(ctx context.Context, box geo.Box, limit int) ([]model.DetectionEvent, error)
	ListRecent(ctx context.Context, limit int) ([]model.DetectionEvent, error)
	SetImageKey(ctx context.Context, id int64, key string) error
}

type DeviceUserRepository interface {
	// Upsert creates or refreshes the device identified by user.DeviceToken.
	// Language is only overwritten when non-nil.
	Upsert(ctx context.Context, user *model.DeviceUser) error
	// ListNotifiableWithinBox returns users with notifications enabled inside box.
	ListNotifiableWithinBox(ctx context.Context, box geo.Box) ([]model.DeviceUser, error)
}

type SentAlertRepository interface {
	ExistsSince(ctx context.Context, userID int64, disease string, since time.Time) (bool, error)
	Create(ctx context.Context, userID int64, disease string) (*model.SentAlert, error)
}
