package service

import (
	"context"
	"fmt"
	"strings"

	"arogyakrishi/internal/localization"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/repository"
)

// DeviceService registers devices for nearby alerts.
type DeviceService struct {
	users repository.DeviceUserRepository
}

// NewDeviceService accepts a nil repository when no database is configured.
func NewDeviceService(users repository.DeviceUserRepository) *DeviceService {
	return &DeviceService{users: users}
}

// Register creates or refreshes the device keyed by its token. A stored
// language is kept when the request omits one.
func (s *DeviceService) Register(ctx context.Context, req *model.RegisterDeviceRequest) (*model.RegisterDeviceResponse, error) {
	token := strings.TrimSpace(req.DeviceToken)
	if token == "" {
		return nil, model.ErrDeviceTokenRequired
	}
	if err := validateCoordinates(&req.Latitude, &req.Longitude); err != nil {
		return nil, err
	}

	var lang *string
	if req.Language != nil && strings.TrimSpace(*req.Language) != "" {
		l, err := localization.ValidateLanguage(*req.Language)
		if err != nil {
			return nil, err
		}
		lang = &l
	}

	if s.users == nil {
		return nil, model.ErrPersistenceUnavailable
	}

	enabled := true
	if req.NotificationsEnabled != nil {
		enabled = *req.NotificationsEnabled
	}

	user := &model.DeviceUser{
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		DeviceToken:          &token,
		NotificationsEnabled: enabled,
		Language:             lang,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	return &model.RegisterDeviceResponse{OK: true}, nil
}
