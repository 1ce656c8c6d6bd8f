package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Darshit9241/billing-webiste-sub000/billing"
	"github.com/Darshit9241/billing-webiste-sub000/database"
	"github.com/Darshit9241/billing-webiste-sub000/models"
)

const DefaultClientID = "default"

type SettingsInput struct {
	ViewMode *models.ViewMode `json:"viewMode" validate:"omitempty,oneof=card list compact"`
	DarkMode *bool            `json:"darkMode"`
}

type SettingsService struct {
	store database.SettingsStore
}

func NewSettingsService(store database.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

func clientKey(clientID string) string {
	if id := strings.TrimSpace(clientID); id != "" {
		return id
	}
	return DefaultClientID
}

func (s *SettingsService) Get(ctx context.Context, clientID string) (models.Settings, error) {
	return s.store.Get(ctx, clientKey(clientID))
}

// Update applies the non-nil fields of in on top of the stored settings.
func (s *SettingsService) Update(ctx context.Context, clientID string, in SettingsInput) (models.Settings, error) {
	current, err := s.store.Get(ctx, clientKey(clientID))
	if err != nil {
		return models.Settings{}, err
	}
	if in.ViewMode != nil {
		switch *in.ViewMode {
		case models.ViewCard, models.ViewList, models.ViewCompact:
			current.ViewMode = *in.ViewMode
		default:
			return models.Settings{}, &billing.ValidationError{Field: "viewMode", Message: "unknown view mode"}
		}
	}
	if in.DarkMode != nil {
		current.DarkMode = *in.DarkMode
	}
	if err := s.store.Save(ctx, &current); err != nil {
		log.Error().Err(err).Str("client_id", current.ClientID).Msg("failed to save settings")
		return models.Settings{}, err
	}
	return current, nil
}
