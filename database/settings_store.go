package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Darshit9241/billing-webiste-sub000/models"
)

type SettingsStore interface {
	// Get returns defaults when nothing was saved for clientID.
	Get(ctx context.Context, clientID string) (models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

type GormSettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *GormSettingsStore {
	return &GormSettingsStore{db: db}
}

func (s *GormSettingsStore) Get(ctx context.Context, clientID string) (models.Settings, error) {
	var out models.Settings
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(clientID), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return out, nil
}

func (s *GormSettingsStore) Save(ctx context.Context, st *models.Settings) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"view_mode", "dark_mode", "updated_at"}),
		}).
		Create(st).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
