package models

import "time"

type ViewMode string

const (
	ViewCard    ViewMode = "card"
	ViewList    ViewMode = "list"
	ViewCompact ViewMode = "compact"
)

// Settings holds per-client dashboard preferences.
type Settings struct {
	ClientID  string    `json:"clientId" gorm:"primaryKey;size:128"`
	ViewMode  ViewMode  `json:"viewMode" gorm:"size:16;not null"`
	DarkMode  bool      `json:"darkMode"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultSettings is what a client sees before saving anything.
func DefaultSettings(clientID string) Settings {
	return Settings{ClientID: clientID, ViewMode: ViewCard}
}
