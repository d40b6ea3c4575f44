package repositories

import (
	"errors"

	"backoffice/internal/models"
)

// ErrSettingNotFound is returned when no document setting exists for a
// customer group.
var ErrSettingNotFound = errors.New("document setting not found")

// SettingsRepository defines the interface for document-type settings access.
type SettingsRepository interface {
	GetAll() ([]models.DocumentTypeSetting, error)
	GetByCustomer(customer string) (*models.DocumentTypeSetting, error)
	ReplaceAll(settings []models.DocumentTypeSetting) error
}
