package repositories

import (
	"errors"
	"fmt"

	"backoffice/internal/models"

	"gorm.io/gorm"
)

// GORMSettingsRepository is a GORM implementation of SettingsRepository.
type GORMSettingsRepository struct {
	db *gorm.DB
}

// NewGORMSettingsRepository creates a new instance of GORMSettingsRepository.
func NewGORMSettingsRepository(db *gorm.DB) *GORMSettingsRepository {
	return &GORMSettingsRepository{
		db: db,
	}
}

// GetAll retrieves every setting in the order it was saved.
func (r *GORMSettingsRepository) GetAll() ([]models.DocumentTypeSetting, error) {
	settings := []models.DocumentTypeSetting{}
	if err := r.db.Order("id").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to get document settings: %w", err)
	}
	return settings, nil
}

// GetByCustomer retrieves the setting of one customer group.
func (r *GORMSettingsRepository) GetByCustomer(customer string) (*models.DocumentTypeSetting, error) {
	var setting models.DocumentTypeSetting
	if err := r.db.First(&setting, "customer = ?", customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer group %s: %w", customer, ErrSettingNotFound)
		}
		return nil, fmt.Errorf("failed to get document setting for %s: %w", customer, err)
	}
	return &setting, nil
}

// ReplaceAll swaps the stored settings for the given list in one transaction.
func (r *GORMSettingsRepository) ReplaceAll(settings []models.DocumentTypeSetting) error {
	rows := make([]models.DocumentTypeSetting, len(settings))
	for i, s := range settings {
		s.Model = gorm.Model{}
		rows[i] = s
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.DocumentTypeSetting{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save document settings: %w", err)
	}
	return nil
}
