package repositories

import (
	"fmt"
	"sync"

	"backoffice/internal/models"
)

// MockSettingsRepository is an in-memory implementation of SettingsRepository.
type MockSettingsRepository struct {
	settings []models.DocumentTypeSetting
	mu       sync.RWMutex
}

// NewMockSettingsRepository creates a new instance of MockSettingsRepository.
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

// GetAll returns all settings.
func (r *MockSettingsRepository) GetAll() ([]models.DocumentTypeSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DocumentTypeSetting, len(r.settings))
	copy(out, r.settings)
	return out, nil
}

// GetByCustomer returns the setting of one customer group.
func (r *MockSettingsRepository) GetByCustomer(customer string) (*models.DocumentTypeSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.settings {
		if s.Customer == customer {
			found := s
			return &found, nil
		}
	}
	return nil, fmt.Errorf("customer group %s: %w", customer, ErrSettingNotFound)
}

// ReplaceAll swaps the stored settings.
func (r *MockSettingsRepository) ReplaceAll(settings []models.DocumentTypeSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = make([]models.DocumentTypeSetting, len(settings))
	copy(r.settings, settings)
	return nil
}
