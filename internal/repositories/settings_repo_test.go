package repositories_test

import (
	"fmt"
	"testing"

	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSettings() []models.DocumentTypeSetting {
	return []models.DocumentTypeSetting{
		{Customer: "EK", Document: models.DocumentChoice{ID: 1, Label: "Rechnung", Key: "invoice"}},
		{Customer: "ZAL", Document: models.DocumentChoice{ID: 4, Label: "Lieferschein", Key: "delivery"}, IsShipping: true},
	}
}

func newRepos(t *testing.T) map[string]repositories.SettingsRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repositories.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return map[string]repositories.SettingsRepository{
		"gorm":   repositories.NewGORMSettingsRepository(db),
		"memory": repositories.NewMockSettingsRepository(),
	}
}

func TestSettingsRepository_ReplaceAll(t *testing.T) {
	for name, repo := range newRepos(t) {
		t.Run(name, func(t *testing.T) {
			all, err := repo.GetAll()
			require.NoError(t, err)
			assert.Empty(t, all)

			require.NoError(t, repo.ReplaceAll(sampleSettings()))
			require.NoError(t, repo.ReplaceAll(sampleSettings()))

			all, err = repo.GetAll()
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "EK", all[0].Customer)
			assert.Equal(t, "Rechnung", all[0].Document.Label)
			assert.True(t, all[1].IsShipping)

			got, err := repo.GetByCustomer("ZAL")
			require.NoError(t, err)
			assert.Equal(t, 4, got.Document.ID)

			_, err = repo.GetByCustomer("H")
			assert.ErrorIs(t, err, repositories.ErrSettingNotFound)

			require.NoError(t, repo.ReplaceAll(nil))
			all, err = repo.GetAll()
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestOpenDatabase_UnsupportedDriver(t *testing.T) {
	_, err := repositories.OpenDatabase("mysql", "dsn")
	assert.Error(t, err)
}
