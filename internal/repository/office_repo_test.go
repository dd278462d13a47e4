package repository_test

import (
	"fmt"
	"testing"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newOfficeRepo(t *testing.T) repository.OfficeRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	repo, err := repository.NewGormOfficeRepository(db)
	require.NoError(t, err)
	return repo
}

func TestOfficeCreate_KeepsLegacyAbsenceDebitFlag(t *testing.T) {
	// The flag's false setting is a real configuration, not a missing value;
	// create must not replace it with a column default.

	repo := newOfficeRepo(t)

	legacy := &models.Office{
		Name:                   "Legacy Division",
		Initials:               "LD",
		RegularWorkSeconds:     25200,
		AbsenceDebitOnRestdays: false,
	}
	require.NoError(t, repo.Create(legacy))

	reloaded, err := repo.GetByInitials("LD")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.False(t, reloaded.AbsenceDebitOnRestdays)

	modern := &models.Office{
		Name:                   "Modern Division",
		Initials:               "MD",
		RegularWorkSeconds:     25200,
		AbsenceDebitOnRestdays: true,
	}
	require.NoError(t, repo.Create(modern))

	reloaded, err = repo.GetByInitials("MD")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.True(t, reloaded.AbsenceDebitOnRestdays)
}
