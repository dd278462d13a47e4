package models_test

import (
	"testing"
	"time"

	"hours-bank-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	noon := time.Date(2016, time.October, 3, 12, 34, 56, 789, time.UTC)
	assert.Equal(t, time.Date(2016, time.October, 3, 0, 0, 0, 0, time.UTC), models.DateOf(noon))
}

func TestLocalDateOf_CrossesMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:00 UTC on Oct 4 is still 22:00 on Oct 3 in São Paulo.
	instant := time.Date(2016, time.October, 4, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2016, time.October, 3, 0, 0, 0, 0, time.UTC), models.LocalDateOf(instant, loc))
}

func TestSameDate_IgnoresClockAndZone(t *testing.T) {
	a := time.Date(2016, time.October, 3, 23, 59, 0, 0, time.UTC)
	b := time.Date(2016, time.October, 3, 0, 0, 0, 0, time.UTC)
	assert.True(t, models.SameDate(a, b))
	assert.False(t, models.SameDate(a, b.AddDate(0, 0, 1)))
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, models.IsWeekend(time.Date(2016, time.October, 3, 0, 0, 0, 0, time.UTC))) // Monday
	assert.True(t, models.IsWeekend(time.Date(2016, time.October, 8, 0, 0, 0, 0, time.UTC)))  // Saturday
	assert.True(t, models.IsWeekend(time.Date(2016, time.October, 9, 0, 0, 0, 0, time.UTC)))  // Sunday
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00", models.FormatSeconds(0))
	assert.Equal(t, "07:00", models.FormatSeconds(25200))
	assert.Equal(t, "-07:00", models.FormatSeconds(-25200))
	assert.Equal(t, "14:15", models.FormatSeconds(14*3600+15*60))
	assert.Equal(t, "-00:30", models.FormatSeconds(-1800))
	assert.Equal(t, "27:46", models.FormatSeconds(99999), "hours are not wrapped at 24")
}

func TestOfficePolicy(t *testing.T) {
	start := time.Date(2016, time.September, 5, 0, 0, 0, 0, time.UTC)
	office := &models.Office{
		Name:                     "Audit Division",
		Initials:                 "AD",
		RegularWorkSeconds:       25200,
		CheckinToleranceSeconds:  600,
		CheckoutToleranceSeconds: 300,
		HoursControlStartDate:    &start,
	}

	assert.Equal(t, 7*time.Hour, office.RegularWorkHours())
	assert.Equal(t, 15*time.Minute, office.Tolerance())

	assert.False(t, office.IsControlled(start.AddDate(0, 0, -1)))
	assert.True(t, office.IsControlled(start))
	assert.True(t, office.IsControlled(start.AddDate(0, 1, 0)))

	assert.True(t, office.IsOpeningBalanceDay(start))
	assert.False(t, office.IsOpeningBalanceDay(start.AddDate(0, 0, 1)))

	office.HoursControlStartDate = nil
	assert.False(t, office.IsControlled(start))
	assert.False(t, office.IsOpeningBalanceDay(start))
}

func TestAbsenceCauses(t *testing.T) {
	assert.True(t, models.ValidCause(models.CauseMedical))
	assert.False(t, models.ValidCause("sabbatical"))

	a := &models.Absence{Cause: models.CauseMedical}
	assert.Equal(t, "Licença médica", a.CauseDisplay())

	unknown := &models.Absence{Cause: "???"}
	assert.Equal(t, "???", unknown.CauseDisplay())
}
