package service_test

import (
	"testing"
	"time"

	"hours-bank-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestdayCreate_RecomputesDebitsOnly(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	tuesday := utcDate(2016, time.September, 6)
	wednesday := utcDate(2016, time.September, 7)

	_, err := e.balances.Upsert(user.ID, tuesday, 30000, 25200)
	require.NoError(t, err)
	_, err = e.balances.Upsert(user.ID, wednesday, 0, 25200)
	require.NoError(t, err)

	// The holiday is registered after the fact.
	require.NoError(t, e.restday.Create(&models.Restday{
		Date: tuesday, Note: "Holiday", WorkSeconds: 0,
	}))

	row, err := e.balances.Get(user.ID, tuesday)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 30000, row.Credit, "credit is never touched by a restday change")
	assert.Equal(t, 0, row.Debit)
	assert.Equal(t, 30000, row.Balance)

	next, err := e.balances.Get(user.ID, wednesday)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 30000-25200, next.Balance, "later balances cascade")
}

func TestRestdayCreate_SkipsAdmins(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	worker := e.createUser(t, 1001, office.ID)
	admin := e.createUser(t, 1002, office.ID)
	require.NoError(t, e.users.UpdateRole(admin.ChatID, models.Role(models.RoleAdmin)))

	tuesday := utcDate(2016, time.September, 6)
	_, err := e.balances.Upsert(worker.ID, tuesday, 0, 25200)
	require.NoError(t, err)
	_, err = e.balances.Upsert(admin.ID, tuesday, 0, 25200)
	require.NoError(t, err)

	require.NoError(t, e.restday.Create(&models.Restday{
		Date: tuesday, Note: "Holiday", WorkSeconds: 0,
	}))

	workerRow, err := e.balances.Get(worker.ID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 0, workerRow.Debit)

	adminRow, err := e.balances.Get(admin.ID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 25200, adminRow.Debit, "admin rows are left alone")
}

func TestRestdayDelete_RestoresRegularDebit(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	tuesday := utcDate(2016, time.September, 6)
	require.NoError(t, e.restday.Create(&models.Restday{
		Date: tuesday, Note: "Holiday", WorkSeconds: 0,
	}))

	row, err := e.balance.DailyBalance(user, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 0, row.Debit)

	stored, err := e.restdays.GetByDate(tuesday)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NoError(t, e.restday.Delete(stored.ID))

	row, err = e.balances.Get(user.ID, tuesday)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 25200, row.Debit)
}

func TestRestdayImport_BulkCreatesAndRecomputes(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	tuesday := utcDate(2016, time.September, 6)
	_, err := e.balances.Upsert(user.ID, tuesday, 0, 25200)
	require.NoError(t, err)

	// One of the imported days already exists and must be skipped.
	require.NoError(t, e.restdays.Create(&models.Restday{
		Date: utcDate(2016, time.September, 7), Note: "Existing", WorkSeconds: 0,
	}))

	require.NoError(t, e.restday.Import([]models.Restday{
		{Date: tuesday, Note: "Holiday", WorkSeconds: 0},
		{Date: utcDate(2016, time.September, 7), Note: "Duplicate", WorkSeconds: 3600},
	}))

	row, err := e.balances.Get(user.ID, tuesday)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 0, row.Debit)

	existing, err := e.restdays.GetByDate(utcDate(2016, time.September, 7))
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "Existing", existing.Note)
}

func TestAbsenceCreate_RefreshesExistingRow(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	tuesday := utcDate(2016, time.September, 6)
	_, err := e.balances.Upsert(user.ID, tuesday, 0, 25200)
	require.NoError(t, err)

	require.NoError(t, e.absence.Create(&models.Absence{
		UserID:       user.ID,
		Date:         tuesday,
		Cause:        models.CauseMedical,
		DebitSeconds: 25200,
	}))

	row, err := e.balances.Get(user.ID, tuesday)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 0, row.Debit)
	assert.Equal(t, 0, row.Balance)
}

func TestAbsenceCreate_NoRowStaysLazy(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	tuesday := utcDate(2016, time.September, 6)
	require.NoError(t, e.absence.Create(&models.Absence{
		UserID:        user.ID,
		Date:          tuesday,
		Cause:         models.CauseVacation,
		CreditSeconds: 25200,
		DebitSeconds:  25200,
	}))

	row, err := e.balances.Get(user.ID, tuesday)
	require.NoError(t, err)
	assert.Nil(t, row, "no eager row for a date nobody has viewed")

	// The lazy read picks the absence up: vacation day nets to zero.
	created, err := e.balance.DailyBalance(user, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 25200, created.Credit)
	assert.Equal(t, 0, created.Debit)
	assert.Equal(t, 25200, created.Balance)
}

func TestAbsenceCreate_DuplicateRejected(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	tuesday := utcDate(2016, time.September, 6)
	first := &models.Absence{UserID: user.ID, Date: tuesday, Cause: models.CauseCourse}
	require.NoError(t, e.absence.Create(first))

	dup := &models.Absence{UserID: user.ID, Date: tuesday, Cause: models.CauseOther}
	require.Error(t, e.absence.Create(dup))
}

func TestAbsenceDelete_RestoresDebit(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	tuesday := utcDate(2016, time.September, 6)
	absence := &models.Absence{
		UserID:       user.ID,
		Date:         tuesday,
		Cause:        models.CauseMedical,
		DebitSeconds: 25200,
	}
	require.NoError(t, e.absence.Create(absence))

	row, err := e.balance.DailyBalance(user, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 0, row.Debit)

	require.NoError(t, e.absence.Delete(absence.ID))

	row, err = e.balances.Get(user.ID, tuesday)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 25200, row.Debit)
	assert.Equal(t, -25200, row.Balance)
}
