package service_test

import (
	"testing"
	"time"

	"hours-bank-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_RequiresDefaultOfficeBootstrap(t *testing.T) {
	e := newEnv(t)

	_, err := e.user.Register(1001, "ana", "Ana", "Silva")
	require.Error(t, err, "registration before the bootstrap must fail loudly")

	_, err = e.office.EnsureDefaultOffice()
	require.NoError(t, err)

	user, err := e.user.Register(1001, "ana", "Ana", "Silva")
	require.NoError(t, err)
	assert.Equal(t, models.RoleWorker, user.Role)
	assert.Equal(t, models.DefaultOfficeInitials, user.Office.Initials)
	assert.False(t, user.AtWork)
}

func TestEnsureDefaultOffice_Idempotent(t *testing.T) {
	e := newEnv(t)

	first, err := e.office.EnsureDefaultOffice()
	require.NoError(t, err)
	second, err := e.office.EnsureDefaultOffice()
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAssignOffice(t *testing.T) {
	e := newEnv(t)
	_, err := e.office.EnsureDefaultOffice()
	require.NoError(t, err)

	user, err := e.user.Register(1001, "ana", "Ana", "")
	require.NoError(t, err)

	start := utcDate(2016, time.September, 1)
	target := e.createOffice(t, "AD", &start)

	require.NoError(t, e.user.AssignOffice(user.ID, target.ID))

	reloaded, err := e.user.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, reloaded.OfficeID)
	assert.Equal(t, "AD", reloaded.Office.Initials)
}

func TestSetOpeningBalance(t *testing.T) {
	e := newEnv(t)
	start := utcDate(2016, time.September, 1)
	office := e.createOffice(t, "AD", &start)
	user := e.createUser(t, 1001, office.ID)

	require.NoError(t, e.user.SetOpeningBalance(user.ID, -7200))

	reloaded, err := e.user.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, -7200, reloaded.OpeningBalanceSeconds)
}

func TestInitializeAdmin(t *testing.T) {
	e := newEnv(t)
	_, err := e.office.EnsureDefaultOffice()
	require.NoError(t, err)

	// Unregistered chat id: deferred, not an error.
	require.NoError(t, e.user.InitializeAdmin(5005))

	// Zero disables the step.
	require.NoError(t, e.user.InitializeAdmin(0))

	registered, err := e.user.Register(5005, "boss", "Boss", "")
	require.NoError(t, err)
	assert.False(t, registered.IsAdmin())

	require.NoError(t, e.user.InitializeAdmin(5005))
	reloaded, err := e.user.GetByChatID(5005)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAdmin())
}

func TestStartControl(t *testing.T) {
	e := newEnv(t)
	office := e.createOffice(t, "AD", nil)

	require.NoError(t, e.office.StartControl(office.ID, utcDate(2016, time.September, 5)))

	reloaded, err := e.office.GetByID(office.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.HoursControlStartDate)
	assert.True(t, models.SameDate(*reloaded.HoursControlStartDate, utcDate(2016, time.September, 5)))
}
