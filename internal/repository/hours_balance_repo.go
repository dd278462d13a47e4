package repository

import (
	"errors"
	"sync"
	"time"

	"hours-bank-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HoursBalanceRepository interface {
	// Upsert writes the (user, date) row with the given credit and debit,
	// recomputing its stored balance from the previous row and cascading the
	// recomputation through every later row for the same user.
	Upsert(userID uint, date time.Time, credit, debit int) (*models.HoursBalance, error)
	// UpdateDebit rewrites only the debit of an existing row, keeping its
	// credit. Returns nil without error when no row exists for the date.
	UpdateDebit(userID uint, date time.Time, debit int) (*models.HoursBalance, error)
	Get(userID uint, date time.Time) (*models.HoursBalance, error)
	Latest(userID uint) (*models.HoursBalance, error)
	GetByUserAndMonth(userID uint, year, month int) ([]models.HoursBalance, error)
	GetByUserAndYear(userID uint, year int) ([]models.HoursBalance, error)
	GetByDate(date time.Time) ([]models.HoursBalance, error)
}

type GormHoursBalanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger

	// One mutex per user serializes ledger writes so an interleaved write
	// cannot short-circuit a cascade in progress. Writes for different
	// users never conflict.
	userLocks sync.Map
}

func NewGormHoursBalanceRepository(db *gorm.DB) (*GormHoursBalanceRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.HoursBalance{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate hours_balances table")
		return nil, err
	}

	return &GormHoursBalanceRepository{db: db, logger: logger}, nil
}

func (r *GormHoursBalanceRepository) lockUser(userID uint) func() {
	v, _ := r.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (r *GormHoursBalanceRepository) Upsert(userID uint, date time.Time, credit, debit int) (*models.HoursBalance, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	day := models.DateOf(date)

	unlock := r.lockUser(userID)
	defer unlock()

	var row models.HoursBalance
	err := r.db.Transaction(func(tx *gorm.DB) error {
		prevBalance, err := previousBalance(tx, userID, day)
		if err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND date = ?", userID, day).First(&row)
		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			row = models.HoursBalance{
				UserID:  userID,
				Date:    day,
				Credit:  credit,
				Debit:   debit,
				Balance: prevBalance + credit - debit,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case result.Error != nil:
			return result.Error
		default:
			row.Credit = credit
			row.Debit = debit
			row.Balance = prevBalance + credit - debit
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}

		return cascadeForward(tx, userID, day, row.Balance)
	})
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"date":    day.Format("2006-01-02"),
		}).Error("Failed to upsert balance row")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"date":    day.Format("2006-01-02"),
		"credit":  credit,
		"debit":   debit,
		"balance": row.Balance,
	}).Debug("Balance row upserted")

	return &row, nil
}

func (r *GormHoursBalanceRepository) UpdateDebit(userID uint, date time.Time, debit int) (*models.HoursBalance, error) {
	day := models.DateOf(date)

	unlock := r.lockUser(userID)
	defer unlock()

	var row models.HoursBalance
	found := true
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND date = ?", userID, day).First(&row)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		if result.Error != nil {
			return result.Error
		}

		prevBalance, err := previousBalance(tx, userID, day)
		if err != nil {
			return err
		}

		row.Debit = debit
		row.Balance = prevBalance + row.Credit - debit
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		return cascadeForward(tx, userID, day, row.Balance)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// previousBalance is the recurrence base: the balance of the row with the
// greatest date strictly before day, or zero when none exists.
func previousBalance(tx *gorm.DB, userID uint, day time.Time) (int, error) {
	var prev models.HoursBalance
	result := tx.Where("user_id = ? AND date < ?", userID, day).
		Order("date DESC").
		First(&prev)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if result.Error != nil {
		return 0, result.Error
	}
	return prev.Balance, nil
}

// cascadeForward walks every row after day in date order, recomputing each
// stored balance from the running value. A single bounded pass replaces the
// save-triggers-next-save chain: the cost is explicit and the walk is
// idempotent, so recomputing an already-correct row changes nothing.
func cascadeForward(tx *gorm.DB, userID uint, day time.Time, startBalance int) error {
	var later []models.HoursBalance
	if err := tx.Where("user_id = ? AND date > ?", userID, day).
		Order("date ASC").
		Find(&later).Error; err != nil {
		return err
	}

	running := startBalance
	for i := range later {
		running += later[i].Credit - later[i].Debit
		if later[i].Balance != running {
			if err := tx.Model(&models.HoursBalance{}).
				Where("id = ?", later[i].ID).
				Update("balance", running).Error; err != nil {
				return err
			}
		}
		later[i].Balance = running
	}
	return nil
}

func (r *GormHoursBalanceRepository) Get(userID uint, date time.Time) (*models.HoursBalance, error) {
	var row models.HoursBalance
	result := r.db.Where("user_id = ? AND date = ?", userID, models.DateOf(date)).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

func (r *GormHoursBalanceRepository) Latest(userID uint) (*models.HoursBalance, error) {
	var row models.HoursBalance
	result := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

func (r *GormHoursBalanceRepository) GetByUserAndMonth(userID uint, year, month int) ([]models.HoursBalance, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var rows []models.HoursBalance
	err := r.db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormHoursBalanceRepository) GetByUserAndYear(userID uint, year int) ([]models.HoursBalance, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var rows []models.HoursBalance
	err := r.db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormHoursBalanceRepository) GetByDate(date time.Time) ([]models.HoursBalance, error) {
	var rows []models.HoursBalance
	err := r.db.Where("date = ?", models.DateOf(date)).
		Order("user_id ASC").
		Find(&rows).Error
	return rows, err
}
