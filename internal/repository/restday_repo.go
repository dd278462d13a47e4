package repository

import (
	"errors"
	"time"

	"hours-bank-bot/internal/models"

	"gorm.io/gorm"
)

type RestdayRepository interface {
	Create(day *models.Restday) error
	Update(day *models.Restday) error
	Delete(id uint) error
	GetByID(id uint) (*models.Restday, error)
	GetByDate(date time.Time) (*models.Restday, error)
	GetByYearMonth(year, month int) ([]models.Restday, error)
	GetAll() ([]models.Restday, error)
	BulkCreate(days []models.Restday) error
	IsRestday(date time.Time) (bool, error)
}

type GormRestdayRepository struct {
	db *gorm.DB
}

func NewGormRestdayRepository(db *gorm.DB) (RestdayRepository, error) {
	if err := db.AutoMigrate(&models.Restday{}); err != nil {
		return nil, err
	}
	return &GormRestdayRepository{db: db}, nil
}

func (r *GormRestdayRepository) Create(day *models.Restday) error {
	if !day.IsValid() {
		return errors.New("invalid restday data")
	}
	day.Date = models.DateOf(day.Date)

	existing, err := r.GetByDate(day.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("restday already exists for this date")
	}

	return r.db.Create(day).Error
}

func (r *GormRestdayRepository) Update(day *models.Restday) error {
	if !day.IsValid() {
		return errors.New("invalid restday data")
	}
	day.Date = models.DateOf(day.Date)
	return r.db.Save(day).Error
}

func (r *GormRestdayRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Restday{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("restday not found")
	}
	return nil
}

func (r *GormRestdayRepository) GetByID(id uint) (*models.Restday, error) {
	var day models.Restday
	result := r.db.First(&day, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &day, nil
}

func (r *GormRestdayRepository) GetByDate(date time.Time) (*models.Restday, error) {
	var day models.Restday
	result := r.db.Where("date = ?", models.DateOf(date)).First(&day)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &day, nil
}

func (r *GormRestdayRepository) GetByYearMonth(year, month int) ([]models.Restday, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var days []models.Restday
	err := r.db.Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

func (r *GormRestdayRepository) GetAll() ([]models.Restday, error) {
	var days []models.Restday
	err := r.db.Order("date ASC").Find(&days).Error
	return days, err
}

// BulkCreate inserts the given restdays, skipping dates that already have
// one. Used by the holiday calendar import.
func (r *GormRestdayRepository) BulkCreate(days []models.Restday) error {
	if len(days) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range days {
			days[i].Date = models.DateOf(days[i].Date)
			var count int64
			if err := tx.Model(&models.Restday{}).
				Where("date = ?", days[i].Date).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&days[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRestdayRepository) IsRestday(date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Restday{}).
		Where("date = ?", models.DateOf(date)).
		Count(&count).Error
	return count > 0, err
}
