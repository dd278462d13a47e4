package repository

import (
	"errors"
	"time"

	"hours-bank-bot/internal/models"

	"gorm.io/gorm"
)

type OfficeRepository interface {
	Create(office *models.Office) error
	Update(office *models.Office) error
	GetByID(id uint) (*models.Office, error)
	GetByInitials(initials string) (*models.Office, error)
	GetAll() ([]*models.Office, error)
	GetUsers(officeID uint) ([]*models.User, error)
	SetLastBalanceDate(officeID uint, date time.Time) error
}

type GormOfficeRepository struct {
	db *gorm.DB
}

func NewGormOfficeRepository(db *gorm.DB) (OfficeRepository, error) {
	if err := db.AutoMigrate(&models.Office{}); err != nil {
		return nil, err
	}
	return &GormOfficeRepository{db: db}, nil
}

func (r *GormOfficeRepository) Create(office *models.Office) error {
	if !office.IsValid() {
		return errors.New("invalid office data")
	}
	return r.db.Create(office).Error
}

func (r *GormOfficeRepository) Update(office *models.Office) error {
	if !office.IsValid() {
		return errors.New("invalid office data")
	}
	return r.db.Save(office).Error
}

func (r *GormOfficeRepository) GetByID(id uint) (*models.Office, error) {
	var office models.Office
	result := r.db.First(&office, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &office, nil
}

func (r *GormOfficeRepository) GetByInitials(initials string) (*models.Office, error) {
	var office models.Office
	result := r.db.Where("initials = ?", initials).First(&office)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &office, nil
}

func (r *GormOfficeRepository) GetAll() ([]*models.Office, error) {
	var offices []*models.Office
	err := r.db.Order("initials").Find(&offices).Error
	return offices, err
}

func (r *GormOfficeRepository) GetUsers(officeID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.Where("office_id = ?", officeID).Find(&users).Error
	return users, err
}

func (r *GormOfficeRepository) SetLastBalanceDate(officeID uint, date time.Time) error {
	day := models.DateOf(date)
	return r.db.Model(&models.Office{}).
		Where("id = ?", officeID).
		Update("last_balance_date", &day).Error
}
