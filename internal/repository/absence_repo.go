package repository

import (
	"errors"
	"time"

	"hours-bank-bot/internal/models"

	"gorm.io/gorm"
)

type AbsenceRepository interface {
	Create(absence *models.Absence) error
	Update(absence *models.Absence) error
	Delete(id uint) error
	GetByID(id uint) (*models.Absence, error)
	GetByUserAndDate(userID uint, date time.Time) (*models.Absence, error)
	GetByUserID(userID uint) ([]models.Absence, error)
	GetByDate(date time.Time) ([]models.Absence, error)
	Exists(userID uint, date time.Time) (bool, error)
}

type GormAbsenceRepository struct {
	db *gorm.DB
}

func NewGormAbsenceRepository(db *gorm.DB) (AbsenceRepository, error) {
	if err := db.AutoMigrate(&models.Absence{}); err != nil {
		return nil, err
	}
	return &GormAbsenceRepository{db: db}, nil
}

func (r *GormAbsenceRepository) Create(absence *models.Absence) error {
	if !absence.IsValid() {
		return errors.New("invalid absence data")
	}
	absence.Date = models.DateOf(absence.Date)

	// Duplicates are rejected here so the calculator never observes them.
	exists, err := r.Exists(absence.UserID, absence.Date)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("absence already exists for this user and date")
	}

	return r.db.Create(absence).Error
}

func (r *GormAbsenceRepository) Update(absence *models.Absence) error {
	if !absence.IsValid() {
		return errors.New("invalid absence data")
	}
	absence.Date = models.DateOf(absence.Date)
	return r.db.Save(absence).Error
}

func (r *GormAbsenceRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Absence{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("absence not found")
	}
	return nil
}

func (r *GormAbsenceRepository) GetByID(id uint) (*models.Absence, error) {
	var absence models.Absence
	result := r.db.First(&absence, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &absence, nil
}

func (r *GormAbsenceRepository) GetByUserAndDate(userID uint, date time.Time) (*models.Absence, error) {
	var absence models.Absence
	result := r.db.Where("user_id = ? AND date = ?", userID, models.DateOf(date)).First(&absence)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &absence, nil
}

func (r *GormAbsenceRepository) GetByUserID(userID uint) ([]models.Absence, error) {
	var absences []models.Absence
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&absences).Error
	return absences, err
}

func (r *GormAbsenceRepository) GetByDate(date time.Time) ([]models.Absence, error) {
	var absences []models.Absence
	err := r.db.Where("date = ?", models.DateOf(date)).Find(&absences).Error
	return absences, err
}

func (r *GormAbsenceRepository) Exists(userID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Absence{}).
		Where("user_id = ? AND date = ?", userID, models.DateOf(date)).
		Count(&count).Error
	return count > 0, err
}
