package repository

import (
	"errors"

	"hours-bank-bot/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByChatID(chatID int64) (*models.User, error)
	GetAll() ([]*models.User, error)
	GetAdmins() ([]*models.User, error)
	SetAtWork(userID uint, atWork bool) error
	UpdateRole(chatID int64, role models.Role) error
	Exists(chatID int64) (bool, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) (UserRepository, error) {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, err
	}
	return &GormUserRepository{db: db}, nil
}

func (r *GormUserRepository) Create(user *models.User) error {
	var existing models.User
	result := r.db.Where("chat_id = ?", user.ChatID).First(&existing)
	if result.Error == nil {
		return errors.New("user already exists")
	}
	return r.db.Create(user).Error
}

func (r *GormUserRepository) Update(user *models.User) error {
	var existing models.User
	result := r.db.First(&existing, user.ID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return errors.New("user not found")
	}
	return r.db.Save(user).Error
}

// GetByID loads the user with its office preloaded. Every balance
// calculation requires the office policy, so a user without one is a
// precondition violation surfaced by the callers.
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.Preload("Office").First(&user, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *GormUserRepository) GetByChatID(chatID int64) (*models.User, error) {
	var user models.User
	result := r.db.Preload("Office").Where("chat_id = ?", chatID).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *GormUserRepository) GetAll() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Preload("Office").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) GetAdmins() ([]*models.User, error) {
	var admins []*models.User
	err := r.db.Where("role = ?", models.RoleAdmin).Find(&admins).Error
	return admins, err
}

func (r *GormUserRepository) SetAtWork(userID uint, atWork bool) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("at_work", atWork)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *GormUserRepository) UpdateRole(chatID int64, role models.Role) error {
	result := r.db.Model(&models.User{}).
		Where("chat_id = ?", chatID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *GormUserRepository) Exists(chatID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count > 0, err
}
