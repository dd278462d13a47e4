package repository

import (
	"errors"
	"time"

	"hours-bank-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(ticket *models.Ticket) error
	GetByID(id uint) (*models.Ticket, error)
	// GetByUserAroundDate returns the user's tickets whose stored instant
	// falls within [date-1d, date+2d), ordered ascending. The caller filters
	// by local date; the window exists because a local date can span two UTC
	// dates.
	GetByUserAroundDate(userID uint, date time.Time) ([]*models.Ticket, error)
	GetByUserID(userID uint, limit int) ([]*models.Ticket, error)
	HasCheckinBetween(userID uint, from, to time.Time) (bool, error)
	HasCheckoutBetween(userID uint, after, to time.Time) (bool, error)
	UpdateDateTime(id uint, dateTime time.Time) error
	// OpenCheckins returns check-in tickets recorded before the given instant
	// that are not followed by any later ticket for the same user, i.e.
	// sessions that were never closed.
	OpenCheckins(before time.Time) ([]*models.Ticket, error)
}

type GormTicketRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTicketRepository(db *gorm.DB) (*GormTicketRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Ticket{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate tickets table")
		return nil, err
	}

	return &GormTicketRepository{db: db, logger: logger}, nil
}

func (r *GormTicketRepository) Create(ticket *models.Ticket) error {
	if !ticket.IsValid() {
		r.logger.WithField("user_id", ticket.UserID).Warn("Invalid ticket data")
		return errors.New("invalid ticket data")
	}

	if err := r.db.Create(ticket).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create ticket")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":        ticket.ID,
		"user_id":   ticket.UserID,
		"checkin":   ticket.Checkin,
		"date_time": ticket.DateTime.Format(time.RFC3339),
	}).Info("Ticket created")

	return nil
}

func (r *GormTicketRepository) GetByID(id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	result := r.db.First(&ticket, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &ticket, nil
}

func (r *GormTicketRepository) GetByUserAroundDate(userID uint, date time.Time) ([]*models.Ticket, error) {
	day := models.DateOf(date)
	from := day.AddDate(0, 0, -1)
	to := day.AddDate(0, 0, 2)

	var tickets []*models.Ticket
	err := r.db.Where("user_id = ? AND date_time >= ? AND date_time < ?", userID, from, to).
		Order("date_time ASC").
		Find(&tickets).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to get tickets around date")
		return nil, err
	}
	return tickets, nil
}

func (r *GormTicketRepository) GetByUserID(userID uint, limit int) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
	query := r.db.Where("user_id = ?", userID).Order("date_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&tickets).Error
	return tickets, err
}

func (r *GormTicketRepository) HasCheckinBetween(userID uint, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Ticket{}).
		Where("user_id = ? AND checkin = ? AND date_time >= ? AND date_time < ?",
			userID, true, from, to).
		Count(&count).Error
	return count > 0, err
}

func (r *GormTicketRepository) HasCheckoutBetween(userID uint, after, to time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Ticket{}).
		Where("user_id = ? AND checkin = ? AND date_time > ? AND date_time < ?",
			userID, false, after, to).
		Count(&count).Error
	return count > 0, err
}

func (r *GormTicketRepository) UpdateDateTime(id uint, dateTime time.Time) error {
	result := r.db.Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("date_time", dateTime)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update ticket timestamp")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("ticket not found")
	}

	r.logger.WithFields(logrus.Fields{
		"id":        id,
		"date_time": dateTime.Format(time.RFC3339),
	}).Info("Ticket timestamp corrected")

	return nil
}

func (r *GormTicketRepository) OpenCheckins(before time.Time) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
	err := r.db.Where(
		"checkin = ? AND date_time < ? AND NOT EXISTS ("+
			"SELECT 1 FROM tickets later WHERE later.user_id = tickets.user_id "+
			"AND later.date_time > tickets.date_time)",
		true, before).
		Order("date_time ASC").
		Find(&tickets).Error
	return tickets, err
}
