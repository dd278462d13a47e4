package models

import (
	"time"
)

// Ticket is a single check-in or check-out event. Tickets are immutable once
// created except for timestamp corrections by authorized editors.
type Ticket struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	DateTime time.Time `gorm:"not null;index" json:"date_time"`
	// No column default here: gorm would substitute it for a zero-valued
	// field on create, turning every checkout into a check-in.
	Checkin bool `gorm:"not null" json:"checkin"`

	// Who recorded the ticket: the worker or a manager. Nil for self.
	CreatedByID *uint `json:"created_by_id"`

	// Audit only, never used in calculation.
	ClientIP string `json:"client_ip"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// LocalDate is the calendar date of the ticket in the office timezone,
// truncated to midnight. Comparing stored instants without converting first
// misclassifies tickets near midnight.
func (t *Ticket) LocalDate(loc *time.Location) time.Time {
	local := t.DateTime.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func (t *Ticket) IsValid() bool {
	if t.UserID == 0 {
		return false
	}
	if t.DateTime.IsZero() {
		return false
	}
	return true
}
