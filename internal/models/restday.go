package models

import (
	"time"
)

// Restday is an office-wide calendar override: on its date the required work
// hours are WorkSeconds instead of the office regular hours (e.g. a holiday
// with 0, or a half day with 4h). Unique per date.
type Restday struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Date        time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Note        string    `gorm:"size:50;not null" json:"note"`
	WorkSeconds int       `gorm:"not null;default:0" json:"work_seconds"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Restday) TableName() string {
	return "restdays"
}

func (r *Restday) WorkHours() time.Duration {
	return time.Duration(r.WorkSeconds) * time.Second
}

func (r *Restday) IsValid() bool {
	if r.Date.IsZero() {
		return false
	}
	if r.Note == "" {
		return false
	}
	if r.WorkSeconds < 0 || r.WorkSeconds > 86400 {
		return false
	}
	return true
}
