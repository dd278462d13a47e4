package models

import (
	"time"
)

type Role string

const (
	RoleWorker string = "worker"
	RoleAdmin  string = "admin"
)

type User struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ChatID    int64  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username  string `json:"username"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `gorm:"default:'worker'" json:"role"`

	OfficeID uint   `gorm:"not null;index" json:"office_id"`
	Office   Office `gorm:"foreignKey:OfficeID" json:"office"`

	// Two-state attendance machine: false = OUT, true = IN.
	AtWork bool `gorm:"default:false" json:"at_work"`

	// One-time signed offset applied on the office control start date.
	OpeningBalanceSeconds int `gorm:"not null;default:0" json:"opening_balance_seconds"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) SetRole(role Role) {
	u.Role = string(role)
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
