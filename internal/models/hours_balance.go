package models

import (
	"fmt"
	"time"
)

// HoursBalance is one ledger row per (user, date). Balance is a stored field,
// maintained eagerly on every write: previous row's balance + credit - debit,
// or credit - debit when no earlier row exists.
type HoursBalance struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	UserID uint      `gorm:"not null;uniqueIndex:idx_hours_balances_user_date;index:idx_hours_balances_date_user,priority:2" json:"user_id"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_hours_balances_user_date;index:idx_hours_balances_date_user,priority:1" json:"date"`

	Credit  int `gorm:"not null" json:"credit"`
	Debit   int `gorm:"not null" json:"debit"`
	Balance int `gorm:"not null" json:"balance"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (HoursBalance) TableName() string {
	return "hours_balances"
}

func (b *HoursBalance) CreditDuration() time.Duration {
	return time.Duration(b.Credit) * time.Second
}

func (b *HoursBalance) DebitDuration() time.Duration {
	return time.Duration(b.Debit) * time.Second
}

func (b *HoursBalance) BalanceDuration() time.Duration {
	return time.Duration(b.Balance) * time.Second
}

// FormatSeconds renders signed integer seconds as [-]HH:MM.
func FormatSeconds(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
