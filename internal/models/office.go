package models

import (
	"time"
)

// Office holds the attendance policy for one organizational unit. All
// durations are stored as integer seconds; clock times as seconds from
// midnight. Values are read as a snapshot per calculation.
type Office struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Initials string `gorm:"uniqueIndex;not null" json:"initials"`

	RegularWorkSeconds int `gorm:"not null;default:25200" json:"regular_work_seconds"` // 7h

	MinWorkHoursForCredit        bool `gorm:"default:false" json:"min_work_hours_for_credit"`
	MinWorkHoursForCreditSeconds int  `gorm:"not null;default:36000" json:"min_work_hours_for_credit_seconds"` // 10h

	MaxDailyCredit        bool `gorm:"default:false" json:"max_daily_credit"`
	MaxDailyCreditSeconds int  `gorm:"not null;default:36000" json:"max_daily_credit_seconds"` // 10h

	// Declared but not enforced by the calculation engine.
	MaxMonthlyBalance        bool `gorm:"default:false" json:"max_monthly_balance"`
	MaxMonthlyBalanceSeconds int  `gorm:"not null;default:72000" json:"max_monthly_balance_seconds"` // 20h

	MinCheckinTime        bool `gorm:"default:false" json:"min_checkin_time"`
	MinCheckinTimeSeconds int  `gorm:"not null;default:28800" json:"min_checkin_time_seconds"` // 08:00

	MaxCheckoutTime        bool `gorm:"default:false" json:"max_checkout_time"`
	MaxCheckoutTimeSeconds int  `gorm:"not null;default:72000" json:"max_checkout_time_seconds"` // 20:00

	CheckinToleranceSeconds  int `gorm:"not null;default:600" json:"checkin_tolerance_seconds"`  // 10min
	CheckoutToleranceSeconds int `gorm:"not null;default:300" json:"checkout_tolerance_seconds"` // 5min

	// Whether the absence debit reduction also applies on weekends and
	// restdays. Older installations skipped the reduction on such days. No
	// column default: a legacy false must survive create as-is, so creators
	// set the value explicitly.
	AbsenceDebitOnRestdays bool `gorm:"not null" json:"absence_debit_on_restdays"`

	// First date for which balances are tracked. Nil means the office has
	// not been activated yet.
	HoursControlStartDate *time.Time `gorm:"type:date" json:"hours_control_start_date"`

	// Watermark advanced by the bulk recompute entry point.
	LastBalanceDate *time.Time `gorm:"type:date" json:"last_balance_date"`

	LinkedToID *uint   `json:"linked_to_id"`
	LinkedTo   *Office `gorm:"foreignKey:LinkedToID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Office) TableName() string {
	return "offices"
}

// DefaultOfficeInitials identifies the sentinel office assigned to users
// without an explicit unit. It is created once at startup, never implicitly.
const DefaultOfficeInitials = "NL"

func (o *Office) RegularWorkHours() time.Duration {
	return time.Duration(o.RegularWorkSeconds) * time.Second
}

// Tolerance is the fixed grace added once to any day with at least one
// closed session.
func (o *Office) Tolerance() time.Duration {
	return time.Duration(o.CheckinToleranceSeconds+o.CheckoutToleranceSeconds) * time.Second
}

// IsControlled reports whether date falls on or after the control start date.
func (o *Office) IsControlled(date time.Time) bool {
	if o.HoursControlStartDate == nil {
		return false
	}
	return !DateBefore(date, *o.HoursControlStartDate)
}

// IsOpeningBalanceDay reports whether date is the control start date itself.
func (o *Office) IsOpeningBalanceDay(date time.Time) bool {
	return o.HoursControlStartDate != nil && SameDate(date, *o.HoursControlStartDate)
}

func (o *Office) IsValid() bool {
	if o.Name == "" || o.Initials == "" {
		return false
	}
	if o.RegularWorkSeconds < 0 || o.RegularWorkSeconds > 86400 {
		return false
	}
	if o.MinCheckinTimeSeconds < 0 || o.MinCheckinTimeSeconds >= 86400 {
		return false
	}
	if o.MaxCheckoutTimeSeconds < 0 || o.MaxCheckoutTimeSeconds >= 86400 {
		return false
	}
	return true
}
