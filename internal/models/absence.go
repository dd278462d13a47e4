package models

import (
	"time"
)

// Absence cause codes.
const (
	CauseCourse      = "curso"   // training course
	CauseOnLoan      = "cessao"  // on loan to another unit
	CauseInspection  = "inspecao"
	CauseVacation    = "ferias"
	CauseMedical     = "LM" // medical leave
	CauseBonusLeave  = "abono"
	CausePolitical   = "LP"
	CauseRecess      = "recesso"
	CauseUnjustified = "falta"
	CauseOther       = "outros"
)

var absenceCauses = map[string]string{
	CauseCourse:      "Curso",
	CauseOnLoan:      "Cessão",
	CauseInspection:  "Inspeção",
	CauseVacation:    "Férias",
	CauseMedical:     "Licença médica",
	CauseBonusLeave:  "Abono",
	CausePolitical:   "Licença política",
	CauseRecess:      "Recesso",
	CauseUnjustified: "Falta injustificada",
	CauseOther:       "Outros",
}

// Absence is a per-user leave record for one date. Credit is added to the
// day's credit; Debit is subtracted from the day's required hours.
type Absence struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	UserID uint      `gorm:"not null;uniqueIndex:idx_absences_user_date" json:"user_id"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_absences_user_date" json:"date"`
	Cause  string    `gorm:"size:10;not null" json:"cause"`

	CreditSeconds int `gorm:"not null;default:0" json:"credit_seconds"`
	DebitSeconds  int `gorm:"not null;default:0" json:"debit_seconds"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Absence) TableName() string {
	return "absences"
}

// CauseDisplay returns the human-readable cause label.
func (a *Absence) CauseDisplay() string {
	if label, ok := absenceCauses[a.Cause]; ok {
		return label
	}
	return a.Cause
}

func ValidCause(cause string) bool {
	_, ok := absenceCauses[cause]
	return ok
}

func (a *Absence) IsValid() bool {
	if a.UserID == 0 {
		return false
	}
	if a.Date.IsZero() {
		return false
	}
	return ValidCause(a.Cause)
}
