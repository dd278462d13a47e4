// Package timecalc turns tickets, calendar records and office policy into the
// signed daily credit and debit. Everything here is a pure function of
// (user, date) over the current store state: no writes, safe to call
// repeatedly, memoization is the ledger's concern.
package timecalc

import (
	"errors"
	"fmt"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"
)

// ErrNoOffice is returned when a user does not resolve to an office policy.
// Balance calculation without a policy is a precondition violation.
var ErrNoOffice = errors.New("user has no office policy")

// Classification of one (user, date). The flags are not mutually exclusive;
// precedence lives in the debit/credit formulas.
type Classification struct {
	IsWeekend        bool
	IsRestday        bool
	IsAbsence        bool
	IsOpeningBalance bool
}

// Ticket is a resolved check-in/check-out event in office local time, after
// the policy clamp adjustment.
type Ticket struct {
	Checkin  bool
	DateTime time.Time
}

type Calculator struct {
	tickets  repository.TicketRepository
	restdays repository.RestdayRepository
	absences repository.AbsenceRepository
	loc      *time.Location
}

func NewCalculator(
	tickets repository.TicketRepository,
	restdays repository.RestdayRepository,
	absences repository.AbsenceRepository,
	loc *time.Location,
) *Calculator {
	return &Calculator{
		tickets:  tickets,
		restdays: restdays,
		absences: absences,
		loc:      loc,
	}
}

// dayContext is everything the formulas need, fetched once.
type dayContext struct {
	user   *models.User
	office *models.Office
	date   time.Time

	weekend bool
	opening bool
	restday *models.Restday
	absence *models.Absence
}

func (c *Calculator) load(user *models.User, date time.Time) (*dayContext, error) {
	if user == nil || user.ID == 0 {
		return nil, errors.New("nil user")
	}
	if user.OfficeID == 0 || user.Office.ID == 0 {
		return nil, fmt.Errorf("user %d: %w", user.ID, ErrNoOffice)
	}

	day := models.DateOf(date)

	restday, err := c.restdays.GetByDate(day)
	if err != nil {
		return nil, err
	}
	absence, err := c.absences.GetByUserAndDate(user.ID, day)
	if err != nil {
		return nil, err
	}

	return &dayContext{
		user:    user,
		office:  &user.Office,
		date:    day,
		weekend: models.IsWeekend(day),
		opening: user.Office.IsOpeningBalanceDay(day),
		restday: restday,
		absence: absence,
	}, nil
}

// Classify reports the calendar flags for (user, date). Missing records
// simply yield false.
func (c *Calculator) Classify(user *models.User, date time.Time) (Classification, error) {
	ctx, err := c.load(user, date)
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		IsWeekend:        ctx.weekend,
		IsRestday:        ctx.restday != nil,
		IsAbsence:        ctx.absence != nil,
		IsOpeningBalance: ctx.opening,
	}, nil
}

// Debit is the required hours for the day:
// regular debit + opening debit delta + absence debit delta.
func (c *Calculator) Debit(user *models.User, date time.Time) (time.Duration, error) {
	ctx, err := c.load(user, date)
	if err != nil {
		return 0, err
	}
	return c.debit(ctx), nil
}

// Credit is the earned hours for the day: regular credit from ticket pairs
// plus opening, absence, min-work-hours and max-daily-credit deltas.
func (c *Calculator) Credit(user *models.User, date time.Time) (time.Duration, error) {
	ctx, err := c.load(user, date)
	if err != nil {
		return 0, err
	}
	return c.credit(ctx)
}

// DayTotals computes credit and debit in one pass, sharing the fetched
// calendar records.
func (c *Calculator) DayTotals(user *models.User, date time.Time) (credit, debit time.Duration, err error) {
	ctx, err := c.load(user, date)
	if err != nil {
		return 0, 0, err
	}
	credit, err = c.credit(ctx)
	if err != nil {
		return 0, 0, err
	}
	return credit, c.debit(ctx), nil
}

func (c *Calculator) debit(ctx *dayContext) time.Duration {
	return c.regularDebit(ctx) + c.openingDebitDelta(ctx) + c.absenceDebitDelta(ctx)
}

func (c *Calculator) regularDebit(ctx *dayContext) time.Duration {
	if ctx.weekend {
		return 0
	}
	if ctx.restday != nil {
		return ctx.restday.WorkHours()
	}
	return ctx.office.RegularWorkHours()
}

// A negative opening balance is an inherited deficit: it becomes extra debit
// on the control start date.
func (c *Calculator) openingDebitDelta(ctx *dayContext) time.Duration {
	if ctx.opening && ctx.user.OpeningBalanceSeconds < 0 {
		return time.Duration(-ctx.user.OpeningBalanceSeconds) * time.Second
	}
	return 0
}

func (c *Calculator) absenceDebitDelta(ctx *dayContext) time.Duration {
	if ctx.absence == nil {
		return 0
	}
	if !ctx.office.AbsenceDebitOnRestdays && (ctx.weekend || ctx.restday != nil) {
		return 0
	}
	return time.Duration(-ctx.absence.DebitSeconds) * time.Second
}

func (c *Calculator) credit(ctx *dayContext) (time.Duration, error) {
	regular, err := c.regularCredit(ctx)
	if err != nil {
		return 0, err
	}

	opening := c.openingCreditDelta(ctx)
	absence := c.absenceCreditDelta(ctx)
	minDelta := c.minWorkHoursDelta(ctx, regular, absence)

	total := regular + opening + absence + minDelta
	total += c.maxDailyCreditDelta(ctx, total)
	return total, nil
}

// regularCredit sums checkout-minus-checkin deltas over the trimmed ticket
// sequence and adds the tolerance bonus once for any day with at least one
// closed session.
func (c *Calculator) regularCredit(ctx *dayContext) (time.Duration, error) {
	tickets, err := c.resolve(ctx)
	if err != nil {
		return 0, err
	}
	tickets = trim(tickets)

	// Trimming guarantees the usual alternating shape, but degenerate input
	// (two post-midnight checkouts on one local date, or manual edits) can
	// still leave a checkout without a check-in before it; those earn nothing.
	var credit time.Duration
	for i, t := range tickets {
		if !t.Checkin && i > 0 && tickets[i-1].Checkin {
			credit += t.DateTime.Sub(tickets[i-1].DateTime)
		}
	}

	if credit != 0 {
		credit += ctx.office.Tolerance()
	}
	return credit, nil
}

func (c *Calculator) openingCreditDelta(ctx *dayContext) time.Duration {
	if ctx.opening && ctx.user.OpeningBalanceSeconds >= 0 {
		return time.Duration(ctx.user.OpeningBalanceSeconds) * time.Second
	}
	return 0
}

func (c *Calculator) absenceCreditDelta(ctx *dayContext) time.Duration {
	if ctx.absence == nil {
		return 0
	}
	return time.Duration(ctx.absence.CreditSeconds) * time.Second
}

// minWorkHoursDelta implements the two-tier credit curve: between the regular
// hours and the minimum-required threshold credit is capped at the regular
// hours; past the threshold it resumes counting 1:1 from the regular hours.
func (c *Calculator) minWorkHoursDelta(ctx *dayContext, regular, absence time.Duration) time.Duration {
	if !ctx.office.MinWorkHoursForCredit {
		return 0
	}
	if ctx.weekend || ctx.restday != nil {
		return 0
	}

	regularHours := ctx.office.RegularWorkHours()
	minRequired := time.Duration(ctx.office.MinWorkHoursForCreditSeconds) * time.Second
	tentative := regular + absence

	if regularHours < tentative && tentative <= minRequired {
		return regularHours - tentative
	}
	if tentative > minRequired {
		return regularHours - minRequired
	}
	return 0
}

// maxDailyCreditDelta clamps the partially-summed credit (including the
// min-work-hours delta) to the configured daily maximum.
func (c *Calculator) maxDailyCreditDelta(ctx *dayContext, total time.Duration) time.Duration {
	if !ctx.office.MaxDailyCredit {
		return 0
	}
	max := time.Duration(ctx.office.MaxDailyCreditSeconds) * time.Second
	if total > max {
		return max - total
	}
	return 0
}
