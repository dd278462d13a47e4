package timecalc

import (
	"sort"
	"time"

	"hours-bank-bot/internal/models"
)

// TicketsForDate resolves the user's tickets for one calendar date: fetch a
// window around the date, keep the tickets whose office-local date matches,
// order by timestamp and apply the policy clamp adjustment.
func (c *Calculator) TicketsForDate(user *models.User, date time.Time) ([]Ticket, error) {
	ctx, err := c.load(user, date)
	if err != nil {
		return nil, err
	}
	return c.resolve(ctx)
}

func (c *Calculator) resolve(ctx *dayContext) ([]Ticket, error) {
	stored, err := c.tickets.GetByUserAroundDate(ctx.user.ID, ctx.date)
	if err != nil {
		return nil, err
	}

	resolved := make([]Ticket, 0, len(stored))
	for _, t := range stored {
		local := t.DateTime.In(c.loc)
		if !models.SameDate(local, ctx.date) {
			continue
		}
		resolved = append(resolved, Ticket{Checkin: t.Checkin, DateTime: local})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].DateTime.Before(resolved[j].DateTime)
	})

	return adjust(resolved, ctx.office), nil
}

// adjust clamps check-ins before the minimum allowed clock time up to it, and
// check-outs after the maximum allowed clock time down to it, when the
// respective policy limit is enabled. Only the time of day changes, never the
// date.
func adjust(tickets []Ticket, office *models.Office) []Ticket {
	if !office.MinCheckinTime && !office.MaxCheckoutTime {
		return tickets
	}

	adjusted := make([]Ticket, len(tickets))
	for i, t := range tickets {
		secs := secondsOfDay(t.DateTime)
		switch {
		case t.Checkin && office.MinCheckinTime && secs < office.MinCheckinTimeSeconds:
			t.DateTime = atSecondsOfDay(t.DateTime, office.MinCheckinTimeSeconds)
		case !t.Checkin && office.MaxCheckoutTime && secs > office.MaxCheckoutTimeSeconds:
			t.DateTime = atSecondsOfDay(t.DateTime, office.MaxCheckoutTimeSeconds)
		}
		adjusted[i] = t
	}
	return adjusted
}

// trim drops a leading checkout (orphan from a post-midnight session of the
// previous date) and a trailing check-in (still-open session), leaving a
// sequence whose every checkout pairs positionally with the entry before it.
func trim(tickets []Ticket) []Ticket {
	if len(tickets) != 0 && !tickets[0].Checkin {
		tickets = tickets[1:]
	}
	if len(tickets) != 0 && tickets[len(tickets)-1].Checkin {
		tickets = tickets[:len(tickets)-1]
	}
	return tickets
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func atSecondsOfDay(t time.Time, secs int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(),
		secs/3600, (secs%3600)/60, secs%60, 0, t.Location())
}
