// Package holidays parses a yearly holiday calendar file into restday rows.
package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CalendarJSON is the source file layout:
//
//	{
//	  "year": 2025,
//	  "holidays": [
//	    {"date": "2025-10-12", "note": "N. Sra. Aparecida", "work_minutes": 0},
//	    {"date": "2025-12-24", "note": "Christmas eve", "work_minutes": 240}
//	  ]
//	}
//
// Work minutes are integers; the engine never touches floating point.
type CalendarJSON struct {
	Year     int           `json:"year"`
	Holidays []HolidayJSON `json:"holidays"`
}

type HolidayJSON struct {
	Date        string `json:"date"`
	Note        string `json:"note"`
	WorkMinutes int    `json:"work_minutes"`
}

// Holiday is one parsed calendar entry ready for restday creation.
type Holiday struct {
	Date        time.Time
	Note        string
	WorkSeconds int
}

// ParseCalendarJSON parses the holiday file and validates every entry
// belongs to the declared year.
func ParseCalendarJSON(filePath string) ([]Holiday, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	var calendar CalendarJSON
	if err := json.Unmarshal(data, &calendar); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calendar: %w", err)
	}

	holidays := make([]Holiday, 0, len(calendar.Holidays))
	for _, h := range calendar.Holidays {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", h.Date, err)
		}
		if calendar.Year != 0 && date.Year() != calendar.Year {
			return nil, fmt.Errorf("holiday %q outside calendar year %d", h.Date, calendar.Year)
		}
		if h.Note == "" {
			return nil, fmt.Errorf("holiday %q has no note", h.Date)
		}
		if h.WorkMinutes < 0 || h.WorkMinutes > 1440 {
			return nil, fmt.Errorf("holiday %q has invalid work minutes %d", h.Date, h.WorkMinutes)
		}

		holidays = append(holidays, Holiday{
			Date:        date,
			Note:        h.Note,
			WorkSeconds: h.WorkMinutes * 60,
		})
	}

	return holidays, nil
}

// ForMonth filters parsed holidays down to one month.
func ForMonth(holidays []Holiday, year, month int) []Holiday {
	result := []Holiday{}
	for _, h := range holidays {
		if h.Date.Year() == year && int(h.Date.Month()) == month {
			result = append(result, h)
		}
	}
	return result
}
