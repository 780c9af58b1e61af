package view

import (
	"time"

	"outfit-planner/internal/planner"
)

const dateLayout = "2006-01-02"

// CalendarDay is one cell of the month grid. Blank cells pad the first
// week so weekdays line up.
type CalendarDay struct {
	Date     string // "" for padding cells
	Number   int
	Today    bool
	Disabled bool // past dates cannot be planned
	Saved    bool // has a persisted outfit
	Selected bool // part of the in-progress range selection
}

// Calendar is one rendered month.
type Calendar struct {
	Title    string
	Year     int
	Month    time.Month
	Weekdays []string
	Days     []CalendarDay
	PrevOK   bool // months before the current one are not navigable
}

var weekdayHeaders = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// BuildCalendar lays out the given month against the controller's state.
// The week starts on Monday; days before today are disabled and never
// carry the saved marker, even when a persisted plan exists for them.
func BuildCalendar(c *planner.Controller, year int, month time.Month, now time.Time) Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	today := now.Format(dateLayout)

	selected := map[string]bool{}
	for _, d := range c.SelectedDates() {
		selected[d] = true
	}

	cal := Calendar{
		Title:    first.Format("January 2006"),
		Year:     year,
		Month:    month,
		Weekdays: weekdayHeaders,
		PrevOK:   year > now.Year() || (year == now.Year() && month > now.Month()),
	}

	for i := 0; i < mondayOffset(first.Weekday()); i++ {
		cal.Days = append(cal.Days, CalendarDay{})
	}

	for cur := first; cur.Month() == month; cur = cur.AddDate(0, 0, 1) {
		date := cur.Format(dateLayout)
		saved, _ := c.Saved(date)
		past := date < today
		cal.Days = append(cal.Days, CalendarDay{
			Date:     date,
			Number:   cur.Day(),
			Today:    date == today,
			Disabled: past,
			Saved:    saved.HasSavedOutfit() && !past,
			Selected: selected[date] && !past,
		})
	}
	return cal
}

func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// RenderCalendar renders the month grid to HTML.
func RenderCalendar(cal Calendar) (string, error) {
	return render("calendar.tmpl", cal)
}
