package planner

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange expands two picked dates into the full inclusive span between
// them, ascending, regardless of click order.
func DateRange(a, b string) ([]string, error) {
	start, err := time.Parse(dateLayout, a)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", a, err)
	}
	end, err := time.Parse(dateLayout, b)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", b, err)
	}

	if end.Before(start) {
		start, end = end, start
	}

	var dates []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, cur.Format(dateLayout))
	}
	return dates, nil
}

func formatTemp(weather string, temp float64) string {
	return fmt.Sprintf("%s (%.0f°C)", weather, temp)
}
