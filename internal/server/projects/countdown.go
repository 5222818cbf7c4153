package projects

import "time"

// Countdown is the time remaining until delivery is expected, broken down
// for display.
type Countdown struct {
	Months  int
	Days    int
	Hours   int
	Minutes int
}

// CalculateCountdown computes the remaining time from now until the editing
// start date (dueDate minus estimatedDays). If that date is already in the
// past, the countdown is zero.
func CalculateCountdown(dueDate time.Time, estimatedDays int, now time.Time) Countdown {
	start := dueDate.AddDate(0, 0, -estimatedDays)
	if !now.Before(start) {
		return Countdown{}
	}

	months := 0
	cursor := now
	for {
		next := cursor.AddDate(0, 1, 0)
		if next.After(start) {
			break
		}
		cursor = next
		months++
	}

	rest := start.Sub(cursor)
	days := int(rest.Hours()) / 24
	hours := int(rest.Hours()) % 24
	minutes := int(rest.Minutes()) % 60

	return Countdown{Months: months, Days: days, Hours: hours, Minutes: minutes}
}
