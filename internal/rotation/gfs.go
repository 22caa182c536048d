// Package rotation implements grandfather-father-son thinning over a set of
// backup timestamps. It is pure: no I/O, inputs are never mutated, and all
// decisions are made against an explicit reference instant.
package rotation

import "time"

// Policy is a validated grandfather-father-son retention policy.
type Policy struct {
	// Days is the length of the daily window. Every backup younger than
	// this many days is kept without thinning.
	Days int
	// Weeks is the length of the weekly window, in weeks, counted back
	// from the reference instant. Within it at most one backup survives
	// per calendar week.
	Weeks int
	// Months is the length of the monthly window, counted back from the
	// reference instant. Within it at most one backup survives per
	// calendar month.
	Months int
	// FirstWeekday is the weekday on which calendar weeks begin.
	FirstWeekday time.Weekday
}

// ToDelete returns the subset of backups the policy does not retain,
// evaluated at now. Callers map the surviving timestamps back to stored
// keys and perform the actual deletions.
func ToDelete(backups []time.Time, p Policy, now time.Time) []time.Time {
	keep := make([]bool, len(backups))

	now = now.UTC()
	dailyCutoff := now.AddDate(0, 0, -p.Days)
	weeklyCutoff := now.AddDate(0, 0, -7*p.Weeks)
	monthlyCutoff := now.AddDate(0, -p.Months, 0)

	// Winner per calendar-week slot and per calendar-month slot. Ties go
	// to the most recent backup in the slot.
	weekWinner := make(map[time.Time]int)
	monthWinner := make(map[monthKey]int)

	for i, b := range backups {
		t := b.UTC()
		switch {
		case !t.Before(dailyCutoff):
			keep[i] = true
		case !t.Before(weeklyCutoff):
			slot := weekStart(t, p.FirstWeekday)
			j, ok := weekWinner[slot]
			if !ok || t.After(backups[j].UTC()) {
				weekWinner[slot] = i
			}
		case !t.Before(monthlyCutoff):
			slot := monthKey{t.Year(), t.Month()}
			j, ok := monthWinner[slot]
			if !ok || t.After(backups[j].UTC()) {
				monthWinner[slot] = i
			}
		}
	}
	for _, i := range weekWinner {
		keep[i] = true
	}
	for _, i := range monthWinner {
		keep[i] = true
	}

	var deleted []time.Time
	for i, b := range backups {
		if !keep[i] {
			deleted = append(deleted, b)
		}
	}
	return deleted
}

type monthKey struct {
	year  int
	month time.Month
}

// weekStart truncates t to the most recent occurrence of firstWeekday, at
// midnight UTC. A backup taken exactly at that boundary belongs to the new
// week.
func weekStart(t time.Time, firstWeekday time.Weekday) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) - int(firstWeekday) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
