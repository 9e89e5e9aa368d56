package schedule

import (
	"fmt"
	"time"
)

// Slot is one candidate start time on a date, annotated with availability.
// The full grid is always returned so callers can render disabled entries.
type Slot struct {
	Minute    int
	Available bool
}

func (s Slot) Label() string {
	return fmt.Sprintf("%02d:%02d", s.Minute/60, s.Minute%60)
}

// BookedInterval is the occupied window of an active (pending or confirmed)
// booking, in minutes from midnight on its date.
type BookedInterval struct {
	StartMinute     int
	DurationMinutes int
}

func (b BookedInterval) EndMinute() int {
	return b.StartMinute + b.DurationMinutes
}

// Overlaps reports whether [start, start+duration) intersects the interval.
// Intervals are half-open, so back-to-back bookings do not collide.
func (b BookedInterval) Overlaps(startMinute, durationMinutes int) bool {
	return startMinute < b.EndMinute() && b.StartMinute < startMinute+durationMinutes
}

// BlockedDate marks a calendar day fully or partially unavailable. A full
// block has no range; a partial one blocks [FromMinute, ToMinute).
type BlockedDate struct {
	Date       time.Time
	Full       bool
	FromMinute int
	ToMinute   int
}

func (b BlockedDate) Covers(date time.Time, startMinute, durationMinutes int) bool {
	if !sameDay(b.Date, date) {
		return false
	}
	if b.Full {
		return true
	}
	return startMinute < b.ToMinute && b.FromMinute < startMinute+durationMinutes
}

// Grid enumerates candidate start times and their availability for one day.
type Grid struct {
	StepMinutes int
}

// BuildDaySlots walks the whole opening window at the grid step and marks
// each start unavailable when the requested duration would overlap an active
// booking, hit a blocked range, or run past closing. A closed day yields an
// empty grid; a fully-booked day yields a well-formed grid with every slot
// unavailable.
func (g Grid) BuildDaySlots(
	date time.Time,
	totalDurationMinutes int,
	bookings []BookedInterval,
	blocked []BlockedDate,
	hours WeekHours,
) []Slot {
	day, open := hours.For(date)
	if !open {
		return nil
	}

	step := g.StepMinutes
	if step <= 0 {
		step = 30
	}

	var slots []Slot
	for minute := day.OpenMinute; minute < day.CloseMinute; minute += step {
		slots = append(slots, Slot{
			Minute:    minute,
			Available: g.available(date, minute, totalDurationMinutes, day, bookings, blocked),
		})
	}
	return slots
}

func (g Grid) available(
	date time.Time,
	startMinute, durationMinutes int,
	day DayHours,
	bookings []BookedInterval,
	blocked []BlockedDate,
) bool {
	// End past closing makes the start unusable even though it is in hours.
	if startMinute+durationMinutes > day.CloseMinute {
		return false
	}
	for _, b := range blocked {
		if b.Covers(date, startMinute, durationMinutes) {
			return false
		}
	}
	for _, iv := range bookings {
		if iv.Overlaps(startMinute, durationMinutes) {
			return false
		}
	}
	return true
}

// AvailableCount is used by callers to decide whether to surface a
// low-availability warning.
func AvailableCount(slots []Slot) int {
	count := 0
	for _, s := range slots {
		if s.Available {
			count++
		}
	}
	return count
}

// ParseSlotLabel converts an "HH:MM" label back to minutes from midnight.
func ParseSlotLabel(label string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(label, "%2d:%2d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid slot label %q: %w", label, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid slot label %q", label)
	}
	return h*60 + m, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
