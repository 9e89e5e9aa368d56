package readstore

import (
	"context"
	"fmt"
	"time"

	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
)

// CalendarReadStore aggregates the inputs of day-grid construction:
// occupied intervals, blocked dates, and weekly opening hours.
type CalendarReadStore struct {
	db db.DBTX
}

func NewCalendarReadStore(dbtx db.DBTX) *CalendarReadStore {
	return &CalendarReadStore{db: dbtx}
}

const activeIntervalsSQL = `
SELECT start_minute, duration_min
FROM bookings
WHERE date = $1 AND status IN ('pending', 'confirmed')
ORDER BY start_minute`

func (r *CalendarReadStore) ActiveIntervals(ctx context.Context, date time.Time) ([]schedule.BookedInterval, error) {
	rows, err := r.db.Query(ctx, activeIntervalsSQL, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booked intervals", err)
	}
	defer rows.Close()

	var intervals []schedule.BookedInterval
	for rows.Next() {
		var iv schedule.BookedInterval
		if err := rows.Scan(&iv.StartMinute, &iv.DurationMinutes); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booked interval", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booked intervals", err)
	}
	return intervals, nil
}

const blockedForDateSQL = `
SELECT date, full_day, from_minute, to_minute
FROM blocked_dates
WHERE date = $1`

func (r *CalendarReadStore) BlockedForDate(ctx context.Context, date time.Time) ([]schedule.BlockedDate, error) {
	rows, err := r.db.Query(ctx, blockedForDateSQL, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load blocked dates", err)
	}
	defer rows.Close()

	var blocked []schedule.BlockedDate
	for rows.Next() {
		var (
			b        schedule.BlockedDate
			from, to *int
		)
		if err := rows.Scan(&b.Date, &b.Full, &from, &to); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocked date", err)
		}
		if from != nil {
			b.FromMinute = *from
		}
		if to != nil {
			b.ToMinute = *to
		}
		blocked = append(blocked, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate blocked dates", err)
	}
	return blocked, nil
}

const weekHoursSQL = `
SELECT weekday, open_minute, close_minute, closed
FROM working_hours
ORDER BY weekday`

func (r *CalendarReadStore) WeekHours(ctx context.Context) (schedule.WeekHours, error) {
	rows, err := r.db.Query(ctx, weekHoursSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load working hours", err)
	}
	defer rows.Close()

	hours := make(schedule.WeekHours)
	for rows.Next() {
		var (
			weekday int
			day     schedule.DayHours
		)
		if err := rows.Scan(&weekday, &day.OpenMinute, &day.CloseMinute, &day.Closed); err != nil {
			return nil, infra.WrapRepoErr("failed to scan working hours", err)
		}
		day.Weekday = time.Weekday(weekday)
		hours[day.Weekday] = day
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate working hours", err)
	}

	// An unseeded table falls back to the shipped defaults.
	if len(hours) == 0 {
		return schedule.DefaultWeekHours(), nil
	}
	return hours, nil
}

func minuteLabel(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
