package schedule

import (
	"errors"
	"time"
)

var ErrInvalidHours = errors.New("opening must be before closing")

// DayHours is the opening window for one weekday, in minutes from midnight.
type DayHours struct {
	Weekday     time.Weekday
	OpenMinute  int
	CloseMinute int
	Closed      bool
}

func NewDayHours(weekday time.Weekday, openMinute, closeMinute int, closed bool) (DayHours, error) {
	if !closed && openMinute >= closeMinute {
		return DayHours{}, ErrInvalidHours
	}
	return DayHours{
		Weekday:     weekday,
		OpenMinute:  openMinute,
		CloseMinute: closeMinute,
		Closed:      closed,
	}, nil
}

// WeekHours maps every weekday to its opening window. Missing entries are
// treated as closed.
type WeekHours map[time.Weekday]DayHours

// DefaultWeekHours is the fallback used until staff configure their own
// schedule: 09:00-18:00 Monday through Saturday, closed Sunday.
func DefaultWeekHours() WeekHours {
	hours := make(WeekHours, 7)
	for wd := time.Monday; wd <= time.Saturday; wd++ {
		hours[wd] = DayHours{Weekday: wd, OpenMinute: 9 * 60, CloseMinute: 18 * 60}
	}
	hours[time.Sunday] = DayHours{Weekday: time.Sunday, Closed: true}
	return hours
}

func (w WeekHours) For(date time.Time) (DayHours, bool) {
	day, ok := w[date.Weekday()]
	if !ok || day.Closed {
		return DayHours{}, false
	}
	return day, true
}
