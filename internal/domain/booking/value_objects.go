package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidSlotTime = errors.New("invalid slot time")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// SlotTime pins a booking to a calendar day and a start offset in minutes
// from midnight. The business runs in a single locale, so no timezone
// arithmetic happens here; the date is a plain civil day.
type SlotTime struct {
	date        time.Time
	startMinute int
}

func NewSlotTime(date time.Time, startMinute int) (SlotTime, error) {
	if startMinute < 0 || startMinute >= 24*60 {
		return SlotTime{}, ErrInvalidSlotTime
	}
	y, m, d := date.Date()
	return SlotTime{
		date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		startMinute: startMinute,
	}, nil
}

func (s SlotTime) Date() time.Time  { return s.date }
func (s SlotTime) StartMinute() int { return s.startMinute }

func (s SlotTime) Label() string {
	return fmt.Sprintf("%02d:%02d", s.startMinute/60, s.startMinute%60)
}

// Money is an amount in cents.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 { return m.cents }

func (m Money) Sub(cents int64) Money {
	remaining := m.cents - cents
	if remaining < 0 {
		remaining = 0
	}
	return Money{cents: remaining}
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string { return n.value }
func (n Note) IsEmpty() bool  { return n.value == "" }
