// Package packed decodes the integer encoded dates, times of day and durations
// used by the SQL Server Agent history tables.
//
// Dates are stored as YYYYMMDD and times and durations as HHMMSS, both without
// leading zeros, e.g. a duration of 1 minute 5 seconds is stored as 105.
package packed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goto/jobtrail/internal/errors"
)

const (
	EntityPacked = "packed_value"

	NotAvailable = "N/A"
	ZeroClock    = "00:00:00"

	clockWidth = 6
	dateLayout = "20060102"
)

// Clock is a decoded HHMMSS value, it is used for both times of day and durations
type Clock struct {
	hours   int
	minutes int
	seconds int
}

func NewClock(hours, minutes, seconds int) Clock {
	return Clock{
		hours:   hours,
		minutes: minutes,
		seconds: seconds,
	}
}

// ClockFrom pads the value to six digits and slices it into two digit groups.
// Durations longer than 99 hours keep the extra digits in the hour group.
func ClockFrom(value int) (Clock, error) {
	if value < 0 {
		return Clock{}, errors.InvalidArgument(EntityPacked, "negative packed time "+strconv.Itoa(value))
	}

	digits := fmt.Sprintf("%0*d", clockWidth, value)
	split := len(digits) - 4

	hours, _ := strconv.Atoi(digits[:split])
	minutes, _ := strconv.Atoi(digits[split : split+2])
	seconds, _ := strconv.Atoi(digits[split+2:])

	return NewClock(hours, minutes, seconds), nil
}

func (c Clock) Hours() int   { return c.hours }
func (c Clock) Minutes() int { return c.minutes }
func (c Clock) Seconds() int { return c.seconds }

func (c Clock) Duration() time.Duration {
	return time.Duration(c.hours)*time.Hour +
		time.Duration(c.minutes)*time.Minute +
		time.Duration(c.seconds)*time.Second
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.hours, c.minutes, c.seconds)
}

// Duration converts a packed duration, zero is returned for absent values
func Duration(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	c, err := ClockFrom(value)
	if err != nil {
		return 0
	}
	return c.Duration()
}

// FormatDuration renders a packed duration as HH:MM:SS, absent durations render as N/A
func FormatDuration(value int) string {
	if value <= 0 {
		return NotAvailable
	}
	c, err := ClockFrom(value)
	if err != nil {
		return NotAvailable
	}
	return c.String()
}

// FormatSeconds renders a number of seconds as HH:MM:SS
func FormatSeconds(seconds int64) string {
	if seconds <= 0 {
		return ZeroClock
	}
	return NewClock(int(seconds/3600), int(seconds%3600/60), int(seconds%60)).String()
}

// Date parses a YYYYMMDD value into midnight of that day in loc
func Date(value int, loc *time.Location) (time.Time, error) {
	if value <= 0 {
		return time.Time{}, errors.InvalidArgument(EntityPacked, "empty packed date")
	}

	t, err := time.ParseInLocation(dateLayout, strconv.Itoa(value), loc)
	if err != nil {
		return time.Time{}, errors.InvalidArgument(EntityPacked, "invalid packed date "+strconv.Itoa(value))
	}
	return t, nil
}

// Timestamp joins a packed date and time of day into a wall clock time in loc
func Timestamp(date, clock int, loc *time.Location) (time.Time, error) {
	day, err := Date(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	c, err := ClockFrom(clock)
	if err != nil {
		return time.Time{}, err
	}
	if c.hours > 23 || c.minutes > 59 || c.seconds > 59 {
		return time.Time{}, errors.InvalidArgument(EntityPacked, "invalid packed time of day "+strconv.Itoa(clock))
	}

	return time.Date(day.Year(), day.Month(), day.Day(), c.hours, c.minutes, c.seconds, 0, loc), nil
}

// SecondsOf converts a packed duration into seconds
func SecondsOf(value int) int64 {
	return int64(Duration(value) / time.Second)
}

// DateOf packs the calendar day of t as YYYYMMDD
func DateOf(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
