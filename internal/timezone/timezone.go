package timezone

import "time"

const DefaultTimezone = "Africa/Algiers"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to fallback and then to DefaultTimezone.
func Location(tz string, fallback ...string) *time.Location {
	for _, name := range append([]string{tz}, fallback...) {
		if IsValid(name) {
			if loc, err := time.LoadLocation(name); err == nil {
				return loc
			}
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayStart returns the first instant of the calendar date y-m-d in loc.
// Out-of-range days normalize like time.Date. Where a DST change skips
// midnight, the day starts at the first wall-clock time after the gap.
func DayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	y, m, d = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Date()

	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if t.Day() != d {
		// time.Date resolved the missing midnight into the previous day
		sinceMidnight := time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second
		t = t.Add(24*time.Hour - sinceMidnight)
	}
	return t
}

// StartOfDay returns the first instant of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return DayStart(y, m, d, t.Location())
}

// AddDays moves n calendar days from t's date and returns the start of that day.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return DayStart(y, m, d+n, t.Location())
}

// DaysBetween counts calendar days from a's date to b's date.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	diff := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).Sub(time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC))
	return int(diff / (24 * time.Hour))
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, err
	}
	return DayStart(d.Year(), d.Month(), d.Day(), loc), nil
}

func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
}
