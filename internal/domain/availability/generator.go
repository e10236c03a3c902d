package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/timezone"
)

const (
	DefaultSlotMinutes          = 30
	DefaultSameDayBufferMinutes = 60
)

// ===============================
// Inputs
// ===============================

// Rule is a recurring weekly window in which a doctor accepts bookings.
// StartTime and EndTime are "HH:MM" in the clinic's wall-clock time.
type Rule struct {
	DoctorID  uint
	Weekday   int
	StartTime string
	EndTime   string
	Enabled   bool
}

// Booking is a committed appointment that occupies the calendar.
type Booking struct {
	Start           time.Time
	DurationMinutes int
}

func (b Booking) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Options controls slot size and the same-day lead time.
// Use DefaultOptions to get the documented defaults; zero values here mean
// "no buffer", not "default buffer".
type Options struct {
	SlotMinutes          int
	SameDayBufferMinutes int
	Now                  time.Time

	// IncludeEmptyDays keeps days that end up with zero slots in the output.
	IncludeEmptyDays bool

	// OnInvalidRule is called for every rule whose window is empty or unparsable
	// on a day it applies to. The day still degrades to zero slots.
	OnInvalidRule func(rule Rule, day time.Time)
}

func DefaultOptions(now time.Time) Options {
	return Options{
		SlotMinutes:          DefaultSlotMinutes,
		SameDayBufferMinutes: DefaultSameDayBufferMinutes,
		Now:                  now,
	}
}

// ===============================
// Outputs
// ===============================

type Slot struct {
	Start time.Time
	End   time.Time
}

// Display is the localized 12h label shown to patients, e.g. "3:30 PM".
func (s Slot) Display() string {
	return s.Start.Format("3:04 PM")
}

type Day struct {
	Date  time.Time
	Slots []Slot
}

func (d Day) WeekdayLabel() string { return d.Date.Format("Mon") }
func (d Day) MonthLabel() string   { return d.Date.Format("Jan") }
func (d Day) DayOfMonth() int      { return d.Date.Day() }

// ===============================
// Generate
// ===============================

// Generate builds the bookable grid for every calendar date in
// [rangeStart, rangeEnd], both inclusive, in the location of rangeStart.
//
// It never returns an error: an inverted range yields an empty result and an
// invalid rule yields an empty day. Generate is pure and safe for concurrent use.
func Generate(
	rules []Rule,
	booked []Booking,
	rangeStart time.Time,
	rangeEnd time.Time,
	opts Options,
) []Day {

	loc := rangeStart.Location()
	fy, fm, fd := rangeStart.Date()
	span := timezone.DaysBetween(rangeStart, rangeEnd.In(loc))

	days := []Day{}
	if span < 0 {
		return days
	}

	slotMinutes := opts.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	step := time.Duration(slotMinutes) * time.Minute

	buffer := time.Duration(opts.SameDayBufferMinutes) * time.Minute
	if buffer < 0 {
		buffer = 0
	}

	now := opts.Now.In(loc)

	byWeekday := make(map[int][]Rule, 7)
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		byWeekday[r.Weekday] = append(byWeekday[r.Weekday], r)
	}

	// Days are counted on the calendar, never by adding 24h, so a DST
	// change at midnight neither repeats nor drops a date.
	for i := 0; i <= span; i++ {
		d := timezone.DayStart(fy, fm, fd+i, loc)
		var slots []Slot

		for _, rule := range byWeekday[int(d.Weekday())] {
			windowStart, windowEnd, ok := window(rule, d)
			if !ok {
				if opts.OnInvalidRule != nil {
					opts.OnInvalidRule(rule, d)
				}
				continue
			}

			// fully past
			if windowEnd.Before(now) {
				continue
			}

			if timezone.SameDate(d, now) {
				windowStart = alignedStart(windowStart, now.Add(buffer), step)
			}

			slots = append(slots, walk(windowStart, windowEnd, step, booked)...)
		}

		slots = dedupe(slots)

		if len(slots) == 0 && !opts.IncludeEmptyDays {
			continue
		}
		if slots == nil {
			slots = []Slot{}
		}

		days = append(days, Day{Date: d, Slots: slots})
	}

	return days
}

// walk emits every step-sized slot in [start, end) that overlaps no booking.
func walk(start, end time.Time, step time.Duration, booked []Booking) []Slot {
	var out []Slot
	for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
		slotEnd := cur.Add(step)
		if overlapsAny(cur, slotEnd, booked) {
			continue
		}
		out = append(out, Slot{Start: cur, End: slotEnd})
	}
	return out
}

// Half-open intervals: [start,end) overlaps [b.Start,b.End) iff start < b.End && end > b.Start.
func overlapsAny(start, end time.Time, booked []Booking) bool {
	for _, b := range booked {
		if start.Before(b.End()) && end.After(b.Start) {
			return true
		}
	}
	return false
}

// alignedStart moves start forward to the first slot boundary at or after
// earliest. Boundaries stay on the rule's grid, not on the wall clock.
func alignedStart(start, earliest time.Time, step time.Duration) time.Time {
	if !earliest.After(start) {
		return start
	}
	offset := earliest.Sub(start)
	steps := offset / step
	if offset%step != 0 {
		steps++
	}
	return start.Add(steps * step)
}

// WindowOn returns the rule's window on day's calendar date in day's location.
func (r Rule) WindowOn(day time.Time) (time.Time, time.Time, bool) {
	return window(r, timezone.StartOfDay(day))
}

// Valid reports whether the rule parses to a non-empty window.
func (r Rule) Valid() bool {
	_, _, ok := window(r, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	return ok
}

func window(rule Rule, day time.Time) (time.Time, time.Time, bool) {
	sh, sm, ok1 := parseClock(rule.StartTime)
	eh, em, ok2 := parseClock(rule.EndTime)
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, false
	}

	loc := day.Location()
	y, m, d := day.Date()
	start := time.Date(y, m, d, sh, sm, 0, 0, loc)
	end := time.Date(y, m, d, eh, em, 0, 0, loc)

	// wall-clock times inside a skipped hour resolve outside the day
	if dayStart := timezone.DayStart(y, m, d, loc); start.Before(dayStart) {
		start = dayStart
	}
	if eh == 24 {
		end = timezone.DayStart(y, m, d+1, loc)
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// parseClock accepts "H:MM" and "HH:MM" in 24h form. "24:00" is accepted as end of day.
func parseClock(hm string) (int, int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(hm), ":")
	if !found || len(m) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	if hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, 0, false
	}
	return hour, minute, true
}

// NormalizeClock parses hm and returns it zero-padded as "HH:MM", so stored
// values sort in time order.
func NormalizeClock(hm string) (string, bool) {
	h, m, ok := parseClock(hm)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

func dedupe(slots []Slot) []Slot {
	if len(slots) < 2 {
		return slots
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	out := slots[:1]
	for _, s := range slots[1:] {
		if s.Start.Equal(out[len(out)-1].Start) {
			continue
		}
		out = append(out, s)
	}
	return out
}
