package allocator

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday bounds used by both slot forms.
const (
	FirstDay = 1
	LastDay  = 5
)

// PeriodSlot is a weekly slot expressed as a day and a set of period indices.
type PeriodSlot struct {
	Day     int   `json:"day" yaml:"day"`
	Periods []int `json:"periods" yaml:"periods"`
}

// HourSlot is a weekly slot expressed as a day and a half-open hour range [Start, End).
type HourSlot struct {
	Day   int `json:"day" yaml:"day"`
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Valid reports whether the slot describes a non-empty range on a known day.
func (s HourSlot) Valid() bool {
	return s.Day >= FirstDay && s.Day <= LastDay && s.Start < s.End
}

func (s HourSlot) String() string {
	return fmt.Sprintf("%s %02d:00-%02d:00", DayName(s.Day), s.Start, s.End)
}

func (s PeriodSlot) String() string {
	if len(s.Periods) == 0 {
		return DayName(s.Day)
	}
	first, last := s.Periods[0], s.Periods[0]
	for _, p := range s.Periods {
		if p < first {
			first = p
		}
		if p > last {
			last = p
		}
	}
	if first == last {
		return fmt.Sprintf("%s %d", DayName(s.Day), first)
	}
	return fmt.Sprintf("%s %d-%d", DayName(s.Day), first, last)
}

// IntervalsOverlap is the half-open overlap test shared by every continuous form.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// HoursConflict reports whether two hour slots overlap on the same day.
func HoursConflict(a, b HourSlot) bool {
	if a.Day != b.Day {
		return false
	}
	return IntervalsOverlap(a.Start, a.End, b.Start, b.End)
}

// PeriodsConflict reports whether two period slots share a day and at least one period.
func PeriodsConflict(a, b PeriodSlot) bool {
	if a.Day != b.Day {
		return false
	}
	for _, p := range a.Periods {
		for _, q := range b.Periods {
			if p == q {
				return true
			}
		}
	}
	return false
}

// SlotsConflict reports whether any slot of a conflicts with any slot of b.
func SlotsConflict(a, b []PeriodSlot) bool {
	for _, x := range a {
		for _, y := range b {
			if PeriodsConflict(x, y) {
				return true
			}
		}
	}
	return false
}

// hourConflictsAny checks candidate against every committed slot. Partial checks are a bug.
func hourConflictsAny(candidate HourSlot, committed []HourSlot) bool {
	for _, slot := range committed {
		if HoursConflict(candidate, slot) {
			return true
		}
	}
	return false
}

var dayNames = map[int]string{
	1: "Mon",
	2: "Tue",
	3: "Wed",
	4: "Thu",
	5: "Fri",
}

var dayIndex = map[string]int{
	"mon":       1,
	"monday":    1,
	"tue":       2,
	"tuesday":   2,
	"wed":       3,
	"wednesday": 3,
	"thu":       4,
	"thursday":  4,
	"fri":       5,
	"friday":    5,
}

// DayName returns the short weekday name for a day index.
func DayName(day int) string {
	if name, ok := dayNames[day]; ok {
		return name
	}
	return fmt.Sprintf("day%d", day)
}

// ParseDay accepts "Mon", "monday" or "1".
func ParseDay(raw string) (int, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if day, ok := dayIndex[raw]; ok {
		return day, nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < FirstDay || day > LastDay {
		return 0, fmt.Errorf("%w: unknown day %q", ErrInvalidInput, raw)
	}
	return day, nil
}

// ParsePeriodSlot parses "<day> <first>-<last>" or "<day> <period>", e.g. "Mon 1-2".
func ParsePeriodSlot(raw string) (PeriodSlot, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return PeriodSlot{}, fmt.Errorf("%w: malformed schedule %q", ErrInvalidInput, raw)
	}
	day, err := ParseDay(fields[0])
	if err != nil {
		return PeriodSlot{}, err
	}

	first, last := fields[1], fields[1]
	if strings.Contains(fields[1], "-") {
		parts := strings.SplitN(fields[1], "-", 2)
		first, last = parts[0], parts[1]
	}
	start, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return PeriodSlot{}, fmt.Errorf("%w: bad period in %q", ErrInvalidInput, raw)
	}
	end, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		return PeriodSlot{}, fmt.Errorf("%w: bad period in %q", ErrInvalidInput, raw)
	}
	if start < 1 || end < start {
		return PeriodSlot{}, fmt.Errorf("%w: period range %d-%d in %q", ErrInvalidInput, start, end, raw)
	}

	periods := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		periods = append(periods, p)
	}
	return PeriodSlot{Day: day, Periods: periods}, nil
}

// ParsePeriodSlots parses a ';' separated list of schedules, e.g. "Mon 1-2; Wed 3".
func ParsePeriodSlots(raw string) ([]PeriodSlot, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var slots []PeriodSlot
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		slot, err := ParsePeriodSlot(part)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// FormatPeriodSlots renders slots back into the ParsePeriodSlots form.
func FormatPeriodSlots(slots []PeriodSlot) string {
	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		parts = append(parts, slot.String())
	}
	return strings.Join(parts, "; ")
}
