package allocator

import (
	"fmt"
	"sort"
)

// Frequency only affects downstream repetition bookkeeping, never placement.
type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
	FrequencyOnce     Frequency = "ONCE"
)

// Activity is a recurring event that needs a venue and a contiguous block of hours.
type Activity struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Duration      int       `json:"duration" yaml:"duration"`
	RequiredTypes []string  `json:"requiredTypes" yaml:"requiredTypes"`
	Frequency     Frequency `json:"frequency,omitempty" yaml:"frequency"`
	Members       int       `json:"members,omitempty" yaml:"members"`
}

// Venue is an exclusively occupied room. Booked holds time already taken outside the run.
type Venue struct {
	Name     string     `json:"name" yaml:"name"`
	Type     string     `json:"type" yaml:"type"`
	Capacity int        `json:"capacity" yaml:"capacity"`
	Booked   []HourSlot `json:"booked,omitempty" yaml:"booked"`
}

// Placement binds an activity to a venue and a concrete slot.
type Placement struct {
	ActivityID   string    `json:"activityId"`
	ActivityName string    `json:"activityName"`
	Venue        string    `json:"venue"`
	Slot         HourSlot  `json:"slot"`
	Frequency    Frequency `json:"frequency,omitempty"`
}

// Window is a daily operating window [Open, Close) in hours.
type Window struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// Operating windows: activities are placed inside ActivityWindow, availability views
// use the longer ViewWindow.
var (
	ActivityWindow = Window{Open: 8, Close: 18}
	ViewWindow     = Window{Open: 8, Close: 22}
)

// Hooks receive search events. Every field is optional.
type Hooks struct {
	OnTry       func(activity Activity, venue string, slot HourSlot, depth int)
	OnPlace     func(placement Placement, depth int)
	OnBacktrack func(activity Activity, depth int)
	OnFallback  func(reason string)
	OnPlan      func(plan []PlannedInterval, makespan int)
}

// DefaultMaxNodes bounds the exhaustive search when ScheduleOptions.MaxNodes is zero.
const DefaultMaxNodes = 2_000_000

// ScheduleOptions tunes Schedule and ScheduleGreedy.
type ScheduleOptions struct {
	Window       Window
	RequireSeats bool
	// MaxNodes caps the candidates the exhaustive search may try before it gives up and
	// returns the greedy result. Zero means DefaultMaxNodes, negative means no cap.
	MaxNodes     int
	Hooks        Hooks
}

// ScheduleResult is the output of one scheduling pass.
type ScheduleResult struct {
	Placements []Placement `json:"placements"`
	Unplaced   []string    `json:"unplaced"`
	// Complete is true when every activity was placed.
	Complete bool `json:"complete"`
	// Exhaustive is false when the backtracking search found no complete placement
	// (or was skipped) and the greedy pass produced the result.
	Exhaustive bool `json:"exhaustive"`
	Nodes      int  `json:"nodes"`
}

// Schedule places every activity with a depth-first search over day, start hour and venue,
// longest activity first, and returns the first complete placement in that order. When no
// complete placement exists, or the search exceeds its node budget, it returns the greedy
// result instead; that is not an error.
func Schedule(activities []Activity, venues []Venue, opts ScheduleOptions) (ScheduleResult, error) {
	s, err := newSearch(activities, venues, opts)
	if err != nil {
		return ScheduleResult{}, err
	}
	if len(s.activities) == 0 {
		return ScheduleResult{Placements: []Placement{}, Complete: true, Exhaustive: true}, nil
	}

	if reason := s.infeasible(); reason != "" {
		s.fallback(reason)
		return s.greedy(), nil
	}

	s.limit = s.opts.MaxNodes
	found := s.backtrack(0)
	s.limit = 0
	if found {
		placements := make([]Placement, len(s.stack))
		copy(placements, s.stack)
		return ScheduleResult{
			Placements: placements,
			Unplaced:   []string{},
			Complete:   true,
			Exhaustive: true,
			Nodes:      s.nodes,
		}, nil
	}

	if s.aborted {
		s.fallback(fmt.Sprintf("exhaustive search exceeded its budget of %d nodes", s.opts.MaxNodes))
	} else {
		s.fallback("exhaustive search found no complete placement")
	}
	nodes := s.nodes
	s.reset()
	result := s.greedy()
	result.Nodes += nodes
	return result, nil
}

// ScheduleGreedy places activities in a single pass, longest first, taking the first
// feasible slot and never revisiting a commit. Activities without a slot are left out.
func ScheduleGreedy(activities []Activity, venues []Venue, opts ScheduleOptions) (ScheduleResult, error) {
	s, err := newSearch(activities, venues, opts)
	if err != nil {
		return ScheduleResult{}, err
	}
	return s.greedy(), nil
}

type search struct {
	activities []Activity
	venues     []Venue
	opts       ScheduleOptions
	// stack is the undo log of tentative commits, owned by one invocation.
	stack []Placement
	nodes int
	// limit is the node budget of the running backtrack, zero or negative when unbounded.
	limit   int
	aborted bool
}

func newSearch(activities []Activity, venues []Venue, opts ScheduleOptions) (*search, error) {
	if opts.Window == (Window{}) {
		opts.Window = ActivityWindow
	}
	if opts.MaxNodes == 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Window.Open < 0 || opts.Window.Close > 24 || opts.Window.Open >= opts.Window.Close {
		return nil, fmt.Errorf("%w: window %d-%d", ErrInvalidInput, opts.Window.Open, opts.Window.Close)
	}

	seen := make(map[string]struct{}, len(venues))
	for _, v := range venues {
		if v.Name == "" {
			return nil, fmt.Errorf("%w: venue without name", ErrInvalidInput)
		}
		if _, dup := seen[v.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate venue %q", ErrInvalidInput, v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	for _, a := range activities {
		if a.Duration <= 0 {
			return nil, fmt.Errorf("%w: activity %q has non-positive duration", ErrInvalidInput, a.ID)
		}
	}

	sorted := make([]Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration > sorted[j].Duration
	})

	return &search{
		activities: sorted,
		venues:     venues,
		opts:       opts,
		stack:      make([]Placement, 0, len(sorted)),
	}, nil
}

func (s *search) reset() {
	s.stack = s.stack[:0]
	s.nodes = 0
	s.aborted = false
}

func (s *search) fallback(reason string) {
	if s.opts.Hooks.OnFallback != nil {
		s.opts.Hooks.OnFallback(reason)
	}
}

// infeasible explains why no complete placement can exist, or returns "". It catches an
// activity that fits no venue or window, and a venue group whose free hours cannot hold the
// activities that are restricted to it.
func (s *search) infeasible() string {
	span := s.opts.Window.Close - s.opts.Window.Open
	groups := make([][]int, len(s.activities))
	for i, a := range s.activities {
		if a.Duration > span {
			return fmt.Sprintf("activity %s has no compatible venue or window", a.ID)
		}
		for vi, v := range s.venues {
			if s.accepts(a, v) {
				groups[i] = append(groups[i], vi)
			}
		}
		if len(groups[i]) == 0 {
			return fmt.Sprintf("activity %s has no compatible venue or window", a.ID)
		}
	}

	free := make([]int, len(s.venues))
	for vi, v := range s.venues {
		for day := FirstDay; day <= LastDay; day++ {
			for _, w := range FreeWindows(v.Booked, day, s.opts.Window, 1) {
				free[vi] += w.End - w.Start
			}
		}
	}

	checked := make(map[string]struct{}, len(groups))
	for i, group := range groups {
		key := fmt.Sprint(group)
		if _, done := checked[key]; done {
			continue
		}
		checked[key] = struct{}{}

		in := make(map[int]struct{}, len(group))
		supply := 0
		for _, vi := range group {
			in[vi] = struct{}{}
			supply += free[vi]
		}
		demand := 0
		for j, other := range groups {
			if subsetOf(other, in) {
				demand += s.activities[j].Duration
			}
		}
		if demand > supply {
			return fmt.Sprintf("activities limited to the venues of %s need %d hours, only %d are free", s.activities[i].ID, demand, supply)
		}
	}
	return ""
}

func subsetOf(group []int, set map[int]struct{}) bool {
	for _, vi := range group {
		if _, ok := set[vi]; !ok {
			return false
		}
	}
	return true
}

func (s *search) accepts(a Activity, v Venue) bool {
	if s.opts.RequireSeats && a.Members > 0 && v.Capacity < a.Members {
		return false
	}
	for _, t := range a.RequiredTypes {
		if t == v.Type {
			return true
		}
	}
	return false
}

// fits checks type compatibility and the slot against every booking and every committed
// placement in the venue.
func (s *search) fits(a Activity, v Venue, slot HourSlot) bool {
	if !s.accepts(a, v) {
		return false
	}
	if hourConflictsAny(slot, v.Booked) {
		return false
	}
	for _, p := range s.stack {
		if p.Venue == v.Name && HoursConflict(slot, p.Slot) {
			return false
		}
	}
	return true
}

// candidates enumerates day, then start hour, then venue in the fixed order and stops as
// soon as visit returns true.
func (s *search) candidates(a Activity, depth int, visit func(v Venue, slot HourSlot) bool) bool {
	for day := FirstDay; day <= LastDay; day++ {
		for start := s.opts.Window.Open; start < s.opts.Window.Close; start++ {
			end := start + a.Duration
			if end > s.opts.Window.Close {
				continue
			}
			slot := HourSlot{Day: day, Start: start, End: end}
			for _, v := range s.venues {
				if s.aborted {
					return false
				}
				if s.limit > 0 && s.nodes >= s.limit {
					s.aborted = true
					return false
				}
				s.nodes++
				if s.opts.Hooks.OnTry != nil {
					s.opts.Hooks.OnTry(a, v.Name, slot, depth)
				}
				if !s.fits(a, v, slot) {
					continue
				}
				if visit(v, slot) {
					return true
				}
			}
		}
	}
	return false
}

func (s *search) commit(a Activity, v Venue, slot HourSlot, depth int) {
	p := Placement{
		ActivityID:   a.ID,
		ActivityName: a.Name,
		Venue:        v.Name,
		Slot:         slot,
		Frequency:    a.Frequency,
	}
	s.stack = append(s.stack, p)
	if s.opts.Hooks.OnPlace != nil {
		s.opts.Hooks.OnPlace(p, depth)
	}
}

func (s *search) backtrack(depth int) bool {
	if depth == len(s.activities) {
		return true
	}
	a := s.activities[depth]
	return s.candidates(a, depth, func(v Venue, slot HourSlot) bool {
		s.commit(a, v, slot, depth)
		if s.backtrack(depth + 1) {
			return true
		}
		s.stack = s.stack[:len(s.stack)-1]
		if s.opts.Hooks.OnBacktrack != nil {
			s.opts.Hooks.OnBacktrack(a, depth)
		}
		return false
	})
}

func (s *search) greedy() ScheduleResult {
	unplaced := make([]string, 0)
	for _, a := range s.activities {
		placed := s.candidates(a, 0, func(v Venue, slot HourSlot) bool {
			s.commit(a, v, slot, 0)
			return true
		})
		if !placed {
			unplaced = append(unplaced, a.ID)
		}
	}
	placements := make([]Placement, len(s.stack))
	copy(placements, s.stack)
	return ScheduleResult{
		Placements: placements,
		Unplaced:   unplaced,
		Complete:   len(unplaced) == 0,
		Exhaustive: false,
		Nodes:      s.nodes,
	}
}

// FreeWindows lists the gaps of one venue day inside window that are at least minDuration
// hours long, in chronological order.
func FreeWindows(booked []HourSlot, day int, window Window, minDuration int) []HourSlot {
	if minDuration < 1 {
		minDuration = 1
	}
	busy := make([]HourSlot, 0, len(booked))
	for _, b := range booked {
		if b.Day == day {
			busy = append(busy, b)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start < busy[j].Start })

	free := make([]HourSlot, 0)
	cursor := window.Open
	for _, b := range busy {
		start := b.Start
		if start > window.Close {
			start = window.Close
		}
		if start-cursor >= minDuration {
			free = append(free, HourSlot{Day: day, Start: cursor, End: start})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if window.Close-cursor >= minDuration {
		free = append(free, HourSlot{Day: day, Start: cursor, End: window.Close})
	}
	return free
}
