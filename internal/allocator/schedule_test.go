package allocator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placementOf(t *testing.T, result ScheduleResult, activityID string) Placement {
	t.Helper()
	for _, p := range result.Placements {
		if p.ActivityID == activityID {
			return p
		}
	}
	t.Fatalf("activity %s was not placed", activityID)
	return Placement{}
}

func assertNoVenueOverlap(t *testing.T, result ScheduleResult) {
	t.Helper()
	for i, a := range result.Placements {
		for j, b := range result.Placements {
			if i != j && a.Venue == b.Venue {
				assert.Falsef(t, HoursConflict(a.Slot, b.Slot), "%s and %s overlap in %s", a.ActivityID, b.ActivityID, a.Venue)
			}
		}
	}
}

func TestScheduleFeasibleInstancePlacesEverything(t *testing.T) {
	activities := []Activity{
		{ID: "chess", Duration: 2, RequiredTypes: []string{"classroom"}},
		{ID: "choir", Duration: 3, RequiredTypes: []string{"classroom", "hall"}},
	}
	venues := []Venue{{Name: "R101", Type: "classroom"}, {Name: "Main Hall", Type: "hall"}}

	result, err := Schedule(activities, venues, ScheduleOptions{})
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.True(t, result.Exhaustive)
	assert.Empty(t, result.Unplaced)

	// longest first, then day, hour, venue order
	assert.Equal(t, "choir", result.Placements[0].ActivityID)
	assert.Equal(t, Placement{ActivityID: "choir", Venue: "R101", Slot: HourSlot{Day: 1, Start: 8, End: 11}}, placementOf(t, result, "choir"))
	assert.Equal(t, HourSlot{Day: 1, Start: 11, End: 13}, placementOf(t, result, "chess").Slot)
	assertNoVenueOverlap(t, result)
}

// hallCrunch needs backtracking: the flexible activity grabs the only hall on Monday first,
// leaving one hall-only activity without a day.
func hallCrunch(hallOnly int) ([]Activity, []Venue) {
	activities := []Activity{{ID: "flex", Duration: 2, RequiredTypes: []string{"hall", "room"}}}
	for i := 1; i <= hallOnly; i++ {
		activities = append(activities, Activity{ID: fmt.Sprintf("h%d", i), Duration: 2, RequiredTypes: []string{"hall"}})
	}
	venues := []Venue{{Name: "Hall", Type: "hall"}, {Name: "Room", Type: "room"}}
	return activities, venues
}

func TestScheduleBacktracksToCompletePlacement(t *testing.T) {
	activities, venues := hallCrunch(5)
	opts := ScheduleOptions{Window: Window{Open: 8, Close: 10}}

	greedy, err := ScheduleGreedy(activities, venues, opts)
	require.NoError(t, err)
	assert.False(t, greedy.Complete)
	assert.Equal(t, []string{"h5"}, greedy.Unplaced)

	result, err := Schedule(activities, venues, opts)
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.True(t, result.Exhaustive)
	assert.Len(t, result.Placements, len(activities))
	assert.Equal(t, "Room", placementOf(t, result, "flex").Venue)
	assertNoVenueOverlap(t, result)

	assert.LessOrEqual(t, len(greedy.Placements), len(result.Placements))
}

func TestScheduleFallsBackToGreedyWhenInfeasible(t *testing.T) {
	activities := make([]Activity, 0, 6)
	for i := 1; i <= 6; i++ {
		activities = append(activities, Activity{ID: fmt.Sprintf("h%d", i), Duration: 2, RequiredTypes: []string{"hall"}})
	}
	venues := []Venue{{Name: "Hall", Type: "hall"}}

	var fallbacks []string
	opts := ScheduleOptions{
		Window: Window{Open: 8, Close: 10},
		Hooks:  Hooks{OnFallback: func(reason string) { fallbacks = append(fallbacks, reason) }},
	}
	result, err := Schedule(activities, venues, opts)
	require.NoError(t, err)
	assert.False(t, result.Exhaustive)
	assert.False(t, result.Complete)
	assert.Len(t, result.Placements, 5)
	assert.Equal(t, []string{"h6"}, result.Unplaced)
	assert.Len(t, fallbacks, 1)
	assertNoVenueOverlap(t, result)
}

func TestScheduleSkipsSearchForUnplaceableActivity(t *testing.T) {
	activities := []Activity{
		{ID: "swim", Duration: 2, RequiredTypes: []string{"pool"}},
		{ID: "debate", Duration: 1, RequiredTypes: []string{"classroom"}},
	}
	venues := []Venue{{Name: "R1", Type: "classroom"}}

	var fallback string
	result, err := Schedule(activities, venues, ScheduleOptions{Hooks: Hooks{OnFallback: func(r string) { fallback = r }}})
	require.NoError(t, err)
	assert.False(t, result.Exhaustive)
	assert.Equal(t, []string{"swim"}, result.Unplaced)
	assert.Contains(t, fallback, "swim")
	assert.Equal(t, HourSlot{Day: 1, Start: 8, End: 9}, placementOf(t, result, "debate").Slot)
}

func TestScheduleHonoursBookedTimeAndSeats(t *testing.T) {
	venues := []Venue{
		{Name: "Small", Type: "room", Capacity: 10},
		{Name: "Big", Type: "room", Capacity: 50, Booked: []HourSlot{{Day: 1, Start: 8, End: 18}}},
	}
	activities := []Activity{{ID: "assembly", Duration: 1, RequiredTypes: []string{"room"}, Members: 40}}

	result, err := Schedule(activities, venues, ScheduleOptions{RequireSeats: true})
	require.NoError(t, err)
	assert.Equal(t, Placement{ActivityID: "assembly", Venue: "Big", Slot: HourSlot{Day: 2, Start: 8, End: 9}}, placementOf(t, result, "assembly"))

	result, err = Schedule(activities, venues, ScheduleOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Small", placementOf(t, result, "assembly").Venue)
}

func TestScheduleRejectsInvalidInput(t *testing.T) {
	venues := []Venue{{Name: "R1", Type: "room"}}

	_, err := Schedule([]Activity{{ID: "x", Duration: 0, RequiredTypes: []string{"room"}}}, venues, ScheduleOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Schedule(nil, []Venue{{Name: "R1"}, {Name: "R1"}}, ScheduleOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ScheduleGreedy(nil, venues, ScheduleOptions{Window: Window{Open: 18, Close: 8}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScheduleEmptyInputIsComplete(t *testing.T) {
	result, err := Schedule(nil, nil, ScheduleOptions{})
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.True(t, result.Exhaustive)
	assert.Empty(t, result.Placements)
}

func TestScheduleIsDeterministicAndLeavesInputUntouched(t *testing.T) {
	activities, venues := hallCrunch(3)
	before := make([]Activity, len(activities))
	copy(before, activities)

	first, err := Schedule(activities, venues, ScheduleOptions{})
	require.NoError(t, err)
	second, err := Schedule(activities, venues, ScheduleOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, activities)
	assert.Empty(t, venues[0].Booked)
}

func TestScheduleHooksTraceSearch(t *testing.T) {
	activities, venues := hallCrunch(5)
	var tries, places, backtracks int
	opts := ScheduleOptions{
		Window: Window{Open: 8, Close: 10},
		Hooks: Hooks{
			OnTry:       func(Activity, string, HourSlot, int) { tries++ },
			OnPlace:     func(Placement, int) { places++ },
			OnBacktrack: func(Activity, int) { backtracks++ },
		},
	}

	result, err := Schedule(activities, venues, opts)
	require.NoError(t, err)
	assert.Equal(t, result.Nodes, tries)
	assert.Equal(t, len(result.Placements)+backtracks, places)
	assert.Greater(t, backtracks, 0)
}

func TestGreedyNodesBoundedByGrid(t *testing.T) {
	activities := make([]Activity, 0, 8)
	for i := 0; i < 8; i++ {
		activities = append(activities, Activity{ID: fmt.Sprintf("a%d", i), Duration: 1 + i%3, RequiredTypes: []string{"lab"}})
	}
	venues := []Venue{{Name: "L1", Type: "lab"}, {Name: "L2", Type: "lab"}}

	result, err := ScheduleGreedy(activities, venues, ScheduleOptions{})
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Nodes, len(activities)*5*10*len(venues))
	assert.True(t, result.Complete)
}

func TestFreeWindows(t *testing.T) {
	booked := []HourSlot{
		{Day: 1, Start: 14, End: 15},
		{Day: 1, Start: 10, End: 12},
		{Day: 2, Start: 8, End: 22},
	}

	free := FreeWindows(booked, 1, ViewWindow, 1)
	assert.Equal(t, []HourSlot{
		{Day: 1, Start: 8, End: 10},
		{Day: 1, Start: 12, End: 14},
		{Day: 1, Start: 15, End: 22},
	}, free)

	assert.Empty(t, FreeWindows(booked, 2, ViewWindow, 1))
	assert.Equal(t, []HourSlot{{Day: 1, Start: 15, End: 22}}, FreeWindows(booked, 1, ViewWindow, 3))
}

func hallOnly(n, duration int) ([]Activity, []Venue) {
	activities := make([]Activity, 0, n)
	for i := 1; i <= n; i++ {
		activities = append(activities, Activity{ID: fmt.Sprintf("h%d", i), Duration: duration, RequiredTypes: []string{"hall"}})
	}
	return activities, []Venue{{Name: "Hall", Type: "hall"}}
}

func TestScheduleSkipsSearchWhenVenueHoursAreShort(t *testing.T) {
	// 12 five hour blocks against 50 free hall hours
	activities, venues := hallOnly(12, 5)

	var fallback string
	var tries int
	result, err := Schedule(activities, venues, ScheduleOptions{Hooks: Hooks{
		OnFallback: func(r string) { fallback = r },
		OnTry:      func(Activity, string, HourSlot, int) { tries++ },
	}})
	require.NoError(t, err)
	assert.False(t, result.Exhaustive)
	assert.False(t, result.Complete)
	assert.Len(t, result.Placements, 10)
	assert.Equal(t, []string{"h11", "h12"}, result.Unplaced)
	assert.Contains(t, fallback, "need 60 hours, only 50 are free")
	assert.LessOrEqual(t, tries, len(activities)*5*10)
	assertNoVenueOverlap(t, result)
}

func TestScheduleVenueHoursCountBookings(t *testing.T) {
	activities, venues := hallOnly(5, 2)
	for day := FirstDay; day <= LastDay; day++ {
		venues[0].Booked = append(venues[0].Booked, HourSlot{Day: day, Start: 9, End: 18})
	}

	var fallback string
	result, err := Schedule(activities, venues, ScheduleOptions{Hooks: Hooks{OnFallback: func(r string) { fallback = r }}})
	require.NoError(t, err)
	assert.False(t, result.Exhaustive)
	assert.Empty(t, result.Placements)
	assert.Contains(t, fallback, "only 5 are free")
}

func TestScheduleStopsAtNodeBudget(t *testing.T) {
	// 44 hours fit the 50 free hours, but a day holds only two four hour blocks
	activities, venues := hallOnly(11, 4)

	var fallback string
	result, err := Schedule(activities, venues, ScheduleOptions{
		MaxNodes: 5000,
		Hooks:    Hooks{OnFallback: func(r string) { fallback = r }},
	})
	require.NoError(t, err)
	assert.False(t, result.Exhaustive)
	assert.False(t, result.Complete)
	assert.Len(t, result.Placements, 10)
	assert.Equal(t, []string{"h11"}, result.Unplaced)
	assert.Contains(t, fallback, "budget of 5000 nodes")
	assert.LessOrEqual(t, result.Nodes, 5000+len(activities)*5*10)
	assertNoVenueOverlap(t, result)
}

func TestScheduleDefaultBudgetBoundsInfeasibleSearch(t *testing.T) {
	activities, venues := hallOnly(11, 4)

	result, err := Schedule(activities, venues, ScheduleOptions{})
	require.NoError(t, err)
	assert.False(t, result.Exhaustive)
	assert.LessOrEqual(t, result.Nodes, DefaultMaxNodes+len(activities)*5*10)
}
