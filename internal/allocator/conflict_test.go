package allocator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursConflictIsSymmetricAndHalfOpen(t *testing.T) {
	cases := []struct {
		name string
		a, b HourSlot
		want bool
	}{
		{"overlap", HourSlot{Day: 1, Start: 8, End: 11}, HourSlot{Day: 1, Start: 10, End: 12}, true},
		{"touching", HourSlot{Day: 1, Start: 8, End: 10}, HourSlot{Day: 1, Start: 10, End: 12}, false},
		{"contained", HourSlot{Day: 2, Start: 8, End: 18}, HourSlot{Day: 2, Start: 12, End: 13}, true},
		{"other day", HourSlot{Day: 1, Start: 8, End: 11}, HourSlot{Day: 2, Start: 8, End: 11}, false},
		{"identical", HourSlot{Day: 3, Start: 9, End: 10}, HourSlot{Day: 3, Start: 9, End: 10}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HoursConflict(tc.a, tc.b))
			assert.Equal(t, HoursConflict(tc.a, tc.b), HoursConflict(tc.b, tc.a))
		})
	}
}

func TestPeriodsConflictRequiresSharedPeriod(t *testing.T) {
	mon12 := PeriodSlot{Day: 1, Periods: []int{1, 2}}
	mon23 := PeriodSlot{Day: 1, Periods: []int{2, 3}}
	mon34 := PeriodSlot{Day: 1, Periods: []int{3, 4}}
	tue12 := PeriodSlot{Day: 2, Periods: []int{1, 2}}

	assert.True(t, PeriodsConflict(mon12, mon23))
	assert.True(t, PeriodsConflict(mon23, mon12))
	assert.False(t, PeriodsConflict(mon12, mon34))
	assert.False(t, PeriodsConflict(mon12, tue12))
	assert.False(t, PeriodsConflict(mon12, PeriodSlot{Day: 1}))

	assert.True(t, SlotsConflict([]PeriodSlot{tue12, mon34}, []PeriodSlot{mon23}))
	assert.False(t, SlotsConflict(nil, []PeriodSlot{mon23}))
}

func TestParsePeriodSlot(t *testing.T) {
	slot, err := ParsePeriodSlot("Mon 1-2")
	require.NoError(t, err)
	assert.Equal(t, PeriodSlot{Day: 1, Periods: []int{1, 2}}, slot)

	slot, err = ParsePeriodSlot("friday 7")
	require.NoError(t, err)
	assert.Equal(t, PeriodSlot{Day: 5, Periods: []int{7}}, slot)

	slot, err = ParsePeriodSlot("3 5-8")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7, 8}, slot.Periods)
	assert.Equal(t, "Wed 5-8", slot.String())

	for _, raw := range []string{"", "Mon", "Sun 1-2", "Mon 3-1", "Mon x-2", "Mon 0"} {
		_, err := ParsePeriodSlot(raw)
		assert.Truef(t, errors.Is(err, ErrInvalidInput), "expected invalid input for %q", raw)
	}
}

func TestParsePeriodSlotsRoundTrip(t *testing.T) {
	slots, err := ParsePeriodSlots("Mon 1-2; Wed 3")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Mon 1-2; Wed 3", FormatPeriodSlots(slots))

	empty, err := ParsePeriodSlots("  ")
	require.NoError(t, err)
	assert.Nil(t, empty)
}
