package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankCatalog() []Course {
	return []Course{
		{ID: "c1", Credits: 3, Interest: 5, Workload: 2, Recommend: 0.9, Slots: []PeriodSlot{{Day: 1, Periods: []int{1, 2}}}},
		{ID: "c2", Credits: 4, Interest: 2, Workload: 4, Recommend: 0.5, Slots: []PeriodSlot{{Day: 1, Periods: []int{2, 3}}}},
		{ID: "c3", Credits: 2, Interest: 4, Workload: 1, Recommend: 0.7, Slots: []PeriodSlot{{Day: 2, Periods: []int{1}}}},
		{ID: "c4", Credits: 1, Interest: 3, Workload: 5, Recommend: 0.2, Slots: []PeriodSlot{{Day: 3, Periods: []int{1}}}},
	}
}

func courseIDs(courses []Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestScoreBalanced(t *testing.T) {
	course := Course{Credits: 3, Interest: 5, Workload: 2}
	assert.InDelta(t, 2.8, Score(course, StrategyBalanced), 1e-9)
	assert.InDelta(t, -2, Score(course, StrategyWorkload), 1e-9)
	assert.Zero(t, Score(course, Strategy("popularity")))
}

func TestRankStopsAtCeilingAndSkipsConflicts(t *testing.T) {
	rec, err := Rank(rankCatalog(), 6, StrategyCredits)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c3"}, courseIDs(rec.Courses))
	assert.Equal(t, 6, rec.TotalCredits)

	// the ceiling may be overshot by the course that crosses it
	rec, err = Rank(rankCatalog(), 5, StrategyCredits)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c3"}, courseIDs(rec.Courses))
	assert.Equal(t, 6, rec.TotalCredits)
}

func TestRankStrictNeverExceedsCeiling(t *testing.T) {
	rec, err := Rank(rankCatalog(), 5, StrategyCredits, RankOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c4"}, courseIDs(rec.Courses))
	assert.Equal(t, 5, rec.TotalCredits)
}

func TestRankAggregates(t *testing.T) {
	rec, err := Rank(rankCatalog(), 20, StrategyInterest)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c3", "c4"}, courseIDs(rec.Courses))
	assert.Equal(t, 6, rec.TotalCredits)
	assert.InDelta(t, 1.8, rec.TotalWeight, 1e-9)
	assert.InDelta(t, 4.0, rec.AverageInterest, 1e-9)
	assert.InDelta(t, 8.0/3.0, rec.AverageWorkload, 1e-9)

	rec, err = Rank(rankCatalog(), 4, StrategyWorkload)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c1"}, courseIDs(rec.Courses))
}

func TestRankEmptySelectionHasZeroAverages(t *testing.T) {
	rec, err := Rank(rankCatalog(), 0, StrategyBalanced)
	require.NoError(t, err)
	assert.NotNil(t, rec.Courses)
	assert.Empty(t, rec.Courses)
	assert.Zero(t, rec.AverageInterest)
	assert.Zero(t, rec.AverageWorkload)

	rec, err = Rank(nil, 10, StrategyRecommend)
	require.NoError(t, err)
	assert.Empty(t, rec.Courses)
}

func TestRankRejectsBadInput(t *testing.T) {
	_, err := Rank(rankCatalog(), 10, Strategy("popularity"))
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = Rank(rankCatalog(), -1, StrategyCredits)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankLeavesInputOrder(t *testing.T) {
	courses := rankCatalog()
	_, err := Rank(courses, 10, StrategyCredits)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, courseIDs(courses))
}

func TestRankAllCoversEveryStrategy(t *testing.T) {
	recs, err := RankAll(rankCatalog(), 6)
	require.NoError(t, err)
	require.Len(t, recs, len(Strategies))
	for i, rec := range recs {
		assert.Equal(t, Strategies[i], rec.Strategy)
	}
}

func TestTopRecommended(t *testing.T) {
	assert.Equal(t, []string{"c1", "c3"}, courseIDs(TopRecommended(rankCatalog(), 2)))
	assert.Len(t, TopRecommended(rankCatalog(), 10), 4)
	assert.Empty(t, TopRecommended(rankCatalog(), -1))
}
