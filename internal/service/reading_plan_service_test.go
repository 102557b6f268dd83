package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/models"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
)

func TestReadingPlanServicePlanCaches(t *testing.T) {
	cache := &memoryCacheRepo{}
	svc := NewReadingPlanService(&stubBookRepo{}, newMemoryCache(cache, nil), nil, nil, nil, PlanConfig{})
	req := dto.ReadingPlanRequest{Tasks: []dto.ReadingTaskPayload{
		{ID: "A", EarliestStart: 0, Duration: 14},
		{ID: "B", EarliestStart: 3, Duration: 10},
	}}

	first, err := svc.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 24, first.Makespan)
	assert.Equal(t, 2, first.Candidates)
	assert.True(t, first.Exhaustive)
	assert.Equal(t, StrategyBacktracking, first.Strategy)
	assert.False(t, first.Cached)

	second, err := svc.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Intervals, second.Intervals)
}

func TestReadingPlanServiceResolvesBooks(t *testing.T) {
	books := &stubBookRepo{books: []models.Book{
		{ID: "b1", Title: "Dune", AvailableIn: 0, ReadDays: 14},
		{ID: "b2", Title: "Emma", AvailableIn: 3, ReadDays: 10},
	}}
	svc := NewReadingPlanService(books, nil, nil, nil, nil, PlanConfig{})

	resp, err := svc.Plan(context.Background(), dto.ReadingPlanRequest{BookIDs: []string{"b1", "b2"}})
	require.NoError(t, err)
	assert.Equal(t, 24, resp.Makespan)
	require.Len(t, resp.Intervals, 2)
	assert.Equal(t, "Dune", resp.Intervals[0].Title)

	_, err = svc.Plan(context.Background(), dto.ReadingPlanRequest{BookIDs: []string{"b1", "b9"}})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))
}

func TestReadingPlanServiceGreedyAboveLimit(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewReadingPlanService(&stubBookRepo{}, nil, metrics, nil, nil, PlanConfig{MaxExhaustiveTasks: 1})

	resp, err := svc.Plan(context.Background(), dto.ReadingPlanRequest{Tasks: []dto.ReadingTaskPayload{
		{ID: "A", EarliestStart: 0, Duration: 14},
		{ID: "B", EarliestStart: 3, Duration: 10},
	}})
	require.NoError(t, err)
	assert.Equal(t, StrategyGreedy, resp.Strategy)
	assert.False(t, resp.Exhaustive)
	assert.Equal(t, int64(1), metrics.Snapshot().AllocatorFallbacks[RunKindPlan])
}

func TestReadingPlanServiceValidation(t *testing.T) {
	svc := NewReadingPlanService(&stubBookRepo{}, nil, nil, nil, nil, PlanConfig{})

	_, err := svc.Plan(context.Background(), dto.ReadingPlanRequest{
		Tasks:   []dto.ReadingTaskPayload{{ID: "A", Duration: 1}},
		BookIDs: []string{"b1"},
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))

	_, err = svc.Plan(context.Background(), dto.ReadingPlanRequest{Tasks: []dto.ReadingTaskPayload{{ID: "A", Duration: 0}}})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))

	empty, err := svc.Plan(context.Background(), dto.ReadingPlanRequest{})
	require.NoError(t, err)
	assert.Empty(t, empty.Intervals)
	assert.Zero(t, empty.Makespan)
}
