package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/catalog"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/models"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
)

// Scheduling strategies reported in responses.
const (
	StrategyBacktracking = "backtracking"
	StrategyGreedy       = "greedy"
)

// CatalogTimetableCacheKey holds the schedule computed from the stored catalog.
const CatalogTimetableCacheKey = "timetable:catalog"

type venueCatalog interface {
	List(ctx context.Context) ([]models.Venue, error)
	FindByName(ctx context.Context, name string) (*models.Venue, error)
	ListActivities(ctx context.Context) ([]models.ClubActivity, error)
}

// ScheduleConfig bounds the exhaustive activity search. MaxSearchNodes caps the candidates
// one request may try; zero takes allocator.DefaultMaxNodes.
type ScheduleConfig struct {
	MaxExhaustiveActivities int
	MaxSearchNodes          int
	Window                  allocator.Window
	ViewWindow              allocator.Window
	TraceSearch             bool
	CacheTTL                time.Duration
}

// ActivityScheduleService places club activities into venues.
type ActivityScheduleService struct {
	venues    venueCatalog
	cache     resultCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    ScheduleConfig
}

// NewActivityScheduleService constructs the service.
func NewActivityScheduleService(venues venueCatalog, cache resultCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config ScheduleConfig) *ActivityScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = (*CacheService)(nil)
	}
	if config.MaxExhaustiveActivities <= 0 {
		config.MaxExhaustiveActivities = 12
	}
	if config.MaxSearchNodes <= 0 {
		config.MaxSearchNodes = allocator.DefaultMaxNodes
	}
	if config.Window == (allocator.Window{}) {
		config.Window = allocator.ActivityWindow
	}
	if config.ViewWindow == (allocator.Window{}) {
		config.ViewWindow = allocator.ViewWindow
	}
	return &ActivityScheduleService{
		venues:    venues,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// Schedule places the requested activities. Empty venue or activity lists are taken from
// the catalog.
func (s *ActivityScheduleService) Schedule(ctx context.Context, req dto.ScheduleActivitiesRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	venues := venuesFromPayload(req.Venues)
	if len(venues) == 0 {
		rows, err := s.listVenues(ctx)
		if err != nil {
			return nil, err
		}
		venues = catalog.Venues(rows)
	}
	activities := activitiesFromPayload(req.Activities)
	if len(activities) == 0 {
		rows, err := s.listActivities(ctx)
		if err != nil {
			return nil, err
		}
		activities = catalog.Activities(rows)
	}

	return s.schedule(activities, venues, req.RequireSeats)
}

// Timetable returns the schedule of the stored catalog, cached.
func (s *ActivityScheduleService) Timetable(ctx context.Context) (*dto.ScheduleResponse, bool, error) {
	var cached dto.ScheduleResponse
	hit, err := s.cache.Get(ctx, CatalogTimetableCacheKey, &cached)
	if err != nil {
		s.logger.Warn("timetable cache unavailable", zap.Error(err))
	}
	if hit {
		return &cached, true, nil
	}

	resp, err := s.Schedule(ctx, dto.ScheduleActivitiesRequest{})
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, CatalogTimetableCacheKey, resp, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache timetable", zap.Error(err))
	}
	return resp, false, nil
}

// Availability lists the free windows of a stored venue on one day, given the catalog
// timetable, inside the availability view window.
func (s *ActivityScheduleService) Availability(ctx context.Context, venueName string, day, minDuration int) (*dto.AvailabilityResponse, error) {
	if day < allocator.FirstDay || day > allocator.LastDay {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day must be between %d and %d", allocator.FirstDay, allocator.LastDay))
	}
	if minDuration < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "minimum duration must not be negative")
	}

	start := time.Now()
	venue, err := s.venues.FindByName(ctx, venueName)
	s.metrics.ObserveDBQuery("venues_find", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "venue not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load venue")
	}

	timetable, _, err := s.Timetable(ctx)
	if err != nil {
		return nil, err
	}
	booked := make([]allocator.HourSlot, 0)
	for _, p := range timetable.Placements {
		if p.Venue == venue.Name {
			booked = append(booked, p.Slot)
		}
	}

	return &dto.AvailabilityResponse{
		Venue:   venue.Name,
		Day:     day,
		DayName: allocator.DayName(day),
		Windows: allocator.FreeWindows(booked, day, s.config.ViewWindow, minDuration),
	}, nil
}

func (s *ActivityScheduleService) schedule(activities []allocator.Activity, venues []allocator.Venue, requireSeats bool) (*dto.ScheduleResponse, error) {
	opts := allocator.ScheduleOptions{
		Window:       s.config.Window,
		RequireSeats: requireSeats,
		MaxNodes:     s.config.MaxSearchNodes,
		Hooks:        searchHooks(s.logger, s.config.TraceSearch, func(string) { s.metrics.RecordFallback(RunKindSchedule) }),
	}

	strategy := StrategyBacktracking
	run := allocator.Schedule
	if len(activities) > s.config.MaxExhaustiveActivities {
		strategy = StrategyGreedy
		run = allocator.ScheduleGreedy
		s.metrics.RecordFallback(RunKindSchedule)
		s.logger.Info("activity count above exhaustive limit, using greedy scheduler",
			zap.Int("activities", len(activities)),
			zap.Int("limit", s.config.MaxExhaustiveActivities),
		)
	}

	start := time.Now()
	result, err := run(activities, venues, opts)
	if err != nil {
		return nil, coreError(err, "invalid scheduling instance")
	}
	s.metrics.ObserveAllocatorRun(RunKindSchedule, result.Nodes, time.Since(start))

	return &dto.ScheduleResponse{ScheduleResult: result, Strategy: strategy}, nil
}

func (s *ActivityScheduleService) listVenues(ctx context.Context) ([]models.Venue, error) {
	start := time.Now()
	rows, err := s.venues.List(ctx)
	s.metrics.ObserveDBQuery("venues_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load venues")
	}
	return rows, nil
}

func (s *ActivityScheduleService) listActivities(ctx context.Context) ([]models.ClubActivity, error) {
	start := time.Now()
	rows, err := s.venues.ListActivities(ctx)
	s.metrics.ObserveDBQuery("activities_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}
	return rows, nil
}
