package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/catalog"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/models"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
)

type bookReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Book, error)
}

// PlanConfig bounds the exhaustive interval search.
type PlanConfig struct {
	MaxExhaustiveTasks int
	TraceSearch        bool
	CacheTTL           time.Duration
}

// ReadingPlanService orders reading tasks to minimise the finishing day.
type ReadingPlanService struct {
	books     bookReader
	cache     resultCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    PlanConfig
}

// NewReadingPlanService constructs the service.
func NewReadingPlanService(books bookReader, cache resultCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config PlanConfig) *ReadingPlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = (*CacheService)(nil)
	}
	if config.MaxExhaustiveTasks <= 0 {
		config.MaxExhaustiveTasks = 8
	}
	return &ReadingPlanService{books: books, cache: cache, metrics: metrics, validator: validate, logger: logger, config: config}
}

// Plan builds a reading plan from inline tasks or catalog book ids.
func (s *ReadingPlanService) Plan(ctx context.Context, req dto.ReadingPlanRequest) (*dto.ReadingPlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reading plan payload")
	}
	if len(req.Tasks) > 0 && len(req.BookIDs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "provide either tasks or bookIds, not both")
	}

	tasks := tasksFromPayload(req.Tasks)
	if len(req.BookIDs) > 0 {
		start := time.Now()
		books, err := s.books.FindByIDs(ctx, req.BookIDs)
		s.metrics.ObserveDBQuery("books_find", time.Since(start))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load books")
		}
		if missing := missingBooks(req.BookIDs, books); len(missing) > 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown books: %s", strings.Join(missing, ", ")))
		}
		tasks = catalog.ReadTasks(books)
	}

	key := planCacheKey(tasks)
	var cached dto.ReadingPlanResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("plan cache unavailable", zap.Error(err))
	} else if hit {
		cached.Cached = true
		return &cached, nil
	}

	resp, err := s.plan(tasks)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, resp, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache reading plan", zap.Error(err))
	}
	return resp, nil
}

func (s *ReadingPlanService) plan(tasks []allocator.ReadTask) (*dto.ReadingPlanResponse, error) {
	start := time.Now()
	var (
		plan     allocator.Plan
		err      error
		strategy = StrategyBacktracking
	)
	if len(tasks) > s.config.MaxExhaustiveTasks {
		strategy = StrategyGreedy
		s.metrics.RecordFallback(RunKindPlan)
		s.logger.Info("task count above exhaustive limit, using greedy planner",
			zap.Int("tasks", len(tasks)),
			zap.Int("limit", s.config.MaxExhaustiveTasks),
		)
		plan, err = allocator.PlanIntervalsGreedy(tasks)
	} else {
		plan, err = allocator.PlanIntervals(tasks, allocator.PlanOptions{
			Hooks: searchHooks(s.logger, s.config.TraceSearch, nil),
		})
	}
	if err != nil {
		return nil, coreError(err, "invalid reading tasks")
	}
	s.metrics.ObserveAllocatorRun(RunKindPlan, plan.Candidates, time.Since(start))
	return &dto.ReadingPlanResponse{Plan: plan, Strategy: strategy}, nil
}

// planCacheKey identifies an ordered task list. Order matters because ties between equal
// makespans go to the first plan found.
func planCacheKey(tasks []allocator.ReadTask) string {
	parts := make([]string, 0, len(tasks))
	for _, t := range tasks {
		parts = append(parts, fmt.Sprintf("%s/%d/%d", t.ID, t.EarliestStart, t.Duration))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ";")))
	return "plan:" + hex.EncodeToString(sum[:12])
}

func missingBooks(ids []string, books []models.Book) []string {
	found := make(map[string]struct{}, len(books))
	for _, b := range books {
		found[b.ID] = struct{}{}
	}
	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
