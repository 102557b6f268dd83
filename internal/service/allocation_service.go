package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/catalog"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/models"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
	"github.com/noah-isme/campus-allocator/pkg/jobs"
)

// Cache keys and job identifiers used by the allocation workflow.
const (
	SnapshotCacheKey     = "allocation:snapshot"
	RecomputeJobType     = "allocation.recompute"
	recomputeCoalesceKey = "allocation"
)

type courseReader interface {
	List(ctx context.Context) ([]models.Course, error)
}

type applicationStore interface {
	List(ctx context.Context) ([]models.CourseApplication, error)
	ListByRequester(ctx context.Context, requesterID string) ([]models.CourseApplication, error)
	FindByID(ctx context.Context, id string) (*models.CourseApplication, error)
	Create(ctx context.Context, app *models.CourseApplication) error
	Delete(ctx context.Context, id string) error
}

type resultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) (bool, error)
}

// AllocationConfig tunes the allocation workflow.
type AllocationConfig struct {
	MaxDemands int
	CacheTTL   time.Duration
}

// AllocationService grants course seats. Stored applications are always reallocated in a
// full pass; snapshots are never patched incrementally.
type AllocationService struct {
	courses      courseReader
	applications applicationStore
	cache        resultCache
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	config       AllocationConfig

	mu    sync.RWMutex
	queue jobEnqueuer
}

// NewAllocationService constructs the service.
func NewAllocationService(courses courseReader, applications applicationStore, cache resultCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config AllocationConfig) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxDemands <= 0 {
		config.MaxDemands = 5000
	}
	if cache == nil {
		cache = (*CacheService)(nil)
	}
	return &AllocationService{
		courses:      courses,
		applications: applications,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		config:       config,
	}
}

// AttachQueue routes recomputes through a background queue. Without one, changes only
// invalidate the cached snapshot and the next read recomputes.
func (s *AllocationService) AttachQueue(queue jobEnqueuer) {
	s.mu.Lock()
	s.queue = queue
	s.mu.Unlock()
}

// HandleRecompute is the queue handler for recompute jobs.
func (s *AllocationService) HandleRecompute(ctx context.Context, job jobs.Job) error {
	if job.Type != RecomputeJobType {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	_, err := s.Recompute(ctx)
	return err
}

// Allocate runs a stateless allocation pass over an inline instance.
func (s *AllocationService) Allocate(ctx context.Context, req dto.AllocateRequest) (*dto.AllocationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}
	if len(req.Applications) > s.config.MaxDemands {
		return nil, appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("at most %d applications per request", s.config.MaxDemands))
	}

	courses, err := coursesFromPayload(req.Courses)
	if err != nil {
		return nil, err
	}
	return s.run(courses, applicationsFromPayload(req.Applications), req.Prior)
}

// Recompute reallocates every stored application and caches the snapshot.
func (s *AllocationService) Recompute(ctx context.Context) (*dto.AllocationResponse, error) {
	start := time.Now()
	rows, err := s.courses.List(ctx)
	s.metrics.ObserveDBQuery("courses_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	courses, err := catalog.CourseList(rows)
	if err != nil {
		return nil, coreError(err, "course catalog is invalid")
	}

	start = time.Now()
	stored, err := s.applications.List(ctx)
	s.metrics.ObserveDBQuery("applications_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}

	snapshot, err := s.run(courses, catalog.Applications(stored), nil)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, SnapshotCacheKey, snapshot, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache allocation snapshot", zap.Error(err))
	}
	s.logger.Info("allocation recomputed",
		zap.String("run_id", snapshot.RunID),
		zap.Int("applications", len(stored)),
		zap.Int("succeeded", snapshot.Succeeded),
		zap.Int("failed", snapshot.Failed),
	)
	return snapshot, nil
}

// Current returns the latest snapshot, recomputing it on a cache miss. The boolean reports
// a cache hit.
func (s *AllocationService) Current(ctx context.Context) (*dto.AllocationResponse, bool, error) {
	var cached dto.AllocationResponse
	hit, err := s.cache.Get(ctx, SnapshotCacheKey, &cached)
	if err != nil {
		s.logger.Warn("snapshot cache unavailable, recomputing", zap.Error(err))
	}
	if hit {
		return &cached, true, nil
	}
	snapshot, err := s.Recompute(ctx)
	if err != nil {
		return nil, false, err
	}
	return snapshot, false, nil
}

// Selections returns the courses currently granted to requesterID.
func (s *AllocationService) Selections(ctx context.Context, requesterID string) (*dto.SelectionsResponse, error) {
	snapshot, _, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	courses := allocator.Selections(snapshot.Results)[requesterID]
	if courses == nil {
		courses = []string{}
	}
	return &dto.SelectionsResponse{RequesterID: requesterID, Courses: courses, RunID: snapshot.RunID}, nil
}

// Submit stores an application after the selection pre-check passes against the current
// snapshot, then schedules a recompute.
func (s *AllocationService) Submit(ctx context.Context, requesterID string, req dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	if requesterID == "" {
		return nil, appErrors.ErrUnauthorized
	}

	snapshot, _, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	courses, err := catalog.CourseList(rows)
	if err != nil {
		return nil, coreError(err, "course catalog is invalid")
	}
	table, err := catalog.CourseTable(courses)
	if err != nil {
		return nil, coreError(err, "course catalog is invalid")
	}
	for id, c := range table {
		c.Enrolled = snapshot.Occupancy[id]
		table[id] = c
	}

	selected := allocator.Selections(snapshot.Results)[requesterID]
	if reason, with := allocator.CanSelect(req.CourseID, table, selected); reason != allocator.ReasonNone {
		return nil, selectionError(reason, with)
	}

	pending, err := s.applications.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}
	for _, p := range pending {
		if p.CourseID == req.CourseID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "application for this course already submitted")
		}
	}

	app := &models.CourseApplication{RequesterID: requesterID, CourseID: req.CourseID, Priority: req.Priority}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store application")
	}

	return &dto.ApplicationResponse{
		ID:              app.ID,
		CourseID:        app.CourseID,
		Priority:        app.Priority,
		SubmittedAt:     app.SubmittedAt,
		RecomputeQueued: s.scheduleRecompute(ctx),
	}, nil
}

// Withdraw deletes an application owned by requesterID; admins may withdraw any.
func (s *AllocationService) Withdraw(ctx context.Context, requesterID, applicationID string, isAdmin bool) error {
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if !isAdmin && app.RequesterID != requesterID {
		return appErrors.Clone(appErrors.ErrForbidden, "application belongs to another requester")
	}
	if err := s.applications.Delete(ctx, applicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete application")
	}
	s.scheduleRecompute(ctx)
	return nil
}

func (s *AllocationService) run(courses []allocator.Course, apps []allocator.Application, prior map[string][]string) (*dto.AllocationResponse, error) {
	table, err := catalog.CourseTable(courses)
	if err != nil {
		return nil, coreError(err, "invalid course list")
	}

	start := time.Now()
	results, err := allocator.Allocate(apps, table, prior)
	if err != nil {
		return nil, coreError(err, "allocation failed")
	}
	s.metrics.ObserveAllocatorRun(RunKindAllocation, 0, time.Since(start))

	resp := &dto.AllocationResponse{
		RunID:       uuid.NewString(),
		Results:     results,
		Occupancy:   allocator.Occupancy(results, prior, table),
		GeneratedAt: time.Now().UTC(),
	}
	for _, r := range results {
		if r.Succeeded() {
			resp.Succeeded++
			continue
		}
		resp.Failed++
		s.metrics.RecordAllocationFailure(string(r.Reason))
	}
	return resp, nil
}

// RequestRecompute queues a background pass over stored applications.
func (s *AllocationService) RequestRecompute(ctx context.Context) bool {
	return s.scheduleRecompute(ctx)
}

// scheduleRecompute drops the cached snapshot and queues a full pass. It reports whether a
// new job was queued.
func (s *AllocationService) scheduleRecompute(ctx context.Context) bool {
	if err := s.cache.Invalidate(ctx, SnapshotCacheKey); err != nil {
		s.logger.Warn("failed to invalidate allocation snapshot", zap.Error(err))
	}

	s.mu.RLock()
	queue := s.queue
	s.mu.RUnlock()
	if queue == nil {
		return false
	}

	queued, err := queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: RecomputeJobType, Key: recomputeCoalesceKey})
	if err != nil {
		s.logger.Warn("failed to enqueue recompute", zap.Error(err))
		return false
	}
	return queued
}

func selectionError(reason allocator.Reason, with string) error {
	message := reason.Message()
	if with != "" {
		message = fmt.Sprintf("%s (%s)", message, with)
	}
	if reason == allocator.ReasonResourceNotFound {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Rejection(string(reason), message)
}
