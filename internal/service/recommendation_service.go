package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/catalog"
	"github.com/noah-isme/campus-allocator/internal/dto"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
)

// RecommendationService suggests conflict-free course sets under a credit ceiling.
type RecommendationService struct {
	courses   courseReader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecommendationService constructs the service.
func NewRecommendationService(courses courseReader, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RecommendationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{courses: courses, metrics: metrics, validator: validate, logger: logger}
}

// Recommend ranks inline or catalog courses. An empty strategy yields one recommendation per
// known strategy.
func (s *RecommendationService) Recommend(ctx context.Context, req dto.RecommendRequest) (*dto.RecommendResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recommendation payload")
	}

	courses, err := coursesFromPayload(req.Courses)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		if courses, err = s.catalogCourses(ctx); err != nil {
			return nil, err
		}
	}

	opts := allocator.RankOptions{Strict: req.Strict}
	start := time.Now()
	var recs []allocator.Recommendation
	if req.Strategy == "" {
		recs, err = allocator.RankAll(courses, req.Ceiling, opts)
	} else {
		var rec allocator.Recommendation
		rec, err = allocator.Rank(courses, req.Ceiling, allocator.Strategy(req.Strategy), opts)
		recs = []allocator.Recommendation{rec}
	}
	if err != nil {
		return nil, coreError(err, "ranking failed")
	}
	s.metrics.ObserveAllocatorRun(RunKindRank, 0, time.Since(start))

	return &dto.RecommendResponse{Recommendations: recs}, nil
}

// Top returns the n catalog courses with the highest recommendation index.
func (s *RecommendationService) Top(ctx context.Context, n int) ([]allocator.Course, error) {
	if n <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "n must be positive")
	}
	courses, err := s.catalogCourses(ctx)
	if err != nil {
		return nil, err
	}
	return allocator.TopRecommended(courses, n), nil
}

func (s *RecommendationService) catalogCourses(ctx context.Context) ([]allocator.Course, error) {
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
	return courses, nil
}
