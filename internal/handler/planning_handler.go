package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/service"
	"github.com/noah-isme/campus-allocator/pkg/response"
)

const defaultTopRecommended = 5

type readingPlanner interface {
	Plan(ctx context.Context, req dto.ReadingPlanRequest) (*dto.ReadingPlanResponse, error)
}

type courseRecommender interface {
	Recommend(ctx context.Context, req dto.RecommendRequest) (*dto.RecommendResponse, error)
	Top(ctx context.Context, n int) ([]allocator.Course, error)
}

// PlanningHandler exposes reading plans and course recommendations.
type PlanningHandler struct {
	plans           readingPlanner
	recommendations courseRecommender
}

// NewPlanningHandler constructs the handler.
func NewPlanningHandler(plans *service.ReadingPlanService, recommendations *service.RecommendationService) *PlanningHandler {
	return &PlanningHandler{plans: plans, recommendations: recommendations}
}

// ReadingPlan godoc
// @Summary Plan non-overlapping reading intervals
// @Tags Planning
// @Accept json
// @Produce json
// @Param payload body dto.ReadingPlanRequest true "Inline tasks or catalog book ids"
// @Success 200 {object} response.Envelope
// @Router /reading-plans [post]
func (h *PlanningHandler) ReadingPlan(c *gin.Context) {
	var req dto.ReadingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err, "invalid reading plan payload")
		return
	}
	start := time.Now()
	result, err := h.plans.Plan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, result, result.Cached)
}

// Recommend godoc
// @Summary Rank courses under a credit ceiling
// @Tags Planning
// @Accept json
// @Produce json
// @Param payload body dto.RecommendRequest true "Courses, ceiling and strategy"
// @Success 200 {object} response.Envelope
// @Router /recommendations [post]
func (h *PlanningHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err, "invalid recommendation payload")
		return
	}
	result, err := h.recommendations.Recommend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Top godoc
// @Summary Catalog courses with the highest recommendation index
// @Tags Planning
// @Produce json
// @Param n query int false "Number of courses" default(5)
// @Success 200 {object} response.Envelope
// @Router /recommendations/top [get]
func (h *PlanningHandler) Top(c *gin.Context) {
	n := defaultTopRecommended
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			invalidPayload(c, err, "n must be an integer")
			return
		}
		n = parsed
	}
	courses, err := h.recommendations.Top(c.Request.Context(), n)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}
