package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/service"
	"github.com/noah-isme/campus-allocator/pkg/response"
)

type allocationManager interface {
	Allocate(ctx context.Context, req dto.AllocateRequest) (*dto.AllocationResponse, error)
	Recompute(ctx context.Context) (*dto.AllocationResponse, error)
	Current(ctx context.Context) (*dto.AllocationResponse, bool, error)
	Selections(ctx context.Context, requesterID string) (*dto.SelectionsResponse, error)
	Submit(ctx context.Context, requesterID string, req dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, requesterID, applicationID string, isAdmin bool) error
}

// AllocationHandler exposes seat allocation and application endpoints.
type AllocationHandler struct {
	service allocationManager
}

// NewAllocationHandler constructs the handler.
func NewAllocationHandler(svc *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{service: svc}
}

// Preview godoc
// @Summary Allocate an inline instance without touching stored state
// @Tags Allocation
// @Accept json
// @Produce json
// @Param payload body dto.AllocateRequest true "Courses, applications and prior selections"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /allocations/preview [post]
func (h *AllocationHandler) Preview(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err, "invalid allocation payload")
		return
	}
	start := time.Now()
	result, err := h.service.Allocate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, result, false)
}

// Current godoc
// @Summary Latest allocation snapshot over stored applications
// @Tags Allocation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /allocations [get]
func (h *AllocationHandler) Current(c *gin.Context) {
	start := time.Now()
	result, hit, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, result, hit)
}

// Recompute godoc
// @Summary Recompute the allocation snapshot synchronously
// @Tags Allocation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /allocations/recompute [post]
func (h *AllocationHandler) Recompute(c *gin.Context) {
	start := time.Now()
	result, err := h.service.Recompute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, result, false)
}

// Me godoc
// @Summary Courses granted to the authenticated requester
// @Tags Allocation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /allocations/me [get]
func (h *AllocationHandler) Me(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	result, err := h.service.Selections(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Submit godoc
// @Summary Apply for a course seat
// @Description Rejected immediately when the course is unknown, full, already held or clashes with a held course.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitApplicationRequest true "Application"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications [post]
func (h *AllocationHandler) Submit(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err, "invalid application payload")
		return
	}
	result, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Withdraw godoc
// @Summary Withdraw an application
// @Tags Applications
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [delete]
func (h *AllocationHandler) Withdraw(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.service.Withdraw(c.Request.Context(), claims.UserID, c.Param("id"), claims.IsAdmin()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
