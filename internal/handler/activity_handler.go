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

type activityScheduler interface {
	Schedule(ctx context.Context, req dto.ScheduleActivitiesRequest) (*dto.ScheduleResponse, error)
	Availability(ctx context.Context, venueName string, day, minDuration int) (*dto.AvailabilityResponse, error)
}

// ActivityHandler exposes venue scheduling endpoints.
type ActivityHandler struct {
	service activityScheduler
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(svc *service.ActivityScheduleService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// Schedule godoc
// @Summary Place activities into venue time slots
// @Description Empty venue or activity lists are read from the catalog. Large instances fall back to a greedy pass.
// @Tags Activities
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleActivitiesRequest true "Venues and activities"
// @Success 200 {object} response.Envelope
// @Router /activities/schedule [post]
func (h *ActivityHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleActivitiesRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidPayload(c, err, "invalid schedule payload")
			return
		}
	}
	start := time.Now()
	result, err := h.service.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, result, false)
}

// Availability godoc
// @Summary Free windows of a venue on one day
// @Tags Activities
// @Produce json
// @Param name path string true "Venue name"
// @Param day query string true "Day (Mon, monday or 1)"
// @Param min query int false "Minimum window length in hours"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /venues/{name}/availability [get]
func (h *ActivityHandler) Availability(c *gin.Context) {
	day, err := allocator.ParseDay(c.Query("day"))
	if err != nil {
		invalidPayload(c, err, "invalid day")
		return
	}
	minDuration := 1
	if raw := c.Query("min"); raw != "" {
		minDuration, err = strconv.Atoi(raw)
		if err != nil || minDuration <= 0 {
			invalidPayload(c, err, "min must be a positive integer")
			return
		}
	}
	result, err := h.service.Availability(c.Request.Context(), c.Param("name"), day, minDuration)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
