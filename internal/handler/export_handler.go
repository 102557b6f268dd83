package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/service"
	"github.com/noah-isme/campus-allocator/pkg/response"
)

type exporter interface {
	Allocation(ctx context.Context, format string) (*dto.ExportFile, error)
	Timetable(ctx context.Context, req dto.ScheduleActivitiesRequest, format string) (*dto.ExportFile, error)
}

// ExportHandler streams CSV and PDF renderings.
type ExportHandler struct {
	service exporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Allocations godoc
// @Summary Export the current allocation snapshot
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/allocations [get]
func (h *ExportHandler) Allocations(c *gin.Context) {
	file, err := h.service.Allocation(c.Request.Context(), c.DefaultQuery("format", dto.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Timetable godoc
// @Summary Export an activity timetable
// @Tags Exports
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param payload body dto.ScheduleActivitiesRequest false "Venues and activities; empty uses the catalog"
// @Success 200 {file} file
// @Router /exports/timetable [post]
func (h *ExportHandler) Timetable(c *gin.Context) {
	var req dto.ScheduleActivitiesRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidPayload(c, err, "invalid timetable payload")
			return
		}
	}
	file, err := h.service.Timetable(c.Request.Context(), req, c.DefaultQuery("format", dto.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
