package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/dto"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
	"github.com/noah-isme/campus-allocator/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type snapshotSource interface {
	Current(ctx context.Context) (*dto.AllocationResponse, bool, error)
}

type timetableSource interface {
	Schedule(ctx context.Context, req dto.ScheduleActivitiesRequest) (*dto.ScheduleResponse, error)
}

// ExportService renders allocation results and activity timetables as downloadable files.
type ExportService struct {
	allocations snapshotSource
	timetables  timetableSource
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs the service.
func NewExportService(allocations snapshotSource, timetables timetableSource, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{allocations: allocations, timetables: timetables, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Allocation exports the current allocation snapshot.
func (s *ExportService) Allocation(ctx context.Context, format string) (*dto.ExportFile, error) {
	snapshot, _, err := s.allocations.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.render(AllocationDataset(snapshot), "allocations", format)
}

// Timetable schedules the request and exports the placements.
func (s *ExportService) Timetable(ctx context.Context, req dto.ScheduleActivitiesRequest, format string) (*dto.ExportFile, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	result, err := s.timetables.Schedule(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.render(TimetableDataset(result), "timetable", format)
}

func (s *ExportService) render(data export.Dataset, name, format string) (*dto.ExportFile, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	stamp := s.now().UTC().Format("20060102-150405")
	switch format {
	case dto.FormatPDF:
		body, err := s.pdf.Render(data, data.Title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &dto.ExportFile{Filename: fmt.Sprintf("%s-%s.pdf", name, stamp), ContentType: "application/pdf", Data: body}, nil
	default:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &dto.ExportFile{Filename: fmt.Sprintf("%s-%s.csv", name, stamp), ContentType: "text/csv", Data: body}, nil
	}
}

func checkFormat(format string) error {
	if format != dto.FormatCSV && format != dto.FormatPDF {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	return nil
}

// AllocationDataset tabulates one row per application outcome.
func AllocationDataset(snapshot *dto.AllocationResponse) export.Dataset {
	data := export.Dataset{
		Title:   "Course Allocation",
		Headers: []string{"application", "requester", "course", "status", "reason", "conflict_with"},
	}
	for _, r := range snapshot.Results {
		data.Rows = append(data.Rows, map[string]string{
			"application":   r.ApplicationID,
			"requester":     r.RequesterID,
			"course":        r.CourseID,
			"status":        string(r.Status),
			"reason":        string(r.Reason),
			"conflict_with": r.ConflictWith,
		})
	}
	return data
}

// TimetableDataset tabulates placements followed by UNPLACED rows.
func TimetableDataset(result *dto.ScheduleResponse) export.Dataset {
	data := export.Dataset{
		Title:   "Activity Timetable",
		Headers: []string{"activity", "name", "venue", "day", "start", "end", "frequency"},
	}
	for _, p := range result.Placements {
		data.Rows = append(data.Rows, map[string]string{
			"activity":  p.ActivityID,
			"name":      p.ActivityName,
			"venue":     p.Venue,
			"day":       allocator.DayName(p.Slot.Day),
			"start":     strconv.Itoa(p.Slot.Start),
			"end":       strconv.Itoa(p.Slot.End),
			"frequency": string(p.Frequency),
		})
	}
	for _, id := range result.Unplaced {
		data.Rows = append(data.Rows, map[string]string{"activity": id, "venue": "UNPLACED"})
	}
	return data
}
