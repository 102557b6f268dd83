package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/dto"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
)

type stubSnapshotSource struct {
	snapshot *dto.AllocationResponse
	err      error
}

func (s stubSnapshotSource) Current(context.Context) (*dto.AllocationResponse, bool, error) {
	return s.snapshot, false, s.err
}

func TestExportServiceAllocationCSV(t *testing.T) {
	source := stubSnapshotSource{snapshot: &dto.AllocationResponse{Results: []allocator.AllocationResult{
		{ApplicationID: "a1", RequesterID: "s1", CourseID: "c1", Status: allocator.StatusSuccess},
		{ApplicationID: "a2", RequesterID: "s2", CourseID: "c1", Status: allocator.StatusFailed, Reason: allocator.ReasonCapacityExceeded},
	}}}
	svc := NewExportService(source, nil, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	file, err := svc.Allocation(context.Background(), dto.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "allocations-20260301-093000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "application,requester,course,status,reason,conflict_with", lines[0])
	assert.Equal(t, "a2,s2,c1,failed,CAPACITY_EXCEEDED,", lines[2])
}

func TestExportServiceTimetablePDF(t *testing.T) {
	schedule := NewActivityScheduleService(newVenueCatalog(), nil, nil, nil, nil, ScheduleConfig{})
	svc := NewExportService(nil, schedule, nil, nil, nil)

	file, err := svc.Timetable(context.Background(), dto.ScheduleActivitiesRequest{}, dto.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestExportServiceErrors(t *testing.T) {
	svc := NewExportService(stubSnapshotSource{err: appErrors.ErrInternal}, nil, nil, nil, nil)

	_, err := svc.Allocation(context.Background(), "xlsx")
	assert.Error(t, err)

	_, err = svc.Allocation(context.Background(), dto.FormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrInternal)

	_, err = svc.Timetable(context.Background(), dto.ScheduleActivitiesRequest{}, "docx")
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
}
