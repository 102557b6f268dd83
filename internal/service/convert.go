package service

import (
	"errors"
	"fmt"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/dto"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
)

func coursesFromPayload(payload []dto.CoursePayload) ([]allocator.Course, error) {
	out := make([]allocator.Course, 0, len(payload))
	for _, p := range payload {
		slots := make([]allocator.PeriodSlot, 0, len(p.Schedule))
		for _, raw := range p.Schedule {
			slot, err := allocator.ParsePeriodSlot(raw)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid schedule for course %s", p.ID))
			}
			slots = append(slots, slot)
		}
		out = append(out, allocator.Course{
			ID:        p.ID,
			Name:      p.Name,
			Teacher:   p.Teacher,
			Capacity:  p.Capacity,
			Enrolled:  p.Enrolled,
			Credits:   p.Credits,
			Interest:  p.Interest,
			Workload:  p.Workload,
			Recommend: p.Recommend,
			Slots:     slots,
		})
	}
	return out, nil
}

func applicationsFromPayload(payload []dto.ApplicationPayload) []allocator.Application {
	out := make([]allocator.Application, 0, len(payload))
	for _, p := range payload {
		out = append(out, allocator.Application{
			ID:          p.ID,
			RequesterID: p.RequesterID,
			CourseID:    p.CourseID,
			Priority:    p.Priority,
			SubmittedAt: p.SubmittedAt,
		})
	}
	return out
}

func venuesFromPayload(payload []dto.VenuePayload) []allocator.Venue {
	out := make([]allocator.Venue, 0, len(payload))
	for _, p := range payload {
		out = append(out, allocator.Venue{Name: p.Name, Type: p.Type, Capacity: p.Capacity, Booked: p.Booked})
	}
	return out
}

func activitiesFromPayload(payload []dto.ActivityPayload) []allocator.Activity {
	out := make([]allocator.Activity, 0, len(payload))
	for _, p := range payload {
		freq := allocator.Frequency(p.Frequency)
		if freq == "" {
			freq = allocator.FrequencyWeekly
		}
		out = append(out, allocator.Activity{
			ID:            p.ID,
			Name:          p.Name,
			Duration:      p.Duration,
			RequiredTypes: p.RequiredTypes,
			Frequency:     freq,
			Members:       p.Members,
		})
	}
	return out
}

func tasksFromPayload(payload []dto.ReadingTaskPayload) []allocator.ReadTask {
	out := make([]allocator.ReadTask, 0, len(payload))
	for _, p := range payload {
		out = append(out, allocator.ReadTask{ID: p.ID, Title: p.Title, EarliestStart: p.EarliestStart, Duration: p.Duration})
	}
	return out
}

// coreError maps allocator contract errors onto API errors.
func coreError(err error, message string) error {
	switch {
	case errors.Is(err, allocator.ErrInvalidInput), errors.Is(err, allocator.ErrNoResourceTable):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	case errors.Is(err, allocator.ErrUnknownStrategy):
		return appErrors.Wrap(err, appErrors.ErrUnknownStrategy.Code, appErrors.ErrUnknownStrategy.Status, message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}
