package cli

import (
	"strings"

	"github.com/noah-isme/campus-allocator/internal/catalog"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/models"
)

func coursePayloads(rows []models.Course) []dto.CoursePayload {
	out := make([]dto.CoursePayload, 0, len(rows))
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = row.Code
		}
		out = append(out, dto.CoursePayload{
			ID:        row.ID,
			Name:      name,
			Teacher:   row.Teacher,
			Capacity:  row.Capacity,
			Credits:   row.Credits,
			Interest:  row.InterestIndex,
			Workload:  row.Workload,
			Recommend: row.RecommendIndex,
			Schedule:  splitSchedule(row.Schedule),
		})
	}
	return out
}

func splitSchedule(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func applicationPayloads(rows []models.CourseApplication) []dto.ApplicationPayload {
	out := make([]dto.ApplicationPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ApplicationPayload{
			ID:          row.ID,
			RequesterID: row.RequesterID,
			CourseID:    row.CourseID,
			Priority:    row.Priority,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return out
}

func venuePayloads(rows []models.Venue) []dto.VenuePayload {
	out := make([]dto.VenuePayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.VenuePayload{Name: row.Name, Type: row.Type, Capacity: row.Capacity})
	}
	return out
}

func activityPayloads(rows []models.ClubActivity) []dto.ActivityPayload {
	out := make([]dto.ActivityPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ActivityPayload{
			ID:            row.ID,
			Name:          row.Name,
			Duration:      row.DurationHours,
			RequiredTypes: catalog.SplitTypes(row.RequiredVenues),
			Frequency:     strings.ToUpper(strings.TrimSpace(row.Frequency)),
			Members:       row.MaxMembers,
		})
	}
	return out
}

func taskPayloads(rows []models.Book) []dto.ReadingTaskPayload {
	out := make([]dto.ReadingTaskPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ReadingTaskPayload{
			ID:            row.ID,
			Title:         row.Title,
			EarliestStart: row.AvailableIn,
			Duration:      row.ReadDays,
		})
	}
	return out
}
