// Package catalog turns stored or file based catalog rows into allocator problem instances.
package catalog

import (
	"fmt"
	"strings"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/models"
)

// Course converts one catalog row, parsing its schedule.
func Course(row models.Course) (allocator.Course, error) {
	slots, err := allocator.ParsePeriodSlots(row.Schedule)
	if err != nil {
		return allocator.Course{}, fmt.Errorf("course %s: %w", row.ID, err)
	}
	name := row.Name
	if name == "" {
		name = row.Code
	}
	return allocator.Course{
		ID:        row.ID,
		Name:      name,
		Teacher:   row.Teacher,
		Capacity:  row.Capacity,
		Credits:   row.Credits,
		Interest:  row.InterestIndex,
		Workload:  row.Workload,
		Recommend: row.RecommendIndex,
		Slots:     slots,
	}, nil
}

// CourseList converts rows keeping their order.
func CourseList(rows []models.Course) ([]allocator.Course, error) {
	out := make([]allocator.Course, 0, len(rows))
	for _, row := range rows {
		c, err := Course(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CourseTable indexes courses by id. Duplicate ids are rejected.
func CourseTable(courses []allocator.Course) (map[string]allocator.Course, error) {
	table := make(map[string]allocator.Course, len(courses))
	for _, c := range courses {
		if _, dup := table[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate course %q", allocator.ErrInvalidInput, c.ID)
		}
		table[c.ID] = c
	}
	return table, nil
}

// Applications converts stored applications.
func Applications(rows []models.CourseApplication) []allocator.Application {
	out := make([]allocator.Application, 0, len(rows))
	for _, row := range rows {
		out = append(out, allocator.Application{
			ID:          row.ID,
			RequesterID: row.RequesterID,
			CourseID:    row.CourseID,
			Priority:    row.Priority,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return out
}

// Venues converts venue rows.
func Venues(rows []models.Venue) []allocator.Venue {
	out := make([]allocator.Venue, 0, len(rows))
	for _, row := range rows {
		out = append(out, allocator.Venue{Name: row.Name, Type: row.Type, Capacity: row.Capacity})
	}
	return out
}

// Activities converts club activity rows.
func Activities(rows []models.ClubActivity) []allocator.Activity {
	out := make([]allocator.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, allocator.Activity{
			ID:            row.ID,
			Name:          row.Name,
			Duration:      row.DurationHours,
			RequiredTypes: SplitTypes(row.RequiredVenues),
			Frequency:     allocator.Frequency(strings.ToUpper(strings.TrimSpace(row.Frequency))),
			Members:       row.MaxMembers,
		})
	}
	return out
}

// ReadTasks converts books into reading tasks.
func ReadTasks(rows []models.Book) []allocator.ReadTask {
	out := make([]allocator.ReadTask, 0, len(rows))
	for _, row := range rows {
		out = append(out, allocator.ReadTask{
			ID:            row.ID,
			Title:         row.Title,
			EarliestStart: row.AvailableIn,
			Duration:      row.ReadDays,
		})
	}
	return out
}

// SplitTypes splits a venue type list on '|' or ','.
func SplitTypes(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}
