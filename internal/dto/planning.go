package dto

import "github.com/noah-isme/campus-allocator/internal/allocator"

// ReadingTaskPayload is a book to schedule, offsets in days.
type ReadingTaskPayload struct {
	ID            string `json:"id" validate:"required"`
	Title         string `json:"title"`
	EarliestStart int    `json:"earliestStart" validate:"gte=0"`
	Duration      int    `json:"duration" validate:"gt=0"`
}

// ReadingPlanRequest takes either inline tasks or book ids resolved from the catalog.
type ReadingPlanRequest struct {
	Tasks   []ReadingTaskPayload `json:"tasks" validate:"dive"`
	BookIDs []string             `json:"bookIds" validate:"dive,required"`
}

// ReadingPlanResponse wraps the chosen plan.
type ReadingPlanResponse struct {
	allocator.Plan
	Strategy string `json:"strategy"`
	Cached   bool   `json:"cached"`
}

// RecommendRequest ranks courses. An empty strategy returns one recommendation per
// strategy; empty courses use the catalog.
type RecommendRequest struct {
	Courses  []CoursePayload `json:"courses" validate:"dive"`
	Ceiling  int             `json:"ceiling" validate:"gte=0"`
	Strategy string          `json:"strategy" validate:"omitempty,oneof=credits interest workload balanced recommend"`
	Strict   bool            `json:"strict"`
}

// RecommendResponse carries one or more recommendations.
type RecommendResponse struct {
	Recommendations []allocator.Recommendation `json:"recommendations"`
}

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
