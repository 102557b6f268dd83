package dto

import (
	"time"

	"github.com/noah-isme/campus-allocator/internal/allocator"
)

// CoursePayload describes a course inline. Schedule entries use the "Mon 1-2" form.
type CoursePayload struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name"`
	Teacher   string   `json:"teacher"`
	Capacity  int      `json:"capacity" validate:"gte=0"`
	Enrolled  int      `json:"enrolled" validate:"gte=0"`
	Credits   int      `json:"credits" validate:"gte=0"`
	Interest  float64  `json:"interest"`
	Workload  float64  `json:"workload"`
	Recommend float64  `json:"recommend"`
	Schedule  []string `json:"schedule"`
}

// ApplicationPayload is one demand in a stateless allocation request.
type ApplicationPayload struct {
	ID          string `json:"id" validate:"required"`
	RequesterID string `json:"requesterId" validate:"required"`
	CourseID    string `json:"courseId" validate:"required"`
	Priority    int    `json:"priority"`
	SubmittedAt int64  `json:"submittedAt"`
}

// AllocateRequest runs the priority allocator over an inline instance. Prior maps a requester
// to courses already granted before this pass.
type AllocateRequest struct {
	Courses      []CoursePayload      `json:"courses" validate:"required,dive"`
	Applications []ApplicationPayload `json:"applications" validate:"dive"`
	Prior        map[string][]string  `json:"prior"`
}

// AllocationResponse is the outcome of one allocation pass.
type AllocationResponse struct {
	RunID       string                       `json:"runId"`
	Results     []allocator.AllocationResult `json:"results"`
	Occupancy   map[string]int               `json:"occupancy"`
	Succeeded   int                          `json:"succeeded"`
	Failed      int                          `json:"failed"`
	GeneratedAt time.Time                    `json:"generatedAt"`
}

// SubmitApplicationRequest is a requester's application for a seat.
type SubmitApplicationRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Priority int    `json:"priority" validate:"gte=0,lte=100"`
}

// ApplicationResponse acknowledges a stored application.
type ApplicationResponse struct {
	ID              string `json:"id"`
	CourseID        string `json:"courseId"`
	Priority        int    `json:"priority"`
	SubmittedAt     int64  `json:"submittedAt"`
	RecomputeQueued bool   `json:"recomputeQueued"`
}

// SelectionsResponse lists the courses granted to one requester.
type SelectionsResponse struct {
	RequesterID string   `json:"requesterId"`
	Courses     []string `json:"courses"`
	RunID       string   `json:"runId,omitempty"`
}
