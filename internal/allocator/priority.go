package allocator

import "sort"

// Course is a seat-limited resource with fixed weekly slots.
type Course struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Teacher   string       `json:"teacher,omitempty" yaml:"teacher"`
	Capacity  int          `json:"capacity" yaml:"capacity"`
	Enrolled  int          `json:"enrolled" yaml:"enrolled"`
	Credits   int          `json:"credits" yaml:"credits"`
	Interest  float64      `json:"interest" yaml:"interest"`
	Workload  float64      `json:"workload" yaml:"workload"`
	Recommend float64      `json:"recommend" yaml:"recommend"`
	Slots     []PeriodSlot `json:"slots" yaml:"slots"`
}

// Application is one requester's demand for a seat in a course.
type Application struct {
	ID          string `json:"id" yaml:"id"`
	RequesterID string `json:"requesterId" yaml:"requesterId"`
	CourseID    string `json:"courseId" yaml:"courseId"`
	Priority    int    `json:"priority" yaml:"priority"`
	SubmittedAt int64  `json:"submittedAt" yaml:"submittedAt"`
}

// Status is the outcome of one demand.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// AllocationResult is the outcome for exactly one input application.
type AllocationResult struct {
	ApplicationID string `json:"applicationId"`
	RequesterID   string `json:"requesterId"`
	CourseID      string `json:"courseId"`
	Status        Status `json:"status"`
	Reason        Reason `json:"reason,omitempty"`
	ConflictWith  string `json:"conflictWith,omitempty"`
}

// Succeeded reports whether the application was granted.
func (r AllocationResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// SortApplications returns a copy ordered by priority descending, then submission time
// ascending. Equal (priority, submission) pairs keep their input order.
func SortApplications(applications []Application) []Application {
	sorted := make([]Application, len(applications))
	copy(sorted, applications)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].SubmittedAt < sorted[j].SubmittedAt
	})
	return sorted
}

// Allocate grants course seats in a single greedy pass.
//
// Occupancy starts empty on every call; prior maps a requester to course ids committed
// outside this batch, which count towards both occupancy and time conflicts. Seats are
// counted under the courses map key; prior ids missing from courses hold no seat. A commit is
// never revisited, so a later application cannot evict an earlier one. Results are returned
// in processing order, one per application.
func Allocate(applications []Application, courses map[string]Course, prior map[string][]string) ([]AllocationResult, error) {
	if courses == nil {
		return nil, ErrNoResourceTable
	}

	occupancy := make(map[string]int, len(courses))
	committed := make(map[string][]string, len(prior))
	for requester, ids := range prior {
		for _, id := range ids {
			if _, ok := courses[id]; ok {
				occupancy[id]++
			}
			committed[requester] = append(committed[requester], id)
		}
	}

	sorted := SortApplications(applications)
	results := make([]AllocationResult, 0, len(sorted))
	for _, app := range sorted {
		result := AllocationResult{
			ApplicationID: app.ID,
			RequesterID:   app.RequesterID,
			CourseID:      app.CourseID,
			Status:        StatusFailed,
		}

		course, ok := courses[app.CourseID]
		if !ok {
			result.Reason = ReasonResourceNotFound
			results = append(results, result)
			continue
		}
		if occupancy[app.CourseID] >= course.Capacity {
			result.Reason = ReasonCapacityExceeded
			results = append(results, result)
			continue
		}
		if reason, with := checkRequesterConflict(app.CourseID, course, committed[app.RequesterID], courses); reason != ReasonNone {
			result.Reason = reason
			result.ConflictWith = with
			results = append(results, result)
			continue
		}

		occupancy[app.CourseID]++
		committed[app.RequesterID] = append(committed[app.RequesterID], app.CourseID)
		result.Status = StatusSuccess
		results = append(results, result)
	}
	return results, nil
}

// checkRequesterConflict tests the course stored under courseID against every course
// already committed to the requester.
func checkRequesterConflict(courseID string, course Course, selected []string, courses map[string]Course) (Reason, string) {
	for _, id := range selected {
		if id == courseID {
			return ReasonAlreadySelected, id
		}
	}
	for _, id := range selected {
		other, ok := courses[id]
		if !ok {
			continue
		}
		if SlotsConflict(course.Slots, other.Slots) {
			return ReasonTimeConflict, id
		}
	}
	return ReasonNone, ""
}

// CanSelect is the pre-submission check for a single course. Unlike Allocate it uses the
// live Enrolled count of the catalog entry.
func CanSelect(courseID string, courses map[string]Course, selected []string) (Reason, string) {
	course, ok := courses[courseID]
	if !ok {
		return ReasonResourceNotFound, ""
	}
	if course.Enrolled >= course.Capacity {
		return ReasonCapacityExceeded, ""
	}
	return checkRequesterConflict(courseID, course, selected, courses)
}

// Occupancy replays results and returns granted seats per course, prior placements
// included. Like Allocate it ignores prior ids missing from courses.
func Occupancy(results []AllocationResult, prior map[string][]string, courses map[string]Course) map[string]int {
	counts := make(map[string]int)
	for _, ids := range prior {
		for _, id := range ids {
			if _, ok := courses[id]; ok {
				counts[id]++
			}
		}
	}
	for _, r := range results {
		if r.Succeeded() {
			counts[r.CourseID]++
		}
	}
	return counts
}

// Selections returns the granted course ids per requester, in processing order.
func Selections(results []AllocationResult) map[string][]string {
	out := make(map[string][]string)
	for _, r := range results {
		if r.Succeeded() {
			out[r.RequesterID] = append(out[r.RequesterID], r.CourseID)
		}
	}
	return out
}
