package allocator

import "errors"

// Contract violations. Per-demand failures are reported as Reason values, never as errors.
var (
	ErrNoResourceTable = errors.New("allocator: resource table is missing")
	ErrInvalidInput    = errors.New("allocator: invalid input")
	ErrUnknownStrategy = errors.New("allocator: unknown ranking strategy")
)

// Reason explains why a demand was not satisfied.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonResourceNotFound Reason = "RESOURCE_NOT_FOUND"
	ReasonCapacityExceeded Reason = "CAPACITY_EXCEEDED"
	ReasonTimeConflict     Reason = "TIME_CONFLICT"
	ReasonAlreadySelected  Reason = "ALREADY_SELECTED"
	ReasonInfeasible       Reason = "INFEASIBLE"
)

// Message returns a human readable description of the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonResourceNotFound:
		return "course does not exist"
	case ReasonCapacityExceeded:
		return "course is full"
	case ReasonTimeConflict:
		return "time conflicts with an already selected course"
	case ReasonAlreadySelected:
		return "course already selected"
	case ReasonInfeasible:
		return "no feasible slot"
	default:
		return ""
	}
}
