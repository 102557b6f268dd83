package dto

import "github.com/noah-isme/campus-allocator/internal/allocator"

// VenuePayload describes a venue inline.
type VenuePayload struct {
	Name     string               `json:"name" validate:"required"`
	Type     string               `json:"type" validate:"required"`
	Capacity int                  `json:"capacity" validate:"gte=0"`
	Booked   []allocator.HourSlot `json:"booked"`
}

// ActivityPayload describes an activity inline.
type ActivityPayload struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name"`
	Duration      int      `json:"duration" validate:"gt=0,lte=24"`
	RequiredTypes []string `json:"requiredTypes"`
	Frequency     string   `json:"frequency" validate:"omitempty,oneof=WEEKLY BIWEEKLY MONTHLY ONCE"`
	Members       int      `json:"members" validate:"gte=0"`
}

// ScheduleActivitiesRequest schedules activities into venues. Empty lists are loaded from
// the catalog.
type ScheduleActivitiesRequest struct {
	Venues       []VenuePayload    `json:"venues" validate:"dive"`
	Activities   []ActivityPayload `json:"activities" validate:"dive"`
	RequireSeats bool              `json:"requireSeats"`
}

// ScheduleResponse carries the placements and how they were obtained.
type ScheduleResponse struct {
	allocator.ScheduleResult
	// Strategy is "backtracking" when the exhaustive search ran and "greedy" when the
	// instance exceeded the exhaustive size limit.
	Strategy string `json:"strategy"`
}

// AvailabilityResponse lists the free windows of one venue on one day.
type AvailabilityResponse struct {
	Venue   string               `json:"venue"`
	Day     int                  `json:"day"`
	DayName string               `json:"dayName"`
	Windows []allocator.HourSlot `json:"windows"`
}
