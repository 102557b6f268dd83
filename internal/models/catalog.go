package models

import "time"

// Course is a row of the courses table. Schedule holds weekly slots such as "Mon 1-2; Wed 3".
type Course struct {
	ID             string  `db:"id" json:"id" csv:"id" yaml:"id"`
	Code           string  `db:"code" json:"code" csv:"code" yaml:"code"`
	Name           string  `db:"name" json:"name" csv:"name" yaml:"name"`
	Teacher        string  `db:"teacher" json:"teacher" csv:"teacher" yaml:"teacher"`
	Capacity       int     `db:"capacity" json:"capacity" csv:"capacity" yaml:"capacity"`
	Credits        int     `db:"credits" json:"credits" csv:"credits" yaml:"credits"`
	Schedule       string  `db:"schedule" json:"schedule" csv:"schedule" yaml:"schedule"`
	InterestIndex  float64 `db:"interest_index" json:"interest_index" csv:"interest_index" yaml:"interestIndex"`
	Workload       float64 `db:"workload" json:"workload" csv:"workload" yaml:"workload"`
	RecommendIndex float64 `db:"recommend_index" json:"recommend_index" csv:"recommend_index" yaml:"recommendIndex"`
}

// CourseApplication is a stored request for a seat in a course.
type CourseApplication struct {
	ID          string    `db:"id" json:"id" csv:"id" yaml:"id"`
	RequesterID string    `db:"requester_id" json:"requester_id" csv:"requester_id" yaml:"requesterId"`
	CourseID    string    `db:"course_id" json:"course_id" csv:"course_id" yaml:"courseId"`
	Priority    int       `db:"priority" json:"priority" csv:"priority" yaml:"priority"`
	SubmittedAt int64     `db:"submitted_at" json:"submitted_at" csv:"submitted_at" yaml:"submittedAt"`
	CreatedAt   time.Time `db:"created_at" json:"created_at" csv:"-" yaml:"-"`
}

// Venue is a row of the venues table.
type Venue struct {
	Name     string `db:"name" json:"name" csv:"name" yaml:"name"`
	Type     string `db:"venue_type" json:"venue_type" csv:"venue_type" yaml:"type"`
	Capacity int    `db:"capacity" json:"capacity" csv:"capacity" yaml:"capacity"`
}

// ClubActivity is a row of the club_activities table. RequiredVenues lists compatible venue
// types separated by '|' or ','.
type ClubActivity struct {
	ID             string `db:"id" json:"id" csv:"id" yaml:"id"`
	Name           string `db:"name" json:"name" csv:"name" yaml:"name"`
	DurationHours  int    `db:"duration_hours" json:"duration_hours" csv:"duration_hours" yaml:"duration"`
	RequiredVenues string `db:"required_venues" json:"required_venues" csv:"required_venues" yaml:"requiredVenues"`
	Frequency      string `db:"frequency" json:"frequency" csv:"frequency" yaml:"frequency"`
	MaxMembers     int    `db:"max_members" json:"max_members" csv:"max_members" yaml:"maxMembers"`
}

// Book is a row of the books table. AvailableIn is the day offset from which the book can
// be read; ReadDays is the reading duration in days.
type Book struct {
	ID          string `db:"id" json:"id" csv:"id" yaml:"id"`
	Title       string `db:"title" json:"title" csv:"title" yaml:"title"`
	Author      string `db:"author" json:"author" csv:"author" yaml:"author"`
	AvailableIn int    `db:"available_in" json:"available_in" csv:"available_in" yaml:"availableIn"`
	ReadDays    int    `db:"read_days" json:"read_days" csv:"read_days" yaml:"readDays"`
}
