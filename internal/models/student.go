package models

import "time"

// Student represents a learner. ClassID is nullable: an unenrolled student
// is a valid state.
type Student struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Age       int       `db:"age" json:"age"`
	ClassID   *int64    `db:"class_id" json:"classId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentDetail joins a student with its class name and section for
// display.
type StudentDetail struct {
	Student
	ClassName    *string `db:"class_name" json:"className,omitempty"`
	ClassSection *string `db:"class_section" json:"classSection,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
// TotalPages is ceil(Total / Limit).
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// StudentPage is the payload for the paginated student listing.
type StudentPage struct {
	Students   []StudentDetail `json:"students"`
	Pagination Pagination      `json:"pagination"`
}
