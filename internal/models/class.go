package models

import "time"

// Class represents a class with a section label, e.g. "Grade 10" / "A".
type Class struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Section   string    `db:"section" json:"section"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ClassStudents bundles a class with its enrolled students.
type ClassStudents struct {
	Class         Class     `json:"class"`
	Students      []Student `json:"students"`
	TotalStudents int       `json:"totalStudents"`
}
