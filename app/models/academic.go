package models

import "time"

// Grade is a course level in the school (e.g. "1A" - "Primero Básico A").
type Grade struct {
	CursoID     string `json:"curso_id"`
	CursoNombre string `json:"curso_nombre" validate:"required"`
}

// Class is a grade taught during a specific year, with a head teacher.
// Unique per grade+year.
type Class struct {
	ID        string  `json:"id"`
	GradeID   string  `json:"grade_id" validate:"required"`
	Year      int     `json:"year" validate:"required,gte=2000"`
	TeacherID *string `json:"teacher_id,omitempty"`

	Grade   *Grade `json:"grade,omitempty"`
	Teacher *User  `json:"teacher,omitempty"`
}

// Subject is a course taught to one class by one teacher. Unique per
// name+class.
type Subject struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" validate:"required"`
	ClassID   string  `json:"class_id" validate:"required,uuid"`
	TeacherID *string `json:"teacher_id,omitempty"`

	Class   *Class `json:"class,omitempty"`
	Teacher *User  `json:"teacher,omitempty"`
}

// SubjectSchedule is a weekly time slot for a subject.
type SubjectSchedule struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id" validate:"required,uuid"`
	DayOfWeek DayOfWeek `json:"day_of_week" validate:"gte=0,lte=4"`
	StartTime string    `json:"start_time" validate:"required"`
	EndTime   string    `json:"end_time" validate:"required"`

	Subject *Subject `json:"subject,omitempty"`
}

// Enrollment registers a student into a class. Unique per student+class.
type Enrollment struct {
	ID           string       `json:"id"`
	StudentID    string       `json:"student_id" validate:"required,uuid"`
	ClassID      string       `json:"class_id" validate:"required,uuid"`
	Date         *time.Time   `json:"date,omitempty"`
	ActiveStatus ActiveStatus `json:"active_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Student *User  `json:"student,omitempty"`
	Class   *Class `json:"class,omitempty"`
}
