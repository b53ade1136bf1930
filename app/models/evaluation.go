package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EvaluationType is the catalog of evaluation kinds (prueba, control, etc.).
type EvaluationType struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// Evaluation is a graded activity a teacher schedules for a subject.
type Evaluation struct {
	ID          string          `json:"id"`
	ClassID     string          `json:"class_id" validate:"required,uuid"`
	SubjectID   string          `json:"subject_id" validate:"required,uuid"`
	TeacherID   string          `json:"teacher_id" validate:"required,uuid"`
	TypeID      string          `json:"evaluation_type_id" validate:"required,uuid"`
	Date        time.Time       `json:"date" validate:"required"`
	Description string          `json:"description"`
	Weight      decimal.Decimal `json:"weight"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Subject *Subject        `json:"subject,omitempty"`
	Type    *EvaluationType `json:"evaluation_type,omitempty"`
}

// GradeResult is one student's score on one evaluation. Unique per
// evaluation+student. Scores use the Chilean 1.0-7.0 scale.
type GradeResult struct {
	ID           string          `json:"id"`
	EvaluationID string          `json:"evaluation_id" validate:"required,uuid"`
	StudentID    string          `json:"student_id" validate:"required,uuid"`
	Score        decimal.Decimal `json:"score" validate:"required"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Evaluation *Evaluation `json:"evaluation,omitempty"`
	Student    *User       `json:"student,omitempty"`
}

// Attendance records presence of a student in a class on a date. Unique per
// student+class+date.
type Attendance struct {
	ID               string    `json:"id"`
	StudentID        string    `json:"student_id" validate:"required,uuid"`
	ClassID          string    `json:"class_id" validate:"required,uuid"`
	Date             time.Time `json:"date" validate:"required"`
	Present          bool      `json:"present"`
	JustifiedAbsence bool      `json:"justified_absence"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
