package teachers

import (
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// GetMySubjectsAPI lists the subjects assigned to the authenticated teacher.
func GetMySubjectsAPI(c *fiber.Ctx) error {
	teacherID := c.Locals("user_id").(string)

	subjects, err := database.ListSubjectsForTeacher(config.GetDB(), teacherID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch subjects"})
	}

	return c.JSON(fiber.Map{"success": true, "data": subjects})
}

// GetEvaluationTypesAPI returns the evaluation kinds available when
// scheduling a graded activity.
func GetEvaluationTypesAPI(c *fiber.Ctx) error {
	types, err := database.ListEvaluationTypes(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch evaluation types"})
	}

	return c.JSON(fiber.Map{"success": true, "data": types})
}

// GetEvaluationsAPI lists the evaluations of one subject.
func GetEvaluationsAPI(c *fiber.Ctx) error {
	subjectID := c.Params("subjectId")

	evals, err := database.ListEvaluationsForSubject(config.GetDB(), subjectID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch evaluations"})
	}

	return c.JSON(fiber.Map{"success": true, "data": evals})
}

// CreateEvaluationAPI schedules a graded activity on a subject the teacher
// owns.
func CreateEvaluationAPI(c *fiber.Ctx) error {
	type CreateEvaluationRequest struct {
		ClassID     string  `json:"class_id" validate:"required,uuid"`
		SubjectID   string  `json:"subject_id" validate:"required,uuid"`
		TypeID      string  `json:"evaluation_type_id" validate:"required,uuid"`
		Date        string  `json:"date" validate:"required"`
		Description string  `json:"description"`
		Weight      float64 `json:"weight" validate:"gt=0"`
	}

	var req CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	ev := &models.Evaluation{
		ClassID:     req.ClassID,
		SubjectID:   req.SubjectID,
		TeacherID:   c.Locals("user_id").(string),
		TypeID:      req.TypeID,
		Date:        date,
		Description: req.Description,
		Weight:      decimal.NewFromFloat(req.Weight),
	}

	if err := database.CreateEvaluation(config.GetDB(), ev); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create evaluation"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": ev})
}

// RecordGradeAPI records or corrects a student's score on an evaluation.
// Scores use the Chilean 1.0-7.0 scale.
func RecordGradeAPI(c *fiber.Ctx) error {
	type RecordGradeRequest struct {
		EvaluationID string  `json:"evaluation_id" validate:"required,uuid"`
		StudentID    string  `json:"student_id" validate:"required,uuid"`
		Score        float64 `json:"score" validate:"gte=1,lte=7"`
	}

	var req RecordGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	result := &models.GradeResult{
		EvaluationID: req.EvaluationID,
		StudentID:    req.StudentID,
		Score:        decimal.NewFromFloat(req.Score),
	}

	if err := database.UpsertGradeResult(config.GetDB(), result); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record grade"})
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

// RecordAttendanceAPI records presence for a list of students of a class on
// one date.
func RecordAttendanceAPI(c *fiber.Ctx) error {
	type attendanceEntry struct {
		StudentID        string `json:"student_id" validate:"required,uuid"`
		Present          bool   `json:"present"`
		JustifiedAbsence bool   `json:"justified_absence"`
	}
	type RecordAttendanceRequest struct {
		ClassID string            `json:"class_id" validate:"required,uuid"`
		Date    string            `json:"date" validate:"required"`
		Entries []attendanceEntry `json:"entries" validate:"required,min=1,dive"`
	}

	var req RecordAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	db := config.GetDB()
	recorded := 0
	for _, entry := range req.Entries {
		att := &models.Attendance{
			StudentID:        entry.StudentID,
			ClassID:          req.ClassID,
			Date:             date,
			Present:          entry.Present,
			JustifiedAbsence: entry.JustifiedAbsence,
		}
		if err := database.UpsertAttendance(db, att); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to record attendance"})
		}
		recorded++
	}

	return c.JSON(fiber.Map{"success": true, "recorded": recorded})
}

// GetClassRosterAPI lists the active students of a class for attendance and
// grade entry.
func GetClassRosterAPI(c *fiber.Ctx) error {
	classID := c.Params("classId")

	roster, err := database.ListEnrollmentsForClass(config.GetDB(), classID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roster"})
	}

	return c.JSON(fiber.Map{"success": true, "data": roster})
}
