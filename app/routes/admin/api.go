package admin

import (
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetUsersAPI lists users, optionally filtered by role.
func GetUsersAPI(c *fiber.Ctx) error {
	role := c.Query("role")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	users, err := database.ListUsers(config.GetDB(), role, limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// CreateUserAPI creates an account with an initial password.
func CreateUserAPI(c *fiber.Ctx) error {
	type CreateUserRequest struct {
		RUT       string `json:"rut" validate:"required"`
		Role      string `json:"role" validate:"required,oneof=student guardian teacher admin finance_admin"`
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"required"`
		Email     string `json:"email" validate:"omitempty,email"`
		Phone     string `json:"phone"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	now := time.Now()
	user := &models.User{
		RUT:          req.RUT,
		Role:         models.Role(req.Role),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ActiveStatus: models.Active,
		IngresoDate:  &now,
		Password:     hashed,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := database.CreateUser(config.GetDB(), user); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create user"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// DeactivateUserAPI marks an account inactive without deleting it.
func DeactivateUserAPI(c *fiber.Ctx) error {
	userID := c.Params("id")

	if err := database.SetUserActiveStatus(config.GetDB(), userID, models.Inactive); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "User deactivated"})
}

// GetComunasAPI returns the comuna catalog.
func GetComunasAPI(c *fiber.Ctx) error {
	comunas, err := database.ListComunas(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch comunas"})
	}
	return c.JSON(fiber.Map{"comunas": comunas})
}

// GetGradesAPI returns the grade catalog classes are opened against.
func GetGradesAPI(c *fiber.Ctx) error {
	grades, err := database.ListGrades(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch grades"})
	}
	return c.JSON(fiber.Map{"grades": grades})
}

// CreateGradeAPI adds a grade to the catalog. The standard Chilean levels
// are seeded by the migrations; this covers additional ones.
func CreateGradeAPI(c *fiber.Ctx) error {
	type CreateGradeRequest struct {
		CursoID     string `json:"curso_id" validate:"required,max=5"`
		CursoNombre string `json:"curso_nombre" validate:"required,max=30"`
	}

	var req CreateGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	grade := &models.Grade{CursoID: req.CursoID, CursoNombre: req.CursoNombre}
	if err := database.CreateGrade(config.GetDB(), grade); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to create grade"})
	}
	return c.Status(201).JSON(fiber.Map{"grade": grade})
}

// GetClassesAPI lists classes for a year (current by default).
func GetClassesAPI(c *fiber.Ctx) error {
	year := c.QueryInt("year", 0)

	classes, err := database.ListClasses(config.GetDB(), year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch classes"})
	}
	return c.JSON(fiber.Map{"classes": classes})
}

// CreateClassAPI opens a class for a grade and year.
func CreateClassAPI(c *fiber.Ctx) error {
	type CreateClassRequest struct {
		GradeID   string `json:"grade_id" validate:"required"`
		Year      int    `json:"year" validate:"required,gte=2000"`
		TeacherID string `json:"teacher_id" validate:"omitempty,uuid"`
	}

	var req CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	class := &models.Class{GradeID: req.GradeID, Year: req.Year}
	if req.TeacherID != "" {
		class.TeacherID = &req.TeacherID
	}

	if err := database.CreateClass(config.GetDB(), class); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create class"})
	}
	return c.Status(201).JSON(fiber.Map{"class": class})
}

// GetSubjectsAPI lists the subjects of a class.
func GetSubjectsAPI(c *fiber.Ctx) error {
	classID := c.Params("classId")

	subjects, err := database.ListSubjectsForClass(config.GetDB(), classID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch subjects"})
	}
	return c.JSON(fiber.Map{"subjects": subjects})
}

// CreateSubjectAPI adds a subject to a class.
func CreateSubjectAPI(c *fiber.Ctx) error {
	type CreateSubjectRequest struct {
		Name      string `json:"name" validate:"required"`
		ClassID   string `json:"class_id" validate:"required,uuid"`
		TeacherID string `json:"teacher_id" validate:"omitempty,uuid"`
	}

	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	subject := &models.Subject{Name: req.Name, ClassID: req.ClassID}
	if req.TeacherID != "" {
		subject.TeacherID = &req.TeacherID
	}

	if err := database.CreateSubject(config.GetDB(), subject); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create subject"})
	}
	return c.Status(201).JSON(fiber.Map{"subject": subject})
}

// CreateScheduleAPI adds a weekly slot to a subject.
func CreateScheduleAPI(c *fiber.Ctx) error {
	type CreateScheduleRequest struct {
		SubjectID string `json:"subject_id" validate:"required,uuid"`
		DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=4"`
		StartTime string `json:"start_time" validate:"required"`
		EndTime   string `json:"end_time" validate:"required"`
	}

	var req CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if req.EndTime <= req.StartTime {
		return c.Status(400).JSON(fiber.Map{"error": "end_time must be after start_time"})
	}

	sched := &models.SubjectSchedule{
		SubjectID: req.SubjectID,
		DayOfWeek: models.DayOfWeek(req.DayOfWeek),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	if err := database.CreateSubjectSchedule(config.GetDB(), sched); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create schedule"})
	}
	return c.Status(201).JSON(fiber.Map{"schedule": sched})
}

// CreateEnrollmentAPI registers a student into a class.
func CreateEnrollmentAPI(c *fiber.Ctx) error {
	type CreateEnrollmentRequest struct {
		StudentID string `json:"student_id" validate:"required,uuid"`
		ClassID   string `json:"class_id" validate:"required,uuid"`
	}

	var req CreateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	enr := &models.Enrollment{
		StudentID:    req.StudentID,
		ClassID:      req.ClassID,
		Date:         &now,
		ActiveStatus: models.Active,
	}

	if err := database.CreateEnrollment(config.GetDB(), enr); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create enrollment"})
	}
	return c.Status(201).JSON(fiber.Map{"enrollment": enr})
}

// CreateGuardianRelationAPI links a guardian account to a student.
func CreateGuardianRelationAPI(c *fiber.Ctx) error {
	type CreateRelationRequest struct {
		GuardianID string `json:"guardian_id" validate:"required,uuid"`
		StudentID  string `json:"student_id" validate:"required,uuid"`
	}

	var req CreateRelationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	rel := &models.GuardianRelation{GuardianID: req.GuardianID, StudentID: req.StudentID}
	if err := database.CreateGuardianRelation(config.GetDB(), rel); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"relation": rel})
}

// UpsertTeacherProfileAPI sets or replaces a teacher's staff details.
func UpsertTeacherProfileAPI(c *fiber.Ctx) error {
	type TeacherProfileRequest struct {
		TeacherID  string `json:"teacher_id" validate:"required,uuid"`
		Department string `json:"department"`
		Title      string `json:"title"`
		Position   string `json:"position"`
	}

	var req TeacherProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	profile := &models.TeacherProfile{UserID: req.TeacherID}
	if req.Department != "" {
		profile.Department = &req.Department
	}
	if req.Title != "" {
		profile.Title = &req.Title
	}
	if req.Position != "" {
		profile.Position = &req.Position
	}

	if err := database.UpsertTeacherProfile(config.GetDB(), profile); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save teacher profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// SetGuardianPINAPI sets or replaces a guardian's payment PIN. Profile
// creation is this explicit upsert, never a read side effect.
func SetGuardianPINAPI(c *fiber.Ctx) error {
	type SetPINRequest struct {
		GuardianID string `json:"guardian_id" validate:"required,uuid"`
		PIN        string `json:"pin" validate:"required,min=4,max=12"`
	}

	var req SetPINRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	profile := &models.GuardianProfile{UserID: req.GuardianID, PaymentPIN: &req.PIN}
	if err := database.UpsertGuardianProfile(config.GetDB(), profile); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to set PIN"})
	}
	return c.JSON(fiber.Map{"message": "PIN updated"})
}
