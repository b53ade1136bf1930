package database

import (
	"database/sql"

	"github.com/FelipeHuencho/intranet-csah/app/models"
)

// ListGrades returns the grade catalog.
func ListGrades(db *sql.DB) ([]*models.Grade, error) {
	rows, err := db.Query(`SELECT curso_id, curso_nombre FROM grades ORDER BY curso_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		g := &models.Grade{}
		if err := rows.Scan(&g.CursoID, &g.CursoNombre); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// CreateGrade inserts a grade into the catalog.
func CreateGrade(db *sql.DB, grade *models.Grade) error {
	_, err := db.Exec(
		`INSERT INTO grades (curso_id, curso_nombre) VALUES ($1, $2)`,
		grade.CursoID, grade.CursoNombre)
	return err
}

// ListClasses returns classes for a year (0 for all), with grade and head
// teacher joined in.
func ListClasses(db *sql.DB, year int) ([]*models.Class, error) {
	query := `SELECT c.id, c.grade_id, c.year, c.teacher_id, g.curso_nombre,
			  t.first_name, t.last_name
			  FROM classes c
			  JOIN grades g ON g.curso_id = c.grade_id
			  LEFT JOIN users t ON t.id = c.teacher_id
			  WHERE ($1 = 0 OR c.year = $1)
			  ORDER BY c.year DESC, c.grade_id`

	rows, err := db.Query(query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c := &models.Class{Grade: &models.Grade{}}
		var teacherFirst, teacherLast *string
		if err := rows.Scan(
			&c.ID, &c.GradeID, &c.Year, &c.TeacherID, &c.Grade.CursoNombre,
			&teacherFirst, &teacherLast,
		); err != nil {
			return nil, err
		}
		c.Grade.CursoID = c.GradeID
		if teacherFirst != nil && teacherLast != nil {
			c.Teacher = &models.User{FirstName: *teacherFirst, LastName: *teacherLast}
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// CreateClass inserts a class. Unique per grade+year.
func CreateClass(db *sql.DB, class *models.Class) error {
	return db.QueryRow(
		`INSERT INTO classes (grade_id, year, teacher_id) VALUES ($1, $2, $3) RETURNING id`,
		class.GradeID, class.Year, class.TeacherID,
	).Scan(&class.ID)
}

// ListSubjectsForClass returns the subjects taught in a class.
func ListSubjectsForClass(db *sql.DB, classID string) ([]*models.Subject, error) {
	query := `SELECT s.id, s.name, s.class_id, s.teacher_id, t.first_name, t.last_name
			  FROM subjects s
			  LEFT JOIN users t ON t.id = s.teacher_id
			  WHERE s.class_id = $1
			  ORDER BY s.name`

	rows, err := db.Query(query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s := &models.Subject{}
		var teacherFirst, teacherLast *string
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassID, &s.TeacherID, &teacherFirst, &teacherLast); err != nil {
			return nil, err
		}
		if teacherFirst != nil && teacherLast != nil {
			s.Teacher = &models.User{FirstName: *teacherFirst, LastName: *teacherLast}
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// ListSubjectsForTeacher returns the subjects a teacher is assigned to.
func ListSubjectsForTeacher(db *sql.DB, teacherID string) ([]*models.Subject, error) {
	query := `SELECT s.id, s.name, s.class_id, s.teacher_id, g.curso_nombre, c.year
			  FROM subjects s
			  JOIN classes c ON c.id = s.class_id
			  JOIN grades g ON g.curso_id = c.grade_id
			  WHERE s.teacher_id = $1
			  ORDER BY c.year DESC, s.name`

	rows, err := db.Query(query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s := &models.Subject{Class: &models.Class{Grade: &models.Grade{}}}
		if err := rows.Scan(
			&s.ID, &s.Name, &s.ClassID, &s.TeacherID,
			&s.Class.Grade.CursoNombre, &s.Class.Year,
		); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// CreateSubject inserts a subject. Unique per name+class.
func CreateSubject(db *sql.DB, subject *models.Subject) error {
	return db.QueryRow(
		`INSERT INTO subjects (name, class_id, teacher_id) VALUES ($1, $2, $3) RETURNING id`,
		subject.Name, subject.ClassID, subject.TeacherID,
	).Scan(&subject.ID)
}

// CreateSubjectSchedule inserts a weekly time slot for a subject.
func CreateSubjectSchedule(db *sql.DB, sched *models.SubjectSchedule) error {
	return db.QueryRow(
		`INSERT INTO subject_schedules (subject_id, day_of_week, start_time, end_time)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		sched.SubjectID, sched.DayOfWeek, sched.StartTime, sched.EndTime,
	).Scan(&sched.ID)
}

// GetWeeklyScheduleForStudent returns the student's schedule slots across
// all subjects of their active enrollments, ordered by day and start time.
func GetWeeklyScheduleForStudent(db *sql.DB, studentID string) ([]*models.SubjectSchedule, error) {
	query := `SELECT ss.id, ss.subject_id, ss.day_of_week, ss.start_time, ss.end_time, s.name
			  FROM subject_schedules ss
			  JOIN subjects s ON s.id = ss.subject_id
			  JOIN enrollments e ON e.class_id = s.class_id
			  WHERE e.student_id = $1 AND e.active_status = 'active'
			  ORDER BY ss.day_of_week, ss.start_time`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.SubjectSchedule
	for rows.Next() {
		slot := &models.SubjectSchedule{Subject: &models.Subject{}}
		if err := rows.Scan(
			&slot.ID, &slot.SubjectID, &slot.DayOfWeek,
			&slot.StartTime, &slot.EndTime, &slot.Subject.Name,
		); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// CreateEnrollment registers a student into a class.
func CreateEnrollment(db *sql.DB, enr *models.Enrollment) error {
	return db.QueryRow(
		`INSERT INTO enrollments (student_id, class_id, date, active_status)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		enr.StudentID, enr.ClassID, enr.Date, enr.ActiveStatus,
	).Scan(&enr.ID, &enr.CreatedAt, &enr.UpdatedAt)
}

// ListEnrollmentsForClass returns the active roster of a class.
func ListEnrollmentsForClass(db *sql.DB, classID string) ([]*models.Enrollment, error) {
	query := `SELECT e.id, e.student_id, e.class_id, e.date, e.active_status,
			  u.rut, u.first_name, u.last_name
			  FROM enrollments e
			  JOIN users u ON u.id = e.student_id
			  WHERE e.class_id = $1 AND e.active_status = 'active'
			  ORDER BY u.last_name, u.first_name`

	rows, err := db.Query(query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		e := &models.Enrollment{Student: &models.User{}}
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.ClassID, &e.Date, &e.ActiveStatus,
			&e.Student.RUT, &e.Student.FirstName, &e.Student.LastName,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
