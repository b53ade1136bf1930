package database

import (
	"database/sql"

	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/shopspring/decimal"
)

// ListEvaluationTypes returns the catalog of evaluation kinds.
func ListEvaluationTypes(db *sql.DB) ([]*models.EvaluationType, error) {
	rows, err := db.Query(`SELECT id, name, description FROM evaluation_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.EvaluationType
	for rows.Next() {
		t := &models.EvaluationType{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// CreateEvaluation schedules a graded activity.
func CreateEvaluation(db *sql.DB, ev *models.Evaluation) error {
	return db.QueryRow(
		`INSERT INTO evaluations (class_id, subject_id, teacher_id, evaluation_type_id,
		 date, description, weight)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		ev.ClassID, ev.SubjectID, ev.TeacherID, ev.TypeID,
		ev.Date, ev.Description, ev.Weight,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
}

// ListEvaluationsForSubject returns a subject's evaluations, newest first.
func ListEvaluationsForSubject(db *sql.DB, subjectID string) ([]*models.Evaluation, error) {
	query := `SELECT e.id, e.class_id, e.subject_id, e.teacher_id, e.evaluation_type_id,
			  e.date, e.description, e.weight, e.created_at, e.updated_at, t.name
			  FROM evaluations e
			  JOIN evaluation_types t ON t.id = e.evaluation_type_id
			  WHERE e.subject_id = $1
			  ORDER BY e.date DESC`

	rows, err := db.Query(query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []*models.Evaluation
	for rows.Next() {
		ev := &models.Evaluation{Type: &models.EvaluationType{}}
		if err := rows.Scan(
			&ev.ID, &ev.ClassID, &ev.SubjectID, &ev.TeacherID, &ev.TypeID,
			&ev.Date, &ev.Description, &ev.Weight, &ev.CreatedAt, &ev.UpdatedAt,
			&ev.Type.Name,
		); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	return evals, rows.Err()
}

// UpsertGradeResult records or corrects a student's score on an evaluation.
func UpsertGradeResult(db *sql.DB, result *models.GradeResult) error {
	query := `INSERT INTO grade_results (evaluation_id, student_id, score)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (evaluation_id, student_id) DO UPDATE SET
			      score = EXCLUDED.score, updated_at = now()
			  RETURNING id, created_at, updated_at`

	return db.QueryRow(query, result.EvaluationID, result.StudentID, result.Score).
		Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
}

// SubjectGrades is a student's scores in one subject with the weighted
// average, as shown in the student portal.
type SubjectGrades struct {
	SubjectID   string                `json:"subject_id"`
	SubjectName string                `json:"subject_name"`
	Results     []*models.GradeResult `json:"results"`
	Average     decimal.Decimal       `json:"average"`
}

// GetGradesForStudent returns the student's scores grouped by subject, with
// a weight-adjusted average per subject.
func GetGradesForStudent(db *sql.DB, studentID string) ([]*SubjectGrades, error) {
	query := `SELECT s.id, s.name, gr.id, gr.evaluation_id, gr.score, e.weight, e.date, e.description
			  FROM grade_results gr
			  JOIN evaluations e ON e.id = gr.evaluation_id
			  JOIN subjects s ON s.id = e.subject_id
			  WHERE gr.student_id = $1
			  ORDER BY s.name, e.date`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*SubjectGrades
	index := map[string]*SubjectGrades{}
	weightSums := map[string]decimal.Decimal{}
	weightedTotals := map[string]decimal.Decimal{}

	for rows.Next() {
		var subjectID, subjectName string
		result := &models.GradeResult{StudentID: studentID, Evaluation: &models.Evaluation{}}
		var weight decimal.Decimal
		if err := rows.Scan(
			&subjectID, &subjectName, &result.ID, &result.EvaluationID,
			&result.Score, &weight, &result.Evaluation.Date, &result.Evaluation.Description,
		); err != nil {
			return nil, err
		}
		result.Evaluation.Weight = weight

		sg, ok := index[subjectID]
		if !ok {
			sg = &SubjectGrades{SubjectID: subjectID, SubjectName: subjectName}
			index[subjectID] = sg
			subjects = append(subjects, sg)
		}
		sg.Results = append(sg.Results, result)
		weightSums[subjectID] = weightSums[subjectID].Add(weight)
		weightedTotals[subjectID] = weightedTotals[subjectID].Add(result.Score.Mul(weight))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sg := range subjects {
		if !weightSums[sg.SubjectID].IsZero() {
			sg.Average = weightedTotals[sg.SubjectID].
				Div(weightSums[sg.SubjectID]).Round(2)
		}
	}
	return subjects, nil
}

// UpsertAttendance records presence for a student on a date, correcting any
// previous entry for the same day.
func UpsertAttendance(db *sql.DB, att *models.Attendance) error {
	query := `INSERT INTO attendance (student_id, class_id, date, present, justified_absence)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (student_id, class_id, date) DO UPDATE SET
			      present = EXCLUDED.present,
			      justified_absence = EXCLUDED.justified_absence,
			      updated_at = now()
			  RETURNING id, created_at, updated_at`

	return db.QueryRow(query,
		att.StudentID, att.ClassID, att.Date, att.Present, att.JustifiedAbsence,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
}

// AttendanceSummary aggregates a student's attendance record.
type AttendanceSummary struct {
	TotalDays  int     `json:"total_days"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Justified  int     `json:"justified"`
	Percentage float64 `json:"percentage"`
}

// GetAttendanceSummary computes a student's attendance totals.
func GetAttendanceSummary(db *sql.DB, studentID string) (*AttendanceSummary, error) {
	query := `SELECT COUNT(*),
			  COUNT(*) FILTER (WHERE present),
			  COUNT(*) FILTER (WHERE NOT present),
			  COUNT(*) FILTER (WHERE NOT present AND justified_absence)
			  FROM attendance WHERE student_id = $1`

	summary := &AttendanceSummary{}
	err := db.QueryRow(query, studentID).Scan(
		&summary.TotalDays, &summary.Present, &summary.Absent, &summary.Justified)
	if err != nil {
		return nil, err
	}
	if summary.TotalDays > 0 {
		summary.Percentage = float64(summary.Present) / float64(summary.TotalDays) * 100
	}
	return summary, nil
}
