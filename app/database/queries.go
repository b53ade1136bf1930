package database

import (
	"database/sql"
	"fmt"

	"github.com/FelipeHuencho/intranet-csah/app/models"
)

// GetUserByRUT looks up a user by the login identifier.
func GetUserByRUT(db *sql.DB, rut string) (*models.User, error) {
	query := `SELECT id, rut, role, first_name, last_name, email, phone, address,
			  birth_date, comuna_id, ingreso_date, active_status, password,
			  created_at, updated_at
			  FROM users WHERE rut = $1`

	user := &models.User{}
	err := db.QueryRow(query, rut).Scan(
		&user.ID, &user.RUT, &user.Role, &user.FirstName, &user.LastName,
		&user.Email, &user.Phone, &user.Address, &user.BirthDate,
		&user.ComunaID, &user.IngresoDate, &user.ActiveStatus, &user.Password,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID looks up a user by primary key.
func GetUserByID(db *sql.DB, id string) (*models.User, error) {
	query := `SELECT id, rut, role, first_name, last_name, email, phone, address,
			  birth_date, comuna_id, ingreso_date, active_status, password,
			  created_at, updated_at
			  FROM users WHERE id = $1`

	user := &models.User{}
	err := db.QueryRow(query, id).Scan(
		&user.ID, &user.RUT, &user.Role, &user.FirstName, &user.LastName,
		&user.Email, &user.Phone, &user.Address, &user.BirthDate,
		&user.ComunaID, &user.IngresoDate, &user.ActiveStatus, &user.Password,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user with an already-hashed password.
func CreateUser(db *sql.DB, user *models.User) error {
	user.ID = NewID()
	query := `INSERT INTO users (id, rut, role, first_name, last_name, email, phone,
			  address, birth_date, comuna_id, ingreso_date, active_status, password)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING created_at, updated_at`

	return db.QueryRow(query,
		user.ID, user.RUT, user.Role, user.FirstName, user.LastName, user.Email,
		user.Phone, user.Address, user.BirthDate, user.ComunaID,
		user.IngresoDate, user.ActiveStatus, user.Password,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// ListUsers returns users filtered by role ("" for all), most recent first.
func ListUsers(db *sql.DB, role string, limit, offset int) ([]*models.User, error) {
	query := `SELECT id, rut, role, first_name, last_name, email, phone,
			  active_status, created_at, updated_at
			  FROM users
			  WHERE ($1 = '' OR role = $1)
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := db.Query(query, role, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(
			&u.ID, &u.RUT, &u.Role, &u.FirstName, &u.LastName, &u.Email,
			&u.Phone, &u.ActiveStatus, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserPassword replaces the stored password hash.
func UpdateUserPassword(db *sql.DB, userID, hashedPassword string) error {
	_, err := db.Exec(
		`UPDATE users SET password = $1, updated_at = now() WHERE id = $2`,
		hashedPassword, userID,
	)
	return err
}

// SetUserActiveStatus activates or deactivates an account.
func SetUserActiveStatus(db *sql.DB, userID string, status models.ActiveStatus) error {
	res, err := db.Exec(
		`UPDATE users SET active_status = $1, updated_at = now() WHERE id = $2`,
		status, userID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListComunas returns the comuna catalog ordered by name.
func ListComunas(db *sql.DB) ([]*models.Comuna, error) {
	rows, err := db.Query(`SELECT id, nombre FROM comunas ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comunas []*models.Comuna
	for rows.Next() {
		c := &models.Comuna{}
		if err := rows.Scan(&c.ID, &c.Nombre); err != nil {
			return nil, err
		}
		comunas = append(comunas, c)
	}
	return comunas, rows.Err()
}

// CreateGuardianRelation links a guardian to a student.
func CreateGuardianRelation(db *sql.DB, rel *models.GuardianRelation) error {
	query := `INSERT INTO guardian_relations (guardian_id, student_id)
			  VALUES ($1, $2)
			  ON CONFLICT (guardian_id, student_id) DO NOTHING
			  RETURNING id`

	err := db.QueryRow(query, rel.GuardianID, rel.StudentID).Scan(&rel.ID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("guardian relation already exists")
	}
	return err
}

// GetGuardiansForStudent returns all guardian accounts linked to a student,
// with their payment profile joined in when one exists.
func GetGuardiansForStudent(db *sql.DB, studentID string) ([]*models.User, error) {
	query := `SELECT u.id, u.rut, u.role, u.first_name, u.last_name, u.email
			  FROM guardian_relations gr
			  JOIN users u ON u.id = gr.guardian_id
			  WHERE gr.student_id = $1
			  ORDER BY u.last_name, u.first_name`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guardians []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.RUT, &u.Role, &u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, err
		}
		guardians = append(guardians, u)
	}
	return guardians, rows.Err()
}

// GetGuardianPINs returns the stored payment PINs of every guardian linked
// to the student. Guardians without a profile or without a PIN set are
// skipped; profile creation is an explicit upsert, never a read side effect.
func GetGuardianPINs(db *sql.DB, studentID string) ([]string, error) {
	query := `SELECT gp.payment_pin
			  FROM guardian_relations gr
			  JOIN guardian_profiles gp ON gp.user_id = gr.guardian_id
			  WHERE gr.student_id = $1 AND gp.payment_pin IS NOT NULL`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pins []string
	for rows.Next() {
		var pin string
		if err := rows.Scan(&pin); err != nil {
			return nil, err
		}
		pins = append(pins, pin)
	}
	return pins, rows.Err()
}

// UpsertGuardianProfile creates or updates the guardian's payment profile.
func UpsertGuardianProfile(db *sql.DB, profile *models.GuardianProfile) error {
	query := `INSERT INTO guardian_profiles (user_id, payment_pin)
			  VALUES ($1, $2)
			  ON CONFLICT (user_id) DO UPDATE SET payment_pin = EXCLUDED.payment_pin
			  RETURNING id`

	return db.QueryRow(query, profile.UserID, profile.PaymentPIN).Scan(&profile.ID)
}

// UpsertTeacherProfile creates or updates a teacher's staff profile.
func UpsertTeacherProfile(db *sql.DB, profile *models.TeacherProfile) error {
	query := `INSERT INTO teacher_profiles (user_id, department, title, position)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id) DO UPDATE SET
			      department = EXCLUDED.department,
			      title = EXCLUDED.title,
			      position = EXCLUDED.position
			  RETURNING id`

	return db.QueryRow(query,
		profile.UserID, profile.Department, profile.Title, profile.Position,
	).Scan(&profile.ID)
}
