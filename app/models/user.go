package models

import "time"

// User is any account in the intranet. The RUT is the login identifier.
type User struct {
	ID           string       `json:"id" validate:"required,uuid"`
	RUT          string       `json:"rut" validate:"required"`
	Role         Role         `json:"role" validate:"required"`
	FirstName    string       `json:"first_name" validate:"required"`
	LastName     string       `json:"last_name" validate:"required"`
	Email        *string      `json:"email,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	Address      *string      `json:"address,omitempty"`
	BirthDate    *time.Time   `json:"birth_date,omitempty"`
	ComunaID     *string      `json:"comuna_id,omitempty"`
	IngresoDate  *time.Time   `json:"ingreso_date,omitempty"`
	ActiveStatus ActiveStatus `json:"active_status"`
	Password     string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Comuna *Comuna `json:"comuna,omitempty"`
}

// FullName returns the display name used across the portals.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Comuna is the catalog of Chilean comunas for user addresses.
type Comuna struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre" validate:"required"`
}

// TeacherProfile extends a teacher account with staff details.
type TeacherProfile struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id" validate:"required,uuid"`
	Department *string `json:"department,omitempty"`
	Title      *string `json:"title,omitempty"`
	Position   *string `json:"position,omitempty"`
}

// GuardianProfile holds the guardian's payment authorization PIN. Any user
// may act as a guardian, so the profile is not restricted by role. Profiles
// are created through an explicit upsert, never as a side effect of a read.
type GuardianProfile struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id" validate:"required,uuid"`
	PaymentPIN *string `json:"-"`
}

// GuardianRelation links a guardian account to a student. A student may have
// several guardians and a guardian several students.
type GuardianRelation struct {
	ID         string `json:"id"`
	GuardianID string `json:"guardian_id" validate:"required,uuid"`
	StudentID  string `json:"student_id" validate:"required,uuid"`

	Guardian *User `json:"guardian,omitempty"`
	Student  *User `json:"student,omitempty"`
}
