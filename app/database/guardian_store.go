package database

import (
	"database/sql"

	"github.com/FelipeHuencho/intranet-csah/app/models"
)

// GuardianStore answers the guardian-gate lookups the payment portal needs.
type GuardianStore struct {
	DB *sql.DB
}

func NewGuardianStore(db *sql.DB) *GuardianStore {
	return &GuardianStore{DB: db}
}

// Guardians returns the guardian accounts linked to a student.
func (s *GuardianStore) Guardians(studentID string) ([]*models.User, error) {
	return GetGuardiansForStudent(s.DB, studentID)
}

// PINs returns the payment PINs of the student's guardians.
func (s *GuardianStore) PINs(studentID string) ([]string, error) {
	return GetGuardianPINs(s.DB, studentID)
}

// UserEmail returns a user's contact email, empty when none is set.
func (s *GuardianStore) UserEmail(userID string) (string, error) {
	var email *string
	err := s.DB.QueryRow(`SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		return "", err
	}
	if email == nil {
		return "", nil
	}
	return *email, nil
}
