package database

import "database/sql"

// DashboardStats are the counts shown on the admin dashboard.
type DashboardStats struct {
	Students        int `json:"students"`
	Teachers        int `json:"teachers"`
	Guardians       int `json:"guardians"`
	Classes         int `json:"classes"`
	PendingPayments int `json:"pending_payments"`
	OverduePayments int `json:"overdue_payments"`
}

// GetDashboardStats collects the portal counts in one round trip.
func GetDashboardStats(db *sql.DB) (*DashboardStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM users WHERE role = 'student' AND active_status = 'active'),
		(SELECT COUNT(*) FROM users WHERE role = 'teacher' AND active_status = 'active'),
		(SELECT COUNT(*) FROM users WHERE role = 'guardian' AND active_status = 'active'),
		(SELECT COUNT(*) FROM classes),
		(SELECT COUNT(*) FROM payments WHERE status IN ('pending', 'pending_review')),
		(SELECT COUNT(*) FROM payments WHERE status = 'overdue')`

	stats := &DashboardStats{}
	err := db.QueryRow(query).Scan(
		&stats.Students, &stats.Teachers, &stats.Guardians,
		&stats.Classes, &stats.PendingPayments, &stats.OverduePayments,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
