package database

import (
	"database/sql"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/models"
)

// PaymentStore is the ledger access layer. Status transitions are guarded
// single-statement updates: the WHERE clause re-checks the current status so
// two near-simultaneous webhook deliveries cannot both apply a terminal
// transition. Methods report whether a row actually transitioned.
type PaymentStore struct {
	DB *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{DB: db}
}

const paymentColumns = `id, student_id, amount, concept, issue_date, due_date,
	paid_at, status, request_id, token, transaction_id, auth_code,
	created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(
		&p.ID, &p.StudentID, &p.Amount, &p.Concept, &p.IssueDate, &p.DueDate,
		&p.PaidAt, &p.Status, &p.RequestID, &p.Token, &p.TransactionID,
		&p.AuthCode, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new pending payment with no provider identifiers.
func (s *PaymentStore) Create(p *models.Payment) error {
	p.ID = NewID()
	query := `INSERT INTO payments (id, student_id, amount, concept, due_date, status)
			  VALUES ($1, $2, $3, $4, $5, 'pending')
			  RETURNING issue_date, status, created_at, updated_at`

	return s.DB.QueryRow(query, p.ID, p.StudentID, p.Amount, p.Concept, p.DueDate).
		Scan(&p.IssueDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a payment by primary key.
func (s *PaymentStore) GetByID(id string) (*models.Payment, error) {
	return scanPayment(s.DB.QueryRow(
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// GetByIDForStudent returns a payment only if it belongs to the student.
func (s *PaymentStore) GetByIDForStudent(id, studentID string) (*models.Payment, error) {
	return scanPayment(s.DB.QueryRow(
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 AND student_id = $2`,
		id, studentID))
}

// GetByToken finds the payment holding a checkout session token.
func (s *PaymentStore) GetByToken(token string) (*models.Payment, error) {
	return scanPayment(s.DB.QueryRow(
		`SELECT `+paymentColumns+` FROM payments WHERE token = $1`, token))
}

// GetByRequestID finds the payment by the buy-order sent at session creation.
func (s *PaymentStore) GetByRequestID(requestID string) (*models.Payment, error) {
	return scanPayment(s.DB.QueryRow(
		`SELECT `+paymentColumns+` FROM payments WHERE request_id = $1`, requestID))
}

// ListByStudent returns the student's payments ordered by due date.
func (s *PaymentStore) ListByStudent(studentID string) ([]*models.Payment, error) {
	rows, err := s.DB.Query(
		`SELECT `+paymentColumns+` FROM payments
		 WHERE student_id = $1 ORDER BY due_date NULLS LAST, created_at`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListByStatus returns payments in a given status ("" for all),
// most recent first. Used by the finance portal.
func (s *PaymentStore) ListByStatus(status models.PaymentStatus, limit, offset int) ([]*models.Payment, error) {
	rows, err := s.DB.Query(
		`SELECT `+paymentColumns+` FROM payments
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// StartCheckout stores the provider identifiers and moves the payment to
// pending_review. The guard keeps paid and in-flight payments untouched, so
// a duplicate initiation reports no transition instead of clobbering an
// active session.
func (s *PaymentStore) StartCheckout(id, requestID, token string) (bool, error) {
	res, err := s.DB.Exec(
		`UPDATE payments
		 SET request_id = $2, token = $3, status = 'pending_review', updated_at = now()
		 WHERE id = $1 AND status NOT IN ('paid', 'pending_review')`,
		id, requestID, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkPaid applies the AUTHORIZED outcome: status paid, paid_at stamped,
// bank authorization code stored. Terminal states are never re-processed;
// a repeat delivery leaves paid_at and auth_code unchanged.
func (s *PaymentStore) MarkPaid(id, authCode string, paidAt time.Time) (bool, error) {
	res, err := s.DB.Exec(
		`UPDATE payments
		 SET status = 'paid', paid_at = $2, auth_code = $3, updated_at = now()
		 WHERE id = $1 AND status NOT IN ('paid', 'refunded')`,
		id, paidAt, authCode)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkRejected applies the REJECTED outcome.
func (s *PaymentStore) MarkRejected(id string) (bool, error) {
	return s.setStatus(id, models.PaymentRejected)
}

// MarkFailed applies the FAILED outcome.
func (s *PaymentStore) MarkFailed(id string) (bool, error) {
	return s.setStatus(id, models.PaymentFailed)
}

// MarkRefunded applies the REFUNDED outcome. Unlike the other transitions it
// is allowed from paid, since refunds happen after settlement.
func (s *PaymentStore) MarkRefunded(id string) (bool, error) {
	res, err := s.DB.Exec(
		`UPDATE payments SET status = 'refunded', updated_at = now()
		 WHERE id = $1 AND status != 'refunded'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *PaymentStore) setStatus(id string, status models.PaymentStatus) (bool, error) {
	res, err := s.DB.Exec(
		`UPDATE payments SET status = $2, updated_at = now()
		 WHERE id = $1 AND status NOT IN ('paid', 'refunded')`,
		id, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkOverdue flips pending payments past their due date to overdue and
// returns how many rows changed. Run nightly by the scheduler.
func (s *PaymentStore) MarkOverdue() (int64, error) {
	res, err := s.DB.Exec(
		`UPDATE payments SET status = 'overdue', updated_at = now()
		 WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < CURRENT_DATE`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PaymentStats aggregates ledger counts and totals for the finance portal.
type PaymentStats struct {
	Total        int     `json:"total"`
	Paid         int     `json:"paid"`
	Pending      int     `json:"pending"`
	Overdue      int     `json:"overdue"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
}

// Stats computes ledger-wide counts and amount totals.
func (s *PaymentStore) Stats() (*PaymentStats, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'paid'),
		COUNT(*) FILTER (WHERE status IN ('pending', 'pending_review')),
		COUNT(*) FILTER (WHERE status = 'overdue'),
		COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0),
		COALESCE(SUM(amount) FILTER (WHERE status IN ('pending', 'pending_review', 'overdue')), 0)
		FROM payments`

	stats := &PaymentStats{}
	err := s.DB.QueryRow(query).Scan(
		&stats.Total, &stats.Paid, &stats.Pending, &stats.Overdue,
		&stats.TotalPaid, &stats.TotalPending,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
