package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the durable ledger record of an amount owed by a student.
//
// A payment is created in "pending" with no provider identifiers. Starting a
// checkout session sets RequestID (the buy-order sent to Getnet) and Token
// (the session token the webhook uses to find the row) and moves it to
// "pending_review". The webhook or a manual reconciliation moves it to a
// terminal state and stamps PaidAt/AuthCode on success.
type Payment struct {
	ID        string          `json:"id"`
	StudentID string          `json:"student_id" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Concept   string          `json:"concept" validate:"required"`
	IssueDate time.Time       `json:"issue_date"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	Status    PaymentStatus   `json:"status"`

	// Getnet correlation. RequestID is unique per created session; Token is
	// unique while a session is in flight.
	RequestID     *string `json:"request_id,omitempty"`
	Token         *string `json:"token,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
	AuthCode      *string `json:"auth_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student *User `json:"student,omitempty"`
}

// IsOverdue reports whether the payment is pending past its due date. The
// value is derived, never stored: the nightly sweep materializes it into the
// "overdue" status but reads must not depend on the sweep having run.
func (p *Payment) IsOverdue() bool {
	return p.Status == PaymentPending && p.DueDate != nil && p.DueDate.Before(today())
}

// DaysLate returns how many full days the payment is past due, zero if not
// overdue.
func (p *Payment) DaysLate() int {
	if !p.IsOverdue() {
		return 0
	}
	return int(today().Sub(*p.DueDate).Hours() / 24)
}

// IsTerminal reports whether provider-driven transitions must no longer
// touch this payment.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentPaid || p.Status == PaymentRefunded
}

// CanStartCheckout reports whether a new checkout session may be created.
// Paid payments are final and pending_review ones already have a session in
// flight; everything else (including rejected and failed) may be retried.
func (p *Payment) CanStartCheckout() bool {
	return p.Status != PaymentPaid && p.Status != PaymentPendingReview
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
