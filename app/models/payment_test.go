package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	past := time.Now().AddDate(0, 0, -3)
	future := time.Now().AddDate(0, 0, 3)

	tests := []struct {
		name    string
		status  PaymentStatus
		dueDate *time.Time
		want    bool
	}{
		{"pending past due", PaymentPending, &past, true},
		{"pending not yet due", PaymentPending, &future, false},
		{"pending without due date", PaymentPending, nil, false},
		{"paid past due", PaymentPaid, &past, false},
		{"in-flight past due", PaymentPendingReview, &past, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payment{Status: tt.status, DueDate: tt.dueDate, Amount: decimal.NewFromInt(1000)}
			assert.Equal(t, tt.want, p.IsOverdue())
		})
	}
}

func TestDaysLate(t *testing.T) {
	due := time.Now().AddDate(0, 0, -10)
	p := &Payment{Status: PaymentPending, DueDate: &due}
	assert.InDelta(t, 10, p.DaysLate(), 1)

	p.Status = PaymentPaid
	assert.Zero(t, p.DaysLate())
}

func TestIsTerminal(t *testing.T) {
	terminal := []PaymentStatus{PaymentPaid, PaymentRefunded}
	for _, s := range terminal {
		assert.True(t, (&Payment{Status: s}).IsTerminal(), string(s))
	}
	open := []PaymentStatus{PaymentPending, PaymentPendingReview, PaymentRejected, PaymentFailed, PaymentOverdue}
	for _, s := range open {
		assert.False(t, (&Payment{Status: s}).IsTerminal(), string(s))
	}
}

func TestCanStartCheckout(t *testing.T) {
	startable := []PaymentStatus{PaymentPending, PaymentRejected, PaymentFailed, PaymentOverdue, PaymentRefunded}
	for _, s := range startable {
		assert.True(t, (&Payment{Status: s}).CanStartCheckout(), string(s))
	}
	blocked := []PaymentStatus{PaymentPaid, PaymentPendingReview}
	for _, s := range blocked {
		assert.False(t, (&Payment{Status: s}).CanStartCheckout(), string(s))
	}
}
